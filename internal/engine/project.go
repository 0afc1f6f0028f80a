package engine

import (
	"github.com/dshills/geoedit/internal/engine/node"
)

// LineMeta annotates a projected line for the presentation layer.
type LineMeta struct {
	// NodeID is set on fold boundary lines.
	NodeID node.ID

	// FoldOpen marks the opening boundary of a folded node.
	FoldOpen bool

	// FoldClose marks the closing boundary of a folded node.
	FoldClose bool

	// HiddenCount is the number of hidden lines summarized by a fold open
	// line.
	HiddenCount int

	// FeatureStart marks the first line of a feature object.
	FeatureStart bool

	// FeatureKey is the content-stable key of the feature starting here.
	FeatureKey string
}

// Line is one visible line of the projection with its buffer index.
type Line struct {
	Index int
	Text  string
	Meta  LineMeta
}

// RenderPayload is published on render.lines when the projection changes.
type RenderPayload struct {
	Lines []Line
}

// VisibleLines returns the current projection: every buffer line not hidden
// inside a folded node, annotated with fold and feature boundaries.
func (e *Engine) VisibleLines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visibleLinesLocked()
}

func (e *Engine) visibleLinesLocked() []Line {
	var out []Line
	for i := 0; i < e.buf.Len(); i++ {
		if e.reg.IsHidden(i, e.folds) {
			continue
		}
		var m LineMeta
		if n := e.reg.FoldedOpenAt(i, e.folds); n != nil {
			m.NodeID = n.ID
			m.FoldOpen = true
			m.HiddenCount = n.HiddenCount()
		}
		if n := e.reg.FoldedCloseAt(i, e.folds); n != nil {
			m.FoldClose = true
			if m.NodeID == 0 {
				m.NodeID = n.ID
			}
		}
		if s, ok := e.feats.SpanAt(i); ok && s.Start == i {
			m.FeatureStart = true
			m.FeatureKey = s.Key
		}
		out = append(out, Line{Index: i, Text: e.buf.Line(i), Meta: m})
	}
	return out
}
