package edit

import (
	"github.com/dshills/geoedit/internal/engine/linebuf"
	"github.com/dshills/geoedit/internal/engine/nav"
	"github.com/dshills/geoedit/internal/engine/node"
)

// Editor applies character-level mutations to the buffer on behalf of the
// engine. It owns no state of its own; the buffer, registry, fold state,
// and navigator are shared with the engine instance.
type Editor struct {
	buf   *linebuf.Buffer
	reg   *node.Registry
	folds *node.FoldState
	nv    *nav.Navigator
}

// New creates an editor over the shared model components.
func New(buf *linebuf.Buffer, reg *node.Registry, folds *node.FoldState, nv *nav.Navigator) *Editor {
	return &Editor{buf: buf, reg: reg, folds: folds, nv: nv}
}

// InsertText inserts text at the cursor, replacing the selection if one is
// active. It reports whether the buffer changed; a guard rejection is a
// silent no-op.
func (e *Editor) InsertText(text string) bool {
	if text == "" {
		return false
	}
	if _, _, ok := e.nv.Selection(); ok {
		return e.replaceSelection(text)
	}
	p := e.nv.Pos()
	if !e.insertAllowed(p) {
		return false
	}
	line, col := e.buf.InsertAt(p.Line, p.Col, text)
	e.nv.SetPos(line, col, false)
	return true
}

// DeleteBackward deletes the character before the cursor, merging lines at
// column 0. At a fold boundary it deletes the folded node's entire line
// range atomically.
func (e *Editor) DeleteBackward() bool {
	if _, _, ok := e.nv.Selection(); ok {
		return e.DeleteSelection()
	}
	p := e.nv.Pos()
	if e.reg.IsHidden(p.Line, e.folds) {
		return false
	}

	if p.Col == 0 {
		// Backspace at column 0 of a collapsed open line removes the node.
		if fo := e.reg.FoldedOpenAt(p.Line, e.folds); fo != nil {
			return e.deleteNodeRange(fo)
		}
		if p.Line == 0 {
			return false
		}
		prev := p.Line - 1
		if e.reg.IsHidden(prev, e.folds) {
			return false
		}
		col := e.buf.LineLen(prev)
		e.buf.JoinWithNext(prev)
		e.nv.SetPos(prev, col, false)
		return true
	}

	if fc := e.reg.FoldedCloseAt(p.Line, e.folds); fc != nil {
		// Just past the close bracket removes the node atomically; at or
		// before the bracket the delete would corrupt hidden content.
		if p.Col == fc.CloseCol+1 {
			return e.deleteNodeRange(fc)
		}
		if p.Col <= fc.CloseCol {
			return false
		}
	}
	if fo := e.reg.FoldedOpenAt(p.Line, e.folds); fo != nil && p.Col-1 <= fo.OpenCol {
		return false
	}

	e.buf.DeleteRange(p.Line, p.Col-1, p.Line, p.Col)
	e.nv.SetPos(p.Line, p.Col-1, false)
	return true
}

// DeleteForward deletes the character at the cursor, merging with the next
// line at end of line.
func (e *Editor) DeleteForward() bool {
	if _, _, ok := e.nv.Selection(); ok {
		return e.DeleteSelection()
	}
	p := e.nv.Pos()
	if e.reg.IsHidden(p.Line, e.folds) {
		return false
	}
	if fo := e.reg.FoldedOpenAt(p.Line, e.folds); fo != nil && p.Col <= fo.OpenCol {
		// The target is the bracket or the key text ahead of it; key edits
		// would also break fold reconciliation on the next rebuild.
		return false
	}
	if fc := e.reg.FoldedCloseAt(p.Line, e.folds); fc != nil && p.Col <= fc.CloseCol {
		return false
	}

	if p.Col >= e.buf.LineLen(p.Line) {
		next := p.Line + 1
		if next >= e.buf.Len() || e.reg.IsHidden(next, e.folds) {
			return false
		}
		e.buf.JoinWithNext(p.Line)
		e.nv.SetPos(p.Line, p.Col, false)
		return true
	}
	e.buf.DeleteRange(p.Line, p.Col, p.Line, p.Col+1)
	e.nv.SetPos(p.Line, p.Col, false)
	return true
}

// DeleteSelection removes the selected range. The range must not cut into
// hidden content: any folded node intersecting the range must be fully
// contained in it.
func (e *Editor) DeleteSelection() bool {
	start, end, ok := e.nv.Selection()
	if !ok {
		return false
	}
	if !e.rangeDeletable(start, end) {
		return false
	}
	e.buf.DeleteRange(start.Line, start.Col, end.Line, end.Col)
	e.nv.ClearSelection()
	e.nv.SetPos(start.Line, start.Col, false)
	return true
}

// ReplaceSelection is paste-replace: the selection (or cursor position)
// receives the new text as one action.
func (e *Editor) ReplaceSelection(text string) bool {
	if _, _, ok := e.nv.Selection(); ok {
		return e.replaceSelection(text)
	}
	return e.InsertText(text)
}

func (e *Editor) replaceSelection(text string) bool {
	start, end, ok := e.nv.Selection()
	if !ok {
		return false
	}
	if !e.rangeDeletable(start, end) {
		return false
	}
	e.buf.DeleteRange(start.Line, start.Col, end.Line, end.Col)
	e.nv.ClearSelection()
	e.nv.SetPos(start.Line, start.Col, false)
	if text == "" {
		return true
	}
	line, col := e.buf.InsertAt(start.Line, start.Col, text)
	e.nv.SetPos(line, col, false)
	return true
}

// deleteNodeRange removes a folded node's whole line range atomically.
func (e *Editor) deleteNodeRange(n *node.Node) bool {
	start := n.StartLine
	e.folds.Unfold(n.ID)
	e.buf.RemoveLines(n.StartLine, n.EndLine)
	if start >= e.buf.Len() {
		start = e.buf.Len() - 1
	}
	e.nv.SetPos(start, 0, false)
	return true
}

// insertAllowed reports whether a single insertion point is a legal edit
// position: not hidden, and not at or before a folded node's bracket.
func (e *Editor) insertAllowed(p nav.Position) bool {
	if e.reg.IsHidden(p.Line, e.folds) {
		return false
	}
	if fo := e.reg.FoldedOpenAt(p.Line, e.folds); fo != nil && p.Col <= fo.OpenCol {
		return false
	}
	if fc := e.reg.FoldedCloseAt(p.Line, e.folds); fc != nil && p.Col <= fc.CloseCol {
		return false
	}
	return true
}

// rangeDeletable reports whether [start, end] can be removed without
// corrupting hidden content: endpoints must be legal edit positions, and a
// folded node's protected span (its brackets and everything between) may
// only be touched when the range swallows it whole.
func (e *Editor) rangeDeletable(start, end nav.Position) bool {
	if !e.insertAllowed(start) || !e.insertAllowed(end) {
		return false
	}
	for _, n := range e.reg.Nodes() {
		if !e.folds.IsFolded(n.ID) {
			continue
		}
		p1 := nav.Position{Line: n.StartLine, Col: n.OpenCol}
		p2 := nav.Position{Line: n.EndLine, Col: n.CloseCol + 1}
		if !start.Before(p2) || !p1.Before(end) {
			continue
		}
		if p1.Before(start) || end.Before(p2) {
			return false
		}
	}
	return true
}
