package engine

import (
	"time"

	"github.com/dshills/geoedit/internal/event"
)

// frameDelay is the deferral for collapse-on-load and render notification,
// one frame at 60Hz.
const frameDelay = 16 * time.Millisecond

// scheduleReformatLocked arms the debounced reformat pass. Each call
// supersedes any pending pass, so a typing burst formats once.
func (e *Engine) scheduleReformatLocked() {
	e.reformatGen++
	if e.sync {
		e.reformatLocked()
		return
	}
	gen := e.reformatGen
	delay := time.Duration(e.cfg.DebounceMS) * time.Millisecond
	time.AfterFunc(delay, func() {
		e.mu.Lock()
		if e.closed || gen != e.reformatGen {
			e.mu.Unlock()
			return
		}
		e.reformatLocked()
		e.mu.Unlock()
		e.flush()
	})
}

// scheduleAutofoldLocked defers collapse-on-load by one frame so the host
// renders the expanded document first. A parse error arriving in the
// meantime suppresses the pass.
func (e *Engine) scheduleAutofoldLocked() {
	e.wantAutofold = false
	e.foldGen++
	if e.sync {
		e.autofoldLocked()
		return
	}
	gen := e.foldGen
	time.AfterFunc(frameDelay, func() {
		e.mu.Lock()
		if e.closed || gen != e.foldGen {
			e.mu.Unlock()
			return
		}
		e.autofoldLocked()
		e.mu.Unlock()
		e.flush()
	})
}

// autofoldLocked folds the configured attributes in every feature. The
// CollapseRoot sentinel folds the feature object itself.
func (e *Engine) autofoldLocked() {
	if e.parseErr != nil {
		return
	}
	lines := e.buf.Lines()
	for _, span := range e.feats.Spans() {
		attrs := e.collapseAttrs
		if e.collapseFunc != nil {
			attrs = e.collapseFunc(e.feats.Text(lines, span))
		}
		for _, attr := range attrs {
			if attr == CollapseRoot {
				if n := e.reg.OpenAt(span.Start); n != nil {
					e.folds.Fold(n.ID)
				}
				continue
			}
			for _, n := range e.reg.Nodes() {
				if n.Key == attr && n.StartLine >= span.Start && n.EndLine <= span.End {
					e.folds.Fold(n.ID)
				}
			}
		}
	}
	e.nv.ClampToVisible()
	e.markDirtyLocked()
}

// markDirtyLocked queues a render notification. The dirty flag coalesces a
// burst of changes into one render.lines event.
func (e *Engine) markDirtyLocked() {
	if e.renderDirty {
		return
	}
	e.renderDirty = true
	if e.sync {
		e.publishRenderLocked()
		return
	}
	time.AfterFunc(frameDelay, func() {
		e.mu.Lock()
		if e.closed || !e.renderDirty {
			e.mu.Unlock()
			return
		}
		e.publishRenderLocked()
		e.mu.Unlock()
		e.flush()
	})
}

func (e *Engine) publishRenderLocked() {
	e.renderDirty = false
	e.queue(event.TopicRender, RenderPayload{Lines: e.visibleLinesLocked()})
}
