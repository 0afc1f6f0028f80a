package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/geoedit/internal/clipboard"
	"github.com/dshills/geoedit/internal/config"
	"github.com/dshills/geoedit/internal/engine/edit"
	"github.com/dshills/geoedit/internal/engine/feature"
	"github.com/dshills/geoedit/internal/engine/format"
	"github.com/dshills/geoedit/internal/engine/history"
	"github.com/dshills/geoedit/internal/engine/linebuf"
	"github.com/dshills/geoedit/internal/engine/nav"
	"github.com/dshills/geoedit/internal/engine/node"
	"github.com/dshills/geoedit/internal/event"
)

// Engine is one editing session over one feature document. Every component
// is instance-owned; two engines never share state.
type Engine struct {
	id   string
	log  *Logger
	cfg  config.Config
	bus  *event.Bus
	clip clipboard.Clipboard

	collapseAttrs []string
	collapseFunc  CollapseFunc
	sync          bool

	mu    sync.Mutex
	buf   *linebuf.Buffer
	reg   *node.Registry
	folds *node.FoldState
	feats *feature.Index
	nv    *nav.Navigator
	ed    *edit.Editor
	hist  *history.History

	hidden   map[string]bool
	parseErr *ParseError
	valErrs  []feature.Error

	wantAutofold bool
	reformatGen  uint64
	foldGen      uint64
	renderDirty  bool
	closed       bool

	pending []queuedEvent
}

type queuedEvent struct {
	topic   event.Topic
	payload any
}

// New creates an engine with an empty document.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:     uuid.NewString(),
		log:    NewLogger(LogLevelWarn, nil),
		cfg:    config.Default(),
		bus:    event.NewBus(),
		clip:   clipboard.NewMemory(),
		hidden: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.collapseAttrs == nil {
		e.collapseAttrs = e.cfg.Collapse
	}
	e.log = e.log.WithComponent("engine").WithField("session", e.id)

	e.buf = linebuf.New()
	e.reg = node.NewRegistry()
	e.folds = node.NewFoldState()
	e.feats = feature.NewIndex()
	e.nv = nav.New(e.buf, e.reg, e.folds)
	e.ed = edit.New(e.buf, e.reg, e.folds, e.nv)
	e.hist = history.New(e.cfg.UndoDepth, time.Duration(e.cfg.CoalesceMS)*time.Millisecond)
	return e
}

// ID returns the engine's session id.
func (e *Engine) ID() string {
	return e.id
}

// Events returns the notification bus for host subscriptions.
func (e *Engine) Events() *event.Bus {
	return e.bus
}

// Close invalidates pending deferred work and rejects further operations.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.reformatGen++
	e.foldGen++
	e.log.Debug("engine closed")
}

// Cursor returns the current cursor position.
func (e *Engine) Cursor() (line, col int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.nv.Pos()
	return p.Line, p.Col
}

// Selection returns the active selection in document order.
func (e *Engine) Selection() (startLine, startCol, endLine, endCol int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	start, end, ok := e.nv.Selection()
	if !ok {
		return 0, 0, 0, 0, false
	}
	return start.Line, start.Col, end.Line, end.Col, true
}

// Text returns the raw buffer text, the comma-separated feature object list
// without the enclosing array brackets.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text()
}

// Valid reports whether the buffer parses and every feature validates.
func (e *Engine) Valid() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parseErr == nil && len(e.valErrs) == 0
}

// LastError returns the pending parse error, or nil.
func (e *Engine) LastError() *ParseError {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parseErr
}

// Undo restores the buffer and cursor to the most recent snapshot.
func (e *Engine) Undo() bool {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	return e.undoLocked()
}

// Redo reapplies the most recently undone action.
func (e *Engine) Redo() bool {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	return e.redoLocked()
}

// CanUndo reports whether an undo step is available.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hist.CanRedo()
}

// ToggleFold flips the fold state of the node opening or closing at line.
// When line is inside an expanded node but not on a boundary, the innermost
// enclosing node folds.
func (e *Engine) ToggleFold(line int) bool {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	return e.toggleFoldAtLocked(line)
}

// FoldAt collapses the node opening at line, or the innermost expanded node
// enclosing it.
func (e *Engine) FoldAt(line int) bool {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	n := e.reg.OpenAt(line)
	if n == nil || e.folds.IsFolded(n.ID) {
		n = e.reg.InnermostExpandedAncestor(line, e.folds)
	}
	if n == nil {
		return false
	}
	e.folds.Fold(n.ID)
	e.nv.ClampToVisible()
	e.markDirtyLocked()
	return true
}

// ExpandAt unfolds the folded node whose boundary is at line.
func (e *Engine) ExpandAt(line int) bool {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	return e.unfoldAtLocked(line)
}

// applyLocked runs one guarded mutation: the pre-state is recorded for undo
// only when the mutation actually changed the buffer, then the model is
// rebuilt and a reformat pass is scheduled.
func (e *Engine) applyLocked(kind history.Kind, fn func() bool) bool {
	if e.closed {
		return false
	}
	before := e.buf.Snapshot()
	p := e.nv.Pos()
	if !fn() {
		return false
	}
	e.hist.RecordBefore(kind, before, p.Line, p.Col)
	e.rebuildLocked()
	e.markDirtyLocked()
	e.scheduleReformatLocked()
	return true
}

// rebuildLocked rediscovers nodes and features from the buffer and relocates
// the cursor onto visible text.
func (e *Engine) rebuildLocked() {
	lines := e.buf.Lines()
	e.reg.Rebuild(lines, e.folds)
	e.feats.Rebuild(lines)
	e.reg.MarkRootFeatures(e.feats.StartLines())
	e.nv.ClampToVisible()
}

// reformatLocked runs the reformat pass immediately: canonicalize when the
// document parses, otherwise apply the tolerant pass and raise an error
// event. Any pending debounced pass is superseded.
func (e *Engine) reformatLocked() {
	e.reformatGen++

	text := e.buf.Text()
	out, ok := format.Reformat(text)
	if out != text {
		e.buf.SetText(out)
	}
	e.rebuildLocked()

	if !ok {
		e.parseErr = &ParseError{Message: "document is not valid JSON", Content: e.buf.Text()}
		e.valErrs = nil
		e.log.Debug("reformat failed, tolerant pass applied")
		e.queue(event.TopicError, ErrorPayload{Message: e.parseErr.Message, Content: e.parseErr.Content})
		e.markDirtyLocked()
		return
	}

	e.parseErr = nil
	e.valErrs = e.feats.ValidateAll(e.buf.Lines())
	e.queueChangeLocked()
	if e.wantAutofold {
		e.scheduleAutofoldLocked()
	}
	e.markDirtyLocked()
}

func (e *Engine) undoLocked() bool {
	p := e.nv.Pos()
	snap, ok := e.hist.Undo(e.buf.Lines(), p.Line, p.Col)
	if !ok {
		return false
	}
	e.restoreLocked(snap)
	return true
}

func (e *Engine) redoLocked() bool {
	p := e.nv.Pos()
	snap, ok := e.hist.Redo(e.buf.Lines(), p.Line, p.Col)
	if !ok {
		return false
	}
	e.restoreLocked(snap)
	return true
}

// restoreLocked installs a history snapshot verbatim. No reformat runs; the
// snapshot already holds post-reformat text, and a pending debounced pass
// must not clobber it.
func (e *Engine) restoreLocked(s *history.Snapshot) {
	e.reformatGen++
	e.buf.SetLines(s.Lines)
	e.rebuildLocked()
	e.nv.SetPos(s.CursorLine, s.CursorCol, false)
	e.refreshValidationLocked()
	e.markDirtyLocked()
}

// refreshValidationLocked recomputes validity after a restore without
// rewriting the buffer.
func (e *Engine) refreshValidationLocked() {
	if _, ok := format.Canonical(e.buf.Text()); ok {
		e.parseErr = nil
		e.valErrs = e.feats.ValidateAll(e.buf.Lines())
		e.queueChangeLocked()
		return
	}
	e.parseErr = &ParseError{Message: "document is not valid JSON", Content: e.buf.Text()}
	e.valErrs = nil
	e.queue(event.TopicError, ErrorPayload{Message: e.parseErr.Message, Content: e.parseErr.Content})
}

func (e *Engine) toggleFoldAtLocked(line int) bool {
	n := e.reg.OpenAt(line)
	if n == nil {
		n = e.reg.CloseAt(line)
	}
	if n == nil {
		n = e.reg.InnermostExpandedAncestor(line, e.folds)
	}
	if n == nil {
		return false
	}
	e.folds.Toggle(n.ID)
	e.nv.ClampToVisible()
	e.markDirtyLocked()
	return true
}

func (e *Engine) unfoldAtLocked(line int) bool {
	n := e.reg.FoldedOpenAt(line, e.folds)
	if n == nil {
		n = e.reg.FoldedCloseAt(line, e.folds)
	}
	if n == nil {
		return false
	}
	e.folds.Unfold(n.ID)
	e.markDirtyLocked()
	return true
}

func (e *Engine) copyLocked() bool {
	start, end, ok := e.nv.Selection()
	if !ok {
		return false
	}
	text := e.buf.TextRange(start.Line, start.Col, end.Line, end.Col)
	if err := e.clip.Write(text); err != nil {
		e.log.Warn("clipboard write failed: %v", err)
		return false
	}
	return true
}

func (e *Engine) cutLocked() bool {
	if !e.copyLocked() {
		return false
	}
	return e.applyLocked(history.KindStructural, e.ed.DeleteSelection)
}

// queue buffers an event for publication after the lock is released.
// Publishing under the lock would deadlock handlers that call back in.
func (e *Engine) queue(topic event.Topic, payload any) {
	e.pending = append(e.pending, queuedEvent{topic: topic, payload: payload})
}

// flush publishes all queued events outside the lock.
func (e *Engine) flush() {
	e.mu.Lock()
	pending := e.pending
	e.pending = nil
	e.mu.Unlock()
	for _, q := range pending {
		e.bus.Publish(q.topic, q.payload)
	}
}
