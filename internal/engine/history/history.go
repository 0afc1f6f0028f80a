package history

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies mutating actions for coalescing purposes. Consecutive
// same-kind actions within the coalescing window share one undo step.
type Kind string

// Action kinds recorded by the engine.
const (
	KindInsert        Kind = "insert"
	KindDeleteBack    Kind = "delete-backward"
	KindDeleteForward Kind = "delete-forward"
	KindPaste         Kind = "paste"
	KindStructural    Kind = "structural"
)

// Default configuration values.
const (
	DefaultMaxEntries     = 200
	DefaultCoalesceWindow = 500 * time.Millisecond
)

// Snapshot is an immutable copy of the buffer and cursor taken before a
// mutating action.
type Snapshot struct {
	ID         string
	Lines      []string
	CursorLine int
	CursorCol  int
	TakenAt    time.Time
}

// NewSnapshot copies lines and stamps the snapshot with a fresh id.
func NewSnapshot(lines []string, cursorLine, cursorCol int, at time.Time) *Snapshot {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return &Snapshot{
		ID:         uuid.NewString(),
		Lines:      cp,
		CursorLine: cursorLine,
		CursorCol:  cursorCol,
		TakenAt:    at,
	}
}

// History manages the undo and redo stacks for one engine instance.
type History struct {
	undo []*Snapshot
	redo []*Snapshot

	lastKind Kind
	lastPush time.Time

	window     time.Duration
	maxEntries int

	// now is replaceable for tests.
	now func() time.Time
}

// New creates a history manager. Non-positive arguments select the defaults.
func New(maxEntries int, window time.Duration) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if window <= 0 {
		window = DefaultCoalesceWindow
	}
	return &History{
		maxEntries: maxEntries,
		window:     window,
		now:        time.Now,
	}
}

// RecordBefore is called before a mutating action of the given kind with the
// current buffer and cursor state. It clears the redo stack (any non-replay
// mutation invalidates redo) and pushes a snapshot unless the action
// coalesces with the previous one. It reports whether a snapshot was pushed.
func (h *History) RecordBefore(kind Kind, lines []string, cursorLine, cursorCol int) bool {
	now := h.now()
	h.redo = nil

	if kind == h.lastKind && now.Sub(h.lastPush) <= h.window {
		return false
	}

	h.undo = append(h.undo, NewSnapshot(lines, cursorLine, cursorCol, now))
	if len(h.undo) > h.maxEntries {
		excess := len(h.undo) - h.maxEntries
		h.undo = h.undo[excess:]
	}
	h.lastKind = kind
	h.lastPush = now
	return true
}

// Undo pushes the current state onto the redo stack and returns the most
// recent undo snapshot. The returned snapshot is removed from the stack.
func (h *History) Undo(lines []string, cursorLine, cursorCol int) (*Snapshot, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	h.redo = append(h.redo, NewSnapshot(lines, cursorLine, cursorCol, h.now()))
	snap := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.breakCoalescing()
	return snap, true
}

// Redo mirrors Undo: the current state moves to the undo stack and the most
// recent redo snapshot is returned.
func (h *History) Redo(lines []string, cursorLine, cursorCol int) (*Snapshot, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	h.undo = append(h.undo, NewSnapshot(lines, cursorLine, cursorCol, h.now()))
	snap := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.breakCoalescing()
	return snap, true
}

// breakCoalescing ensures the next mutation after a replay starts a fresh
// undo step.
func (h *History) breakCoalescing() {
	h.lastKind = ""
	h.lastPush = time.Time{}
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// UndoDepth returns the number of available undo steps.
func (h *History) UndoDepth() int {
	return len(h.undo)
}

// RedoDepth returns the number of available redo steps.
func (h *History) RedoDepth() int {
	return len(h.redo)
}

// Clear discards all history.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
	h.breakCoalescing()
}

// SetClock replaces the time source. Tests use this to drive the coalescing
// window deterministically.
func (h *History) SetClock(now func() time.Time) {
	if now != nil {
		h.now = now
	}
}
