package engine

import "github.com/dshills/geoedit/internal/engine/history"

// Command names a resolved editing action. The host owns raw key decoding;
// the engine only sees commands, text, and pointer positions.
type Command string

// Commands accepted by HandleKey.
const (
	CmdMoveUp         Command = "move-up"
	CmdMoveDown       Command = "move-down"
	CmdMoveLeft       Command = "move-left"
	CmdMoveRight      Command = "move-right"
	CmdWordLeft       Command = "word-left"
	CmdWordRight      Command = "word-right"
	CmdHome           Command = "home"
	CmdEnd            Command = "end"
	CmdSelectAll      Command = "select-all"
	CmdNextUnit       Command = "next-unit"
	CmdPrevUnit       Command = "prev-unit"
	CmdNewline        Command = "newline"
	CmdDeleteBackward Command = "delete-backward"
	CmdDeleteForward  Command = "delete-forward"
	CmdUndo           Command = "undo"
	CmdRedo           Command = "redo"
	CmdToggleFold     Command = "toggle-fold"
	CmdUnfold         Command = "unfold"
	CmdCopy           Command = "copy"
	CmdCut            Command = "cut"
	CmdPaste          Command = "paste"
)

// Modifiers is a bitmask of modifier keys attached to a command or pointer
// event.
type Modifiers uint8

// Modifier bits.
const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Shift reports whether the shift bit is set.
func (m Modifiers) Shift() bool {
	return m&ModShift != 0
}

// HandleKey executes one resolved command. Shift extends the selection on
// movement commands. It reports whether the command had any effect; guard
// rejections are silent no-ops.
func (e *Engine) HandleKey(cmd Command, mods Modifiers) bool {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	ext := mods.Shift()

	switch cmd {
	case CmdMoveUp:
		e.nv.MoveVertical(-1, ext)
	case CmdMoveDown:
		e.nv.MoveVertical(1, ext)
	case CmdMoveLeft:
		e.nv.MoveHorizontal(-1, ext)
	case CmdMoveRight:
		e.nv.MoveHorizontal(1, ext)
	case CmdWordLeft:
		e.nv.WordBackward(ext)
	case CmdWordRight:
		e.nv.WordForward(ext)
	case CmdHome:
		e.nv.Home(ext)
	case CmdEnd:
		e.nv.End(ext)
	case CmdSelectAll:
		e.nv.SelectAll()
	case CmdNextUnit:
		e.nv.NextUnit()
	case CmdPrevUnit:
		e.nv.PrevUnit()
	case CmdNewline:
		return e.applyLocked(history.KindInsert, func() bool { return e.ed.InsertText("\n") })
	case CmdDeleteBackward:
		return e.applyLocked(history.KindDeleteBack, e.ed.DeleteBackward)
	case CmdDeleteForward:
		return e.applyLocked(history.KindDeleteForward, e.ed.DeleteForward)
	case CmdUndo:
		return e.undoLocked()
	case CmdRedo:
		return e.redoLocked()
	case CmdToggleFold:
		return e.toggleFoldAtLocked(e.nv.Pos().Line)
	case CmdUnfold:
		return e.unfoldAtLocked(e.nv.Pos().Line)
	case CmdCopy:
		return e.copyLocked()
	case CmdCut:
		return e.cutLocked()
	case CmdPaste:
		text, err := e.clip.Read()
		if err != nil || text == "" {
			return false
		}
		return e.applyLocked(history.KindPaste, func() bool { return e.ed.ReplaceSelection(text) })
	default:
		return false
	}

	e.markDirtyLocked()
	return true
}

// HandleText inserts printable input at the cursor, replacing the selection
// if one is active.
func (e *Engine) HandleText(text string) bool {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(history.KindInsert, func() bool { return e.ed.InsertText(text) })
}

// HandlePaste inserts host-provided paste text as a single action.
func (e *Engine) HandlePaste(text string) bool {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.applyLocked(history.KindPaste, func() bool { return e.ed.ReplaceSelection(text) })
}

// HandlePointer places the cursor from a resolved pointer position. Shift
// extends the selection.
func (e *Engine) HandlePointer(line, col int, mods Modifiers) bool {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.nv.SetPos(line, col, mods.Shift())
	e.markDirtyLocked()
	return true
}
