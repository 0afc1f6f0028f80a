package nav

import (
	"github.com/dshills/geoedit/internal/engine/linebuf"
	"github.com/dshills/geoedit/internal/engine/node"
)

// Navigator holds the cursor and selection state for one engine instance.
// It reads the buffer, registry, and fold state but never mutates them.
type Navigator struct {
	buf   *linebuf.Buffer
	reg   *node.Registry
	folds *node.FoldState

	pos    Position
	anchor *Position
}

// New creates a navigator over the given model components.
func New(buf *linebuf.Buffer, reg *node.Registry, folds *node.FoldState) *Navigator {
	return &Navigator{buf: buf, reg: reg, folds: folds}
}

// Pos returns the current cursor position.
func (n *Navigator) Pos() Position {
	return n.pos
}

// HasSelection reports whether a selection with extent is active.
func (n *Navigator) HasSelection() bool {
	return n.anchor != nil && *n.anchor != n.pos
}

// Selection returns the active selection normalized to document order.
func (n *Navigator) Selection() (start, end Position, ok bool) {
	if !n.HasSelection() {
		return Position{}, Position{}, false
	}
	start, end = Order(*n.anchor, n.pos)
	return start, end, true
}

// ClearSelection drops the selection anchor.
func (n *Navigator) ClearSelection() {
	n.anchor = nil
}

// SetPos places the cursor at (line, col) from resolved pointer input,
// clamping to the document and snapping off hidden lines. A plain click
// clears the selection; with extend the anchor is kept or created.
func (n *Navigator) SetPos(line, col int, extend bool) {
	n.beginMove(extend)
	line = n.clampLine(line)
	if h := n.reg.HidingNode(line, n.folds); h != nil {
		line = h.StartLine
	}
	n.pos = Position{Line: line, Col: n.clampCol(line, col)}
}

// ClampToVisible relocates the cursor after a rebuild or reformat so it
// stays on visible text. Selections do not survive structural changes.
func (n *Navigator) ClampToVisible() {
	n.anchor = nil
	line := n.clampLine(n.pos.Line)
	for {
		h := n.reg.HidingNode(line, n.folds)
		if h == nil {
			break
		}
		line = h.StartLine
	}
	n.pos = Position{Line: line, Col: n.clampCol(line, n.pos.Col)}
}

// MoveVertical moves the cursor delta lines. A hidden target jumps to the
// enclosing fold's close line when moving down, or its open line moving up.
func (n *Navigator) MoveVertical(delta int, extend bool) {
	n.beginMove(extend)
	target := n.clampLine(n.pos.Line + delta)
	for {
		h := n.reg.HidingNode(target, n.folds)
		if h == nil {
			break
		}
		if delta > 0 {
			target = h.EndLine
		} else {
			target = h.StartLine
		}
	}
	n.pos = Position{Line: target, Col: n.clampCol(target, n.pos.Col)}
}

// MoveHorizontal moves the cursor one column left (delta < 0) or right,
// wrapping across visible lines and teleporting across folded nodes at
// their bracket columns.
func (n *Navigator) MoveHorizontal(delta int, extend bool) {
	n.beginMove(extend)
	if delta > 0 {
		n.moveRight()
	} else {
		n.moveLeft()
	}
}

func (n *Navigator) moveRight() {
	line, col := n.pos.Line, n.pos.Col
	if fo := n.reg.FoldedOpenAt(line, n.folds); fo != nil && col >= fo.OpenCol {
		n.pos = Position{Line: fo.EndLine, Col: fo.CloseCol}
		return
	}
	if col < n.buf.LineLen(line) {
		n.pos.Col = col + 1
		return
	}
	if next := n.nextVisible(line + 1); next >= 0 {
		n.pos = Position{Line: next, Col: 0}
	}
}

func (n *Navigator) moveLeft() {
	line, col := n.pos.Line, n.pos.Col
	if fc := n.reg.FoldedCloseAt(line, n.folds); fc != nil && col <= fc.CloseCol {
		n.pos = Position{Line: fc.StartLine, Col: fc.OpenCol + 1}
		return
	}
	if col > 0 {
		n.pos.Col = col - 1
		return
	}
	if prev := n.prevVisible(line - 1); prev >= 0 {
		n.pos = Position{Line: prev, Col: n.buf.LineLen(prev)}
	}
}

// Home moves to column 0. On a fold close line it relocates to that node's
// open line instead.
func (n *Navigator) Home(extend bool) {
	n.beginMove(extend)
	if fc := n.reg.FoldedCloseAt(n.pos.Line, n.folds); fc != nil {
		n.pos = Position{Line: fc.StartLine, Col: 0}
		return
	}
	n.pos.Col = 0
}

// End moves to the end of the raw line text.
func (n *Navigator) End(extend bool) {
	n.beginMove(extend)
	n.pos.Col = n.buf.LineLen(n.pos.Line)
}

// SelectAll anchors the document start and places the cursor at the end.
// It does not force a scroll; the presentation layer decides what to show.
func (n *Navigator) SelectAll() {
	last := n.buf.Len() - 1
	a := Position{}
	n.anchor = &a
	n.pos = Position{Line: last, Col: n.buf.LineLen(last)}
}

// beginMove establishes or clears the selection anchor for a movement.
func (n *Navigator) beginMove(extend bool) {
	if !extend {
		n.anchor = nil
		return
	}
	if n.anchor == nil {
		a := n.pos
		n.anchor = &a
	}
}

// clampFoldLanding applies the horizontal teleport rules to a computed
// landing position so that no motion ends up inside a folded span.
func (n *Navigator) clampFoldLanding(p Position, forward bool) Position {
	if fo := n.reg.FoldedOpenAt(p.Line, n.folds); fo != nil && p.Col > fo.OpenCol {
		if forward {
			return Position{Line: fo.EndLine, Col: fo.CloseCol}
		}
		return Position{Line: fo.StartLine, Col: fo.OpenCol + 1}
	}
	if fc := n.reg.FoldedCloseAt(p.Line, n.folds); fc != nil && p.Col < fc.CloseCol {
		if forward {
			return Position{Line: fc.EndLine, Col: fc.CloseCol}
		}
		return Position{Line: fc.StartLine, Col: fc.OpenCol + 1}
	}
	return p
}

func (n *Navigator) clampLine(line int) int {
	if line < 0 {
		return 0
	}
	if max := n.buf.Len() - 1; line > max {
		return max
	}
	return line
}

func (n *Navigator) clampCol(line, col int) int {
	if col < 0 {
		return 0
	}
	if max := n.buf.LineLen(line); col > max {
		return max
	}
	return col
}

// nextVisible returns the first visible line at or after line, or -1.
func (n *Navigator) nextVisible(line int) int {
	for ; line < n.buf.Len(); line++ {
		if !n.reg.IsHidden(line, n.folds) {
			return line
		}
	}
	return -1
}

// prevVisible returns the first visible line at or before line, or -1.
func (n *Navigator) prevVisible(line int) int {
	for ; line >= 0; line-- {
		if !n.reg.IsHidden(line, n.folds) {
			return line
		}
	}
	return -1
}
