package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/geoedit/internal/engine"
	"github.com/dshills/geoedit/internal/event"
)

const gutterWidth = 5

// ui owns the tcell screen and translates terminal events into resolved
// engine input. All engine interpretation lives in the engine; the ui only
// decodes keys and paints the projection.
type ui struct {
	screen  tcell.Screen
	eng     *engine.Engine
	path    string
	topLine int
	status  string
}

func newUI(eng *engine.Engine, path string) (*ui, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	u := &ui{screen: screen, eng: eng, path: path}

	// Deferred engine work lands on timer goroutines; bounce it onto the
	// event loop as an interrupt so drawing stays single-threaded.
	eng.Events().Subscribe(event.TopicRender, func(event.Event) {
		u.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	eng.Events().Subscribe(event.TopicError, func(ev event.Event) {
		p := ev.Payload.(engine.ErrorPayload)
		u.status = p.Message
	})
	eng.Events().Subscribe(event.TopicChange, func(ev event.Event) {
		p := ev.Payload.(engine.ChangePayload)
		if p.Valid {
			u.status = fmt.Sprintf("%d features", p.Count)
		} else {
			u.status = fmt.Sprintf("%d validation errors", len(p.Validation))
		}
	})
	return u, nil
}

// Refresh requests a redraw from any goroutine.
func (u *ui) Refresh() {
	u.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Stop ends the event loop.
func (u *ui) Stop() {
	u.screen.PostEvent(tcell.NewEventInterrupt(quitRequest{}))
}

type quitRequest struct{}

// Run initializes the screen and processes events until quit.
func (u *ui) Run() error {
	if err := u.screen.Init(); err != nil {
		return err
	}
	defer u.screen.Fini()
	u.screen.EnableMouse()
	u.screen.EnablePaste()

	for {
		u.draw()
		ev := u.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			if _, quit := ev.Data().(quitRequest); quit {
				return nil
			}
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			if quit := u.handleKey(ev); quit {
				return nil
			}
		case *tcell.EventMouse:
			u.handleMouse(ev)
		}
	}
}

// handleKey decodes one key event. It reports whether the user quit.
func (u *ui) handleKey(ev *tcell.EventKey) bool {
	var mods engine.Modifiers
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= engine.ModShift
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		return true
	case tcell.KeyUp:
		u.eng.HandleKey(engine.CmdMoveUp, mods)
	case tcell.KeyDown:
		u.eng.HandleKey(engine.CmdMoveDown, mods)
	case tcell.KeyLeft:
		u.eng.HandleKey(engine.CmdMoveLeft, mods)
	case tcell.KeyRight:
		u.eng.HandleKey(engine.CmdMoveRight, mods)
	case tcell.KeyHome:
		u.eng.HandleKey(engine.CmdHome, mods)
	case tcell.KeyEnd:
		u.eng.HandleKey(engine.CmdEnd, mods)
	case tcell.KeyEnter:
		u.eng.HandleKey(engine.CmdNewline, 0)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		u.eng.HandleKey(engine.CmdDeleteBackward, 0)
	case tcell.KeyDelete:
		u.eng.HandleKey(engine.CmdDeleteForward, 0)
	case tcell.KeyTab:
		u.eng.HandleKey(engine.CmdToggleFold, 0)
	case tcell.KeyBacktab:
		u.eng.HandleKey(engine.CmdUnfold, 0)
	case tcell.KeyCtrlA:
		u.eng.HandleKey(engine.CmdSelectAll, 0)
	case tcell.KeyCtrlC:
		u.eng.HandleKey(engine.CmdCopy, 0)
	case tcell.KeyCtrlX:
		u.eng.HandleKey(engine.CmdCut, 0)
	case tcell.KeyCtrlV:
		u.eng.HandleKey(engine.CmdPaste, 0)
	case tcell.KeyCtrlZ:
		u.eng.HandleKey(engine.CmdUndo, 0)
	case tcell.KeyCtrlY:
		u.eng.HandleKey(engine.CmdRedo, 0)
	case tcell.KeyCtrlW:
		u.eng.HandleKey(engine.CmdWordRight, mods)
	case tcell.KeyCtrlB:
		u.eng.HandleKey(engine.CmdWordLeft, mods)
	case tcell.KeyCtrlN:
		u.eng.HandleKey(engine.CmdNextUnit, 0)
	case tcell.KeyCtrlP:
		u.eng.HandleKey(engine.CmdPrevUnit, 0)
	case tcell.KeyRune:
		u.eng.HandleText(string(ev.Rune()))
	}
	return false
}

// handleMouse maps a click from screen space to a buffer position.
func (u *ui) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	lines := u.eng.VisibleLines()
	row := u.topLine + y
	if row < 0 || row >= len(lines) {
		return
	}
	var mods engine.Modifiers
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= engine.ModShift
	}
	col := x - gutterWidth
	if col < 0 {
		// A click in the gutter toggles the fold on that line.
		u.eng.ToggleFold(lines[row].Index)
		return
	}
	u.eng.HandlePointer(lines[row].Index, col, mods)
}

func (u *ui) draw() {
	u.screen.Clear()
	width, height := u.screen.Size()
	if height < 2 {
		return
	}
	body := height - 1

	lines := u.eng.VisibleLines()
	curLine, curCol := u.eng.Cursor()

	// Keep the cursor's row inside the viewport.
	curRow := 0
	for i, ln := range lines {
		if ln.Index == curLine {
			curRow = i
			break
		}
	}
	if curRow < u.topLine {
		u.topLine = curRow
	}
	if curRow >= u.topLine+body {
		u.topLine = curRow - body + 1
	}

	base := tcell.StyleDefault
	gutter := base.Foreground(tcell.ColorGray)
	foldMark := base.Foreground(tcell.ColorYellow)
	featMark := base.Foreground(tcell.ColorGreen).Bold(true)

	for y := 0; y < body; y++ {
		i := u.topLine + y
		if i >= len(lines) {
			break
		}
		ln := lines[i]

		mark := ' '
		markStyle := gutter
		switch {
		case ln.Meta.FoldOpen:
			mark = '+'
			markStyle = foldMark
		case ln.Meta.FoldClose:
			mark = '-'
			markStyle = foldMark
		case ln.Meta.FeatureStart:
			mark = '*'
			markStyle = featMark
		}
		drawText(u.screen, 0, y, gutter, fmt.Sprintf("%3d", ln.Index+1))
		u.screen.SetContent(3, y, mark, nil, markStyle)

		text := ln.Text
		if ln.Meta.FoldOpen {
			text = fmt.Sprintf("%s … %d lines", text, ln.Meta.HiddenCount)
		}
		drawText(u.screen, gutterWidth, y, base, clip(text, width-gutterWidth))
	}

	title := u.path
	if title == "" {
		title = "[no file]"
	}
	status := fmt.Sprintf(" %s | %s | %d:%d ", title, u.status, curLine+1, curCol+1)
	drawText(u.screen, 0, height-1, base.Reverse(true), pad(status, width))

	if curRow >= u.topLine && curRow < u.topLine+body {
		u.screen.ShowCursor(gutterWidth+curCol, curRow-u.topLine)
	} else {
		u.screen.HideCursor()
	}
	u.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func pad(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
