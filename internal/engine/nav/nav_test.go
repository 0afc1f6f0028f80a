package nav

import (
	"testing"

	"github.com/dshills/geoedit/internal/engine/linebuf"
	"github.com/dshills/geoedit/internal/engine/node"
)

const pointFeature = `{
  "type": "Feature",
  "geometry": {
    "type": "Point",
    "coordinates": [
      1,
      2
    ]
  },
  "properties": {}
}`

// newFixture builds a navigator over the point feature with an optional
// folded node selected by key.
func newFixture(t *testing.T, foldKey string) (*Navigator, *node.Registry, *node.FoldState) {
	t.Helper()
	buf := linebuf.NewFromText(pointFeature)
	reg := node.NewRegistry()
	folds := node.NewFoldState()
	reg.Rebuild(buf.Lines(), folds)
	if foldKey != "" {
		found := false
		for _, n := range reg.Nodes() {
			if n.Key == foldKey {
				folds.Fold(n.ID)
				found = true
			}
		}
		if !found {
			t.Fatalf("fold key %q not found", foldKey)
		}
	}
	return New(buf, reg, folds), reg, folds
}

func TestVerticalSkipsHiddenLines(t *testing.T) {
	// coordinates spans lines 4..7; 5 and 6 are hidden when folded.
	nv, _, _ := newFixture(t, "coordinates")

	nv.SetPos(4, 0, false)
	nv.MoveVertical(1, false)
	if nv.Pos().Line != 7 {
		t.Errorf("down from open line landed on %d, want close line 7", nv.Pos().Line)
	}
	nv.MoveVertical(-1, false)
	if nv.Pos().Line != 4 {
		t.Errorf("up from close line landed on %d, want open line 4", nv.Pos().Line)
	}
}

func TestFoldAtomicity(t *testing.T) {
	nv, reg, folds := newFixture(t, "coordinates")

	moves := []func(){
		func() { nv.MoveVertical(1, false) },
		func() { nv.MoveVertical(-1, false) },
		func() { nv.MoveHorizontal(1, false) },
		func() { nv.MoveHorizontal(-1, false) },
		func() { nv.WordForward(false) },
		func() { nv.WordBackward(false) },
		func() { nv.NextUnit() },
		func() { nv.PrevUnit() },
		func() { nv.Home(false) },
		func() { nv.End(false) },
	}
	nv.SetPos(0, 0, false)
	for i := 0; i < 200; i++ {
		moves[i%len(moves)]()
		if reg.IsHidden(nv.Pos().Line, folds) {
			t.Fatalf("cursor landed on hidden line %d after move %d", nv.Pos().Line, i)
		}
	}
}

func TestHorizontalTeleportAcrossFold(t *testing.T) {
	nv, reg, _ := newFixture(t, "coordinates")
	coords := reg.OpenAt(4)

	// Right at the open bracket teleports to the close bracket column.
	nv.SetPos(4, coords.OpenCol, false)
	nv.MoveHorizontal(1, false)
	if p := nv.Pos(); p.Line != 7 || p.Col != coords.CloseCol {
		t.Errorf("right off open bracket = %+v, want (7,%d)", p, coords.CloseCol)
	}

	// Left at or before the close bracket teleports just past the opener.
	nv.MoveHorizontal(-1, false)
	if p := nv.Pos(); p.Line != 4 || p.Col != coords.OpenCol+1 {
		t.Errorf("left off close bracket = %+v, want (4,%d)", p, coords.OpenCol+1)
	}
}

func TestHorizontalWrapSkipsNothingWhenUnfolded(t *testing.T) {
	nv, _, _ := newFixture(t, "")
	nv.SetPos(1, 0, false)
	nv.MoveHorizontal(-1, false)
	if p := nv.Pos(); p.Line != 0 || p.Col != 1 {
		t.Errorf("left wrap = %+v, want (0,1)", p)
	}
	nv.MoveHorizontal(1, false)
	if p := nv.Pos(); p.Line != 1 || p.Col != 0 {
		t.Errorf("right wrap = %+v, want (1,0)", p)
	}
}

func TestHomeOnFoldCloseLine(t *testing.T) {
	nv, _, _ := newFixture(t, "coordinates")
	nv.SetPos(7, 4, false)
	nv.Home(false)
	if p := nv.Pos(); p.Line != 4 || p.Col != 0 {
		t.Errorf("Home on close line = %+v, want (4,0)", p)
	}
}

func TestEndUsesRawLine(t *testing.T) {
	nv, _, _ := newFixture(t, "")
	nv.SetPos(1, 0, false)
	nv.End(false)
	if p := nv.Pos(); p.Col != len(`  "type": "Feature",`) {
		t.Errorf("End col = %d", p.Col)
	}
}

func TestWordForward(t *testing.T) {
	nv, _, _ := newFixture(t, "")
	nv.SetPos(1, 0, false)
	nv.WordForward(false)
	if p := nv.Pos(); p.Line != 1 || p.Col != 3 {
		t.Errorf("first word move = %+v, want (1,3)", p)
	}
	nv.WordForward(false)
	if p := nv.Pos(); p.Col != 7 {
		t.Errorf("second word move col = %d, want 7 (end of type)", p.Col)
	}
}

func TestWordBackward(t *testing.T) {
	nv, _, _ := newFixture(t, "")
	nv.SetPos(1, 7, false)
	nv.WordBackward(false)
	if p := nv.Pos(); p.Col != 3 {
		t.Errorf("word backward col = %d, want 3 (start of type)", p.Col)
	}
}

func TestSelectAll(t *testing.T) {
	nv, _, _ := newFixture(t, "")
	nv.SelectAll()
	start, end, ok := nv.Selection()
	if !ok {
		t.Fatal("no selection after SelectAll")
	}
	if start != (Position{0, 0}) {
		t.Errorf("selection start = %+v", start)
	}
	if end.Line != 10 || end.Col != 1 {
		t.Errorf("selection end = %+v, want (10,1)", end)
	}
}

func TestSelectionExtendsOnlyWithModifier(t *testing.T) {
	nv, _, _ := newFixture(t, "")
	nv.SetPos(1, 2, false)
	nv.MoveHorizontal(1, true)
	nv.MoveHorizontal(1, true)
	start, end, ok := nv.Selection()
	if !ok || start != (Position{1, 2}) || end != (Position{1, 4}) {
		t.Errorf("selection = %+v..%+v ok=%v", start, end, ok)
	}
	nv.MoveHorizontal(1, false)
	if nv.HasSelection() {
		t.Error("movement without modifier should clear selection")
	}
}

func TestPointerSnapOffHiddenLine(t *testing.T) {
	nv, _, _ := newFixture(t, "coordinates")
	nv.SetPos(5, 3, false)
	if p := nv.Pos(); p.Line != 4 {
		t.Errorf("pointer on hidden line landed at %+v, want open line 4", p)
	}
}

func TestUnitsInLine(t *testing.T) {
	units := unitsInLine(1, `  "type": "Feature",`)
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2: %+v", len(units), units)
	}
	if units[0].Kind != UnitKey || units[0].StartCol != 2 || units[0].EndCol != 8 {
		t.Errorf("key unit = %+v", units[0])
	}
	if units[1].Kind != UnitValue || units[1].StartCol != 10 || units[1].EndCol != 19 {
		t.Errorf("value unit = %+v", units[1])
	}

	units = unitsInLine(4, `    "coordinates": [`)
	if len(units) != 2 || units[1].Kind != UnitBracket {
		t.Fatalf("units = %+v", units)
	}

	units = unitsInLine(0, `      1,`)
	if len(units) != 1 || units[0].Kind != UnitValue || units[0].StartCol != 6 || units[0].EndCol != 7 {
		t.Errorf("number unit = %+v", units)
	}
}

func TestNextUnitSelectsSpan(t *testing.T) {
	nv, _, _ := newFixture(t, "")
	nv.SetPos(0, 0, false)
	nv.NextUnit()
	start, end, ok := nv.Selection()
	if !ok || start != (Position{1, 2}) || end != (Position{1, 8}) {
		t.Errorf("first unit selection = %+v..%+v ok=%v", start, end, ok)
	}
	nv.NextUnit()
	start, end, _ = nv.Selection()
	if start != (Position{1, 10}) || end != (Position{1, 19}) {
		t.Errorf("second unit selection = %+v..%+v", start, end)
	}
}

func TestBracketUnitIsCaretOnly(t *testing.T) {
	nv, _, _ := newFixture(t, "")
	nv.SetPos(2, 8, false) // inside "geometry"
	nv.NextUnit()          // selects the bracket? no: next unit after col 8 is the { at end
	p := nv.Pos()
	if nv.HasSelection() {
		t.Errorf("bracket stop should be caret-only, got selection at %+v", p)
	}
	if p.Line != 2 || p.Col != 14 {
		t.Errorf("caret = %+v, want (2,14)", p)
	}
}

func TestUnitNavigationWraps(t *testing.T) {
	nv, _, _ := newFixture(t, "")
	nv.SetPos(10, 1, false) // past the last unit
	nv.NextUnit()
	if p := nv.Pos(); p.Line != 0 || p.Col != 0 {
		t.Errorf("wrap forward = %+v, want bracket at (0,0)", p)
	}
	nv.SetPos(0, 0, false)
	nv.PrevUnit()
	if p := nv.Pos(); p.Line != 9 {
		t.Errorf("wrap backward line = %d, want 9", p.Line)
	}
}

func TestUnitNavigationSkipsHiddenLines(t *testing.T) {
	nv, reg, _ := newFixture(t, "coordinates")
	coords := reg.OpenAt(4)
	nv.SetPos(4, coords.OpenCol, false)
	nv.NextUnit()
	// Lines 5 and 6 hold the 1 and 2 scalars; both are hidden. The next
	// stop is the properties key on line 9.
	if p := nv.Pos(); p.Line != 9 {
		t.Errorf("next unit landed on line %d, want 9", p.Line)
	}
}

func TestClampToVisible(t *testing.T) {
	nv, reg, folds := newFixture(t, "")
	nv.SetPos(5, 3, false)
	for _, n := range reg.Nodes() {
		if n.Key == "coordinates" {
			folds.Fold(n.ID)
		}
	}
	nv.ClampToVisible()
	if p := nv.Pos(); p.Line != 4 {
		t.Errorf("clamp landed on %+v, want line 4", p)
	}
}
