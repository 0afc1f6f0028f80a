package engine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/dshills/geoedit/internal/event"
)

const pointFeature = `{"type":"Feature","geometry":{"type":"Point","coordinates":[1.5,2.5]},"properties":{"id":"a","name":"alpha"}}`

const secondFeature = `{"type":"Feature","geometry":{"type":"Point","coordinates":[3.5,4.5]},"properties":{"id":"b","name":"beta"}}`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(WithSynchronous())
	t.Cleanup(e.Close)
	return e
}

func collectChanges(e *Engine) *[]ChangePayload {
	var got []ChangePayload
	e.Events().Subscribe(event.TopicChange, func(ev event.Event) {
		got = append(got, ev.Payload.(ChangePayload))
	})
	return &got
}

func collectErrors(e *Engine) *[]ErrorPayload {
	var got []ErrorPayload
	e.Events().Subscribe(event.TopicError, func(ev event.Event) {
		got = append(got, ev.Payload.(ErrorPayload))
	})
	return &got
}

func TestLoadValidFeature(t *testing.T) {
	e := newTestEngine(t)
	changes := collectChanges(e)

	if err := e.SetFeatures("[" + pointFeature + "]"); err != nil {
		t.Fatalf("SetFeatures: %v", err)
	}
	if !e.Valid() {
		t.Error("engine should be valid after loading a valid feature")
	}
	if len(*changes) != 1 {
		t.Fatalf("change events = %d, want 1", len(*changes))
	}
	ch := (*changes)[0]
	if ch.Count != 1 || !ch.Valid {
		t.Errorf("change = {Count: %d, Valid: %v}, want {1, true}", ch.Count, ch.Valid)
	}
	if n := gjson.Parse(ch.JSON); !n.IsArray() || len(n.Array()) != 1 {
		t.Errorf("change JSON is not a one-element array: %s", ch.JSON)
	}

	// Collapse-on-load folds the coordinates attribute.
	folded := false
	for _, ln := range e.VisibleLines() {
		if ln.Meta.FoldOpen && strings.Contains(ln.Text, `"coordinates"`) {
			folded = true
		}
	}
	if !folded {
		t.Error("coordinates should be folded after load")
	}
}

func TestLoadInvalidDocumentStaysEditable(t *testing.T) {
	e := newTestEngine(t)
	errs := collectErrors(e)
	changes := collectChanges(e)

	err := e.SetFeatures(`{"type": Feature}`)
	if err == nil {
		t.Fatal("expected a load error for invalid JSON")
	}
	if e.Valid() {
		t.Error("engine should not be valid")
	}
	if len(*errs) != 1 {
		t.Fatalf("error events = %d, want 1", len(*errs))
	}
	if (*errs)[0].Content == "" {
		t.Error("error payload should carry the tolerant-formatted content")
	}
	if len(*changes) != 0 {
		t.Errorf("change events = %d, want 0 while the parse error is pending", len(*changes))
	}

	// The buffer stays editable for repair.
	if !e.HandleText("x") {
		t.Error("typing into the broken document should succeed")
	}
}

func TestLoadFeatureCollection(t *testing.T) {
	e := newTestEngine(t)
	doc := `{"type":"FeatureCollection","features":[` + pointFeature + "," + secondFeature + `]}`
	if err := e.SetFeatures(doc); err != nil {
		t.Fatalf("SetFeatures: %v", err)
	}
	if got := e.FeatureKeys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("FeatureKeys = %v, want [a b]", got)
	}
}

func TestRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	in := "[" + pointFeature + "," + secondFeature + "]"
	if err := e.SetFeatures(in); err != nil {
		t.Fatalf("SetFeatures: %v", err)
	}
	got := string(pretty.Ugly([]byte(e.Features())))
	want := string(pretty.Ugly([]byte(in)))
	if got != want {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestVisibilityFiltersEmittedJSON(t *testing.T) {
	e := newTestEngine(t)
	changes := collectChanges(e)
	if err := e.SetFeatures("[" + pointFeature + "," + secondFeature + "]"); err != nil {
		t.Fatalf("SetFeatures: %v", err)
	}

	e.SetFeatureVisible("b", false)

	ch := (*changes)[len(*changes)-1]
	if ch.Count != 1 {
		t.Errorf("Count = %d, want 1", ch.Count)
	}
	arr := gjson.Parse(ch.JSON).Array()
	if len(arr) != 1 || arr[0].Get("properties.id").String() != "a" {
		t.Errorf("emitted JSON should hold only feature a: %s", ch.JSON)
	}

	// The buffer and the full emit are untouched by visibility.
	full := gjson.Parse(e.Features()).Array()
	if len(full) != 2 {
		t.Errorf("Features() length = %d, want 2", len(full))
	}

	e.SetFeatureVisible("b", true)
	ch = (*changes)[len(*changes)-1]
	if ch.Count != 2 {
		t.Errorf("Count after reshow = %d, want 2", ch.Count)
	}
}

func TestToggleFoldTwiceIsIdentity(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetFeatures("[" + pointFeature + "]"); err != nil {
		t.Fatalf("SetFeatures: %v", err)
	}
	before := e.VisibleLines()

	// The feature's root object opens on line 0.
	if !e.ToggleFold(0) {
		t.Fatal("ToggleFold(0) should fold the root object")
	}
	folded := e.VisibleLines()
	if len(folded) >= len(before) {
		t.Fatalf("folding should hide lines: %d -> %d", len(before), len(folded))
	}
	if !e.ToggleFold(0) {
		t.Fatal("second ToggleFold(0) should unfold")
	}

	after := e.VisibleLines()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("projection changed across a double toggle:\nbefore %v\nafter  %v", before, after)
	}
}

func TestUndoRedoRestoreExactStates(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetFeatures("[" + pointFeature + "]"); err != nil {
		t.Fatalf("SetFeatures: %v", err)
	}

	type state struct {
		text      string
		line, col int
	}
	capture := func() state {
		line, col := e.Cursor()
		return state{text: e.Text(), line: line, col: col}
	}

	s0 := capture()
	if !e.HandleText("x") {
		t.Fatal("HandleText should mutate")
	}
	s1 := capture()
	if !e.HandlePaste("y") {
		t.Fatal("HandlePaste should mutate")
	}
	s2 := capture()

	if !e.Undo() || capture() != s1 {
		t.Errorf("first undo: got %+v, want %+v", capture(), s1)
	}
	if !e.Undo() || capture() != s0 {
		t.Errorf("second undo: got %+v, want %+v", capture(), s0)
	}
	if e.Undo() {
		t.Error("undo past the load boundary should fail")
	}
	if !e.Redo() || capture() != s1 {
		t.Errorf("first redo: got %+v, want %+v", capture(), s1)
	}
	if !e.Redo() || capture() != s2 {
		t.Errorf("second redo: got %+v, want %+v", capture(), s2)
	}
}

func TestMutationClearsRedo(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetFeatures("[" + pointFeature + "]"); err != nil {
		t.Fatalf("SetFeatures: %v", err)
	}
	e.HandleText("x")
	e.Undo()
	if !e.CanRedo() {
		t.Fatal("redo should be available after undo")
	}
	e.HandlePaste("y")
	if e.CanRedo() {
		t.Error("a new mutation should clear the redo stack")
	}
}

func TestFoldsSurviveEdits(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetFeatures("[" + pointFeature + "," + secondFeature + "]"); err != nil {
		t.Fatalf("SetFeatures: %v", err)
	}
	if got := countFoldOpens(e); got != 2 {
		t.Fatalf("folded nodes after load = %d, want 2", got)
	}

	// Type into a string value; the document stays valid and the reformat
	// pass rebuilds the registry.
	line, col := findText(t, e, "alpha")
	e.HandlePointer(line, col, 0)
	if !e.HandleText("x") {
		t.Fatal("HandleText should mutate")
	}
	if !e.Valid() {
		t.Fatal("document should still be valid")
	}
	if got := countFoldOpens(e); got != 2 {
		t.Errorf("folded nodes after edit = %d, want 2", got)
	}
}

func TestSelectAllCopyPaste(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetFeatures("[" + pointFeature + "]"); err != nil {
		t.Fatalf("SetFeatures: %v", err)
	}
	if !e.HandleKey(CmdSelectAll, 0) {
		t.Fatal("select-all should succeed")
	}
	if !e.HandleKey(CmdCopy, 0) {
		t.Fatal("copy should succeed")
	}
	// The copied text is the raw buffer, hidden lines included.
	if _, _, _, _, ok := e.Selection(); !ok {
		t.Error("copy should keep the selection")
	}
}

func countFoldOpens(e *Engine) int {
	n := 0
	for _, ln := range e.VisibleLines() {
		if ln.Meta.FoldOpen {
			n++
		}
	}
	return n
}

func findText(t *testing.T, e *Engine, s string) (line, col int) {
	t.Helper()
	for _, ln := range e.VisibleLines() {
		if i := strings.Index(ln.Text, s); i >= 0 {
			return ln.Index, i
		}
	}
	t.Fatalf("text %q not found in visible lines", s)
	return 0, 0
}
