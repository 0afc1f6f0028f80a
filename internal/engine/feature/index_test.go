package feature

import (
	"strings"
	"testing"
)

func twoFeatureLines() []string {
	return strings.Split(`{
  "type": "Feature",
  "geometry": {
    "type": "Point",
    "coordinates": [
      1,
      2
    ]
  },
  "properties": {}
},
{
  "type": "Feature",
  "id": "river-1",
  "geometry": {
    "type": "LineString",
    "coordinates": [
      [
        0,
        0
      ],
      [
        1,
        1
      ]
    ]
  },
  "properties": {}
}`, "\n")
}

func TestRebuildFindsAllFeatures(t *testing.T) {
	ix := NewIndex()
	lines := twoFeatureLines()
	ix.Rebuild(lines)

	spans := ix.Spans()
	if len(spans) != 2 {
		t.Fatalf("found %d features, want 2", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != 10 {
		t.Errorf("first span = [%d,%d], want [0,10]", spans[0].Start, spans[0].End)
	}
	if spans[1].Start != 11 || spans[1].End != len(lines)-1 {
		t.Errorf("second span = [%d,%d], want [11,%d]", spans[1].Start, spans[1].End, len(lines)-1)
	}
}

func TestKeyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			"explicit id",
			`{"type":"Feature","id":"top","properties":{"id":"prop"},"geometry":{"type":"Point","coordinates":[1,2]}}`,
			"top",
		},
		{
			"properties id",
			`{"type":"Feature","properties":{"id":"prop"},"geometry":{"type":"Point","coordinates":[1,2]}}`,
			"prop",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.json); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyGeometryHash(t *testing.T) {
	a := `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}`
	b := `{"type":"Feature","properties":{"name":"x"},"geometry":{"type":"Point","coordinates":[1,2]}}`
	c := `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[3,4]}}`

	ka, kb, kc := Key(a), Key(b), Key(c)
	if !strings.HasPrefix(ka, "g:") {
		t.Errorf("hash key = %q, want g: prefix", ka)
	}
	if ka != kb {
		t.Error("same geometry should hash to the same key regardless of properties")
	}
	if ka == kc {
		t.Error("different coordinates should hash to different keys")
	}
}

func TestKeyStableAcrossReindex(t *testing.T) {
	ix := NewIndex()
	lines := twoFeatureLines()
	ix.Rebuild(lines)
	first := ix.Spans()[1].Key

	// Shift everything down a line; the key must not change.
	shifted := append([]string{`{`, `  "type": "Feature",`, `  "properties": {}`, `},`}, lines...)
	ix.Rebuild(shifted)
	if ix.Len() != 3 {
		t.Fatalf("found %d features, want 3", ix.Len())
	}
	if got := ix.Spans()[2].Key; got != first {
		t.Errorf("key changed across reindex: %q vs %q", got, first)
	}
}

func TestSpanAtAndByKey(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild(twoFeatureLines())

	s, ok := ix.SpanAt(5)
	if !ok || s.Start != 0 {
		t.Errorf("SpanAt(5) = %+v, %v", s, ok)
	}
	if _, ok := ix.ByKey("river-1"); !ok {
		t.Error("ByKey(river-1) not found")
	}
	if _, ok := ix.ByKey("missing"); ok {
		t.Error("ByKey(missing) unexpectedly found")
	}
}

func TestRebuildSkipsMalformed(t *testing.T) {
	ix := NewIndex()
	ix.Rebuild([]string{`"type": "Feature",`, `"unclosed": {`})
	if ix.Len() != 0 {
		t.Errorf("malformed input produced %d spans", ix.Len())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr int
	}{
		{"valid", `{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]}}`, 0},
		{"wrong type", `{"type":"NotAFeature"}`, 1},
		{"missing type", `{"geometry":{"type":"Point"}}`, 1},
		{"bad geometry", `{"type":"Feature","geometry":{"type":"Circle"}}`, 1},
		{"no geometry", `{"type":"Feature","properties":{}}`, 0},
		{"both wrong", `{"type":"X","geometry":{"type":"Y"}}`, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.json, 0, "k")
			if len(errs) != tt.wantErr {
				t.Errorf("Validate() returned %d errors (%v), want %d", len(errs), errs, tt.wantErr)
			}
		})
	}
}
