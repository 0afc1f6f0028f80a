package feature

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/geoedit/internal/engine/scan"
)

// markerPattern locates the Feature-type marker line.
var markerPattern = regexp.MustCompile(`"type"\s*:\s*"Feature"`)

// Span is a Feature object's contiguous line range, boundaries inclusive.
type Span struct {
	Start int
	End   int
	Key   string
}

// Index holds the ordered feature spans discovered in the buffer.
type Index struct {
	spans []Span
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Rebuild rediscovers all feature spans from lines. For each Feature-type
// marker it walks backward to the object-opening line, then forward
// accumulating string-aware brace balance until it returns to zero.
// Malformed regions are skipped, never an error.
func (ix *Index) Rebuild(lines []string) {
	ix.spans = nil
	lastEnd := -1
	for m := 0; m < len(lines); m++ {
		if m <= lastEnd {
			continue
		}
		if !markerPattern.MatchString(lines[m]) {
			continue
		}
		start, ok := findObjectStart(lines, m)
		if !ok {
			continue
		}
		end, ok := findObjectEnd(lines, start)
		if !ok || end < m {
			continue
		}
		text := strings.Join(lines[start:end+1], "\n")
		ix.spans = append(ix.spans, Span{Start: start, End: end, Key: Key(text)})
		lastEnd = end
	}
}

// Spans returns the discovered spans in document order.
func (ix *Index) Spans() []Span {
	return ix.spans
}

// Len returns the number of features.
func (ix *Index) Len() int {
	return len(ix.spans)
}

// SpanAt returns the span containing line, if any.
func (ix *Index) SpanAt(line int) (Span, bool) {
	for _, s := range ix.spans {
		if line >= s.Start && line <= s.End {
			return s, true
		}
	}
	return Span{}, false
}

// ByKey returns the first span with the given key.
func (ix *Index) ByKey(key string) (Span, bool) {
	for _, s := range ix.spans {
		if s.Key == key {
			return s, true
		}
	}
	return Span{}, false
}

// StartLines returns the set of span start lines, used to mark root-feature
// nodes in the registry.
func (ix *Index) StartLines() map[int]bool {
	starts := make(map[int]bool, len(ix.spans))
	for _, s := range ix.spans {
		starts[s.Start] = true
	}
	return starts
}

// Text returns the span's text from lines.
func (ix *Index) Text(lines []string, s Span) string {
	if s.Start < 0 || s.End >= len(lines) || s.Start > s.End {
		return ""
	}
	return strings.Join(lines[s.Start:s.End+1], "\n")
}

// Key computes the content-stable identity for a feature's JSON text:
// explicit top-level id, else properties.id, else a hash of the geometry
// type and serialized coordinates.
func Key(featureJSON string) string {
	if v := gjson.Get(featureJSON, "id"); v.Exists() {
		return v.String()
	}
	if v := gjson.Get(featureJSON, "properties.id"); v.Exists() {
		return v.String()
	}
	h := fnv.New64a()
	h.Write([]byte(gjson.Get(featureJSON, "geometry.type").String()))
	h.Write([]byte{':'})
	h.Write([]byte(gjson.Get(featureJSON, "geometry.coordinates").Raw))
	return fmt.Sprintf("g:%016x", h.Sum64())
}

// findObjectStart walks backward from the marker line to the line whose
// unmatched opening brace starts the enclosing object.
func findObjectStart(lines []string, marker int) (int, bool) {
	balance := 0
	for i := marker; i >= 0; i-- {
		var st scan.State
		balance += scan.BracketDelta(&st, lines[i], '{', '}')
		if balance > 0 {
			return i, true
		}
	}
	return 0, false
}

// findObjectEnd walks forward from the opening line until the brace balance
// returns to zero.
func findObjectEnd(lines []string, start int) (int, bool) {
	balance := 0
	opened := false
	for j := start; j < len(lines); j++ {
		var st scan.State
		balance += scan.BracketDelta(&st, lines[j], '{', '}')
		if balance > 0 {
			opened = true
		}
		if opened && balance <= 0 {
			return j, true
		}
	}
	return 0, false
}
