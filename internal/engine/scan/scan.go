// Package scan provides the quote- and escape-aware byte scanner shared by
// the node registry, feature indexer, and reformatter. JSON strings may
// contain bracket characters; every structural scan in the engine must
// ignore bytes that fall inside a quoted string.
package scan

// State tracks quoted-string and escape context across a byte stream. The
// zero value is ready to use. State may be carried across line boundaries;
// an unterminated string on one line keeps suppressing bytes on the next,
// which is the desired behavior for malformed documents.
type State struct {
	inString bool
	escaped  bool
}

// Step consumes one byte and reports whether it is structural, i.e. outside
// any quoted string. Quote characters themselves are not structural.
func (s *State) Step(c byte) bool {
	if s.inString {
		if s.escaped {
			s.escaped = false
			return false
		}
		switch c {
		case '\\':
			s.escaped = true
		case '"':
			s.inString = false
		}
		return false
	}
	if c == '"' {
		s.inString = true
		return false
	}
	return true
}

// InString reports whether the scanner is currently inside a quoted string.
func (s *State) InString() bool {
	return s.inString
}

// Reset returns the scanner to its initial state.
func (s *State) Reset() {
	s.inString = false
	s.escaped = false
}

// BracketDelta returns the net bracket depth change of text for the given
// open/close pair, respecting string context carried in st.
func BracketDelta(st *State, text string, open, close byte) int {
	delta := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !st.Step(c) {
			continue
		}
		switch c {
		case open:
			delta++
		case close:
			delta--
		}
	}
	return delta
}
