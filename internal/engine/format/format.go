package format

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/dshills/geoedit/internal/engine/scan"
)

const indentUnit = "  "

// Reformat normalizes text and reports whether the strict parse succeeded.
// On success the result is the canonical pretty-printed form; on failure it
// is the tolerant re-indentation, which always succeeds.
func Reformat(text string) (string, bool) {
	if out, ok := Canonical(text); ok {
		return out, true
	}
	return Tolerant(text), false
}

// Canonical attempts a strict parse of text and, on success, returns the
// deterministic 2-space-indent canonical form. The buffer holds a bare
// comma-separated list of objects, so the parse wraps it in a synthetic
// top-level array which is stripped from the output again.
func Canonical(text string) (string, bool) {
	wrapped := "[" + text + "]"
	if !gjson.Valid(wrapped) {
		return "", false
	}
	compact := pretty.Ugly([]byte(wrapped))
	if string(compact) == "[]" {
		return "", true
	}
	return stripWrapper(expand(compact)), true
}

// expand pretty-prints compact JSON: every non-empty container is broken
// across lines, one member per line, with a space after each colon. Empty
// containers stay inline. The input must contain no insignificant
// whitespace (see pretty.Ugly).
func expand(compact []byte) string {
	var sb strings.Builder
	var st scan.State
	indent := 0

	newline := func() {
		sb.WriteByte('\n')
		for i := 0; i < indent; i++ {
			sb.WriteString(indentUnit)
		}
	}

	for i := 0; i < len(compact); i++ {
		c := compact[i]
		if !st.Step(c) {
			sb.WriteByte(c)
			continue
		}
		switch c {
		case '{', '[':
			if i+1 < len(compact) && compact[i+1] == matching(c) {
				sb.WriteByte(c)
				sb.WriteByte(compact[i+1])
				i++
				continue
			}
			sb.WriteByte(c)
			indent++
			newline()
		case '}', ']':
			indent--
			newline()
			sb.WriteByte(c)
		case ',':
			sb.WriteByte(c)
			newline()
		case ':':
			sb.WriteString(": ")
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func matching(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ']'
}

// stripWrapper removes the synthetic enclosing array: the first and last
// lines and one indent level from everything in between.
func stripWrapper(s string) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= 2 {
		return ""
	}
	lines = lines[1 : len(lines)-1]
	for i := range lines {
		lines[i] = strings.TrimPrefix(lines[i], indentUnit)
	}
	return strings.Join(lines, "\n")
}

// Tolerant re-indents text without parsing it. The scanner tracks quoted
// strings and escapes; outside a string, an opening bracket flushes the
// line and indents, a closing bracket flushes and dedents onto its own
// line, and a top-level comma flushes. The pass never fails.
func Tolerant(text string) string {
	var st scan.State
	var lines []string
	var cur strings.Builder
	indent := 0
	depth := 0

	writeIndent := func() {
		for i := 0; i < indent; i++ {
			cur.WriteString(indentUnit)
		}
	}
	flush := func() {
		line := strings.TrimRight(cur.String(), " \t")
		cur.Reset()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
		writeIndent()
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if !st.Step(c) {
			cur.WriteByte(c)
			continue
		}
		switch c {
		case ' ', '\t', '\n', '\r':
			// Collapse whitespace runs; never start line content with one.
			s := cur.String()
			if strings.TrimSpace(s) != "" && !strings.HasSuffix(s, " ") {
				cur.WriteByte(' ')
			}
		case '{', '[':
			cur.WriteByte(c)
			indent++
			depth++
			flush()
		case '}', ']':
			flush()
			if indent > 0 {
				indent--
			}
			if depth > 0 {
				depth--
			}
			// Closing bracket starts its own line at the outer indent.
			cur.Reset()
			writeIndent()
			cur.WriteByte(c)
		case ',':
			cur.WriteByte(c)
			if depth == 0 {
				flush()
			}
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return strings.Join(lines, "\n")
}
