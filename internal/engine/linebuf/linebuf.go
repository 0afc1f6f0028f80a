package linebuf

import "strings"

// Buffer is an ordered, mutable sequence of text lines. Line indices are
// 0-based and contiguous. Lines never contain newline characters; SetText
// normalizes CRLF and lone CR endings to LF before splitting.
type Buffer struct {
	lines []string
}

// New creates an empty buffer containing a single empty line.
func New() *Buffer {
	return &Buffer{lines: []string{""}}
}

// NewFromText creates a buffer from the given text.
func NewFromText(text string) *Buffer {
	b := New()
	b.SetText(text)
	return b
}

// Len returns the number of lines in the buffer. A buffer always holds at
// least one line.
func (b *Buffer) Len() int {
	return len(b.lines)
}

// Line returns the text of line i, or the empty string if i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineLen returns the length in bytes of line i, or 0 if i is out of range.
func (b *Buffer) LineLen(i int) int {
	return len(b.Line(i))
}

// Lines returns a copy of all lines.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// Text returns the buffer contents joined with LF.
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// SetText replaces the buffer contents with text, splitting on line endings.
// CRLF and CR endings are normalized to LF.
func (b *Buffer) SetText(text string) {
	text = normalizeLineEndings(text)
	b.lines = strings.Split(text, "\n")
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
}

// SetLines replaces the buffer contents with a copy of the given lines.
// An empty slice leaves the buffer with a single empty line.
func (b *Buffer) SetLines(lines []string) {
	if len(lines) == 0 {
		b.lines = []string{""}
		return
	}
	b.lines = make([]string, len(lines))
	copy(b.lines, lines)
}

// ReplaceLine replaces line i with text. Out-of-range indices are ignored.
func (b *Buffer) ReplaceLine(i int, text string) {
	if i < 0 || i >= len(b.lines) {
		return
	}
	b.lines[i] = text
}

// InsertLines inserts the given lines before index i. Indices are clamped to
// the valid range [0, Len].
func (b *Buffer) InsertLines(i int, lines ...string) {
	if len(lines) == 0 {
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(b.lines) {
		i = len(b.lines)
	}
	b.lines = append(b.lines[:i], append(append([]string{}, lines...), b.lines[i:]...)...)
}

// RemoveLines removes lines start through end inclusive. The range is clamped
// to the buffer. Removing every line leaves a single empty line.
func (b *Buffer) RemoveLines(start, end int) {
	if start < 0 {
		start = 0
	}
	if end >= len(b.lines) {
		end = len(b.lines) - 1
	}
	if start > end {
		return
	}
	b.lines = append(b.lines[:start], b.lines[end+1:]...)
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
}

// SplitLine splits line i at column col, leaving the head at i and inserting
// the tail as a new line at i+1. The column is clamped to the line length.
func (b *Buffer) SplitLine(i, col int) {
	if i < 0 || i >= len(b.lines) {
		return
	}
	line := b.lines[i]
	col = clampCol(col, len(line))
	head, tail := line[:col], line[col:]
	b.lines[i] = head
	b.InsertLines(i+1, tail)
}

// JoinWithNext appends line i+1 onto line i and removes it. A no-op when i is
// the last line or out of range.
func (b *Buffer) JoinWithNext(i int) {
	if i < 0 || i+1 >= len(b.lines) {
		return
	}
	b.lines[i] += b.lines[i+1]
	b.lines = append(b.lines[:i+1], b.lines[i+2:]...)
}

// InsertAt inserts text at (line, col). Multi-line text splits the target
// line. It returns the position immediately after the inserted text.
func (b *Buffer) InsertAt(line, col int, text string) (endLine, endCol int) {
	if line < 0 {
		line = 0
	}
	if line >= len(b.lines) {
		line = len(b.lines) - 1
	}
	cur := b.lines[line]
	col = clampCol(col, len(cur))

	text = normalizeLineEndings(text)
	parts := strings.Split(text, "\n")
	if len(parts) == 1 {
		b.lines[line] = cur[:col] + text + cur[col:]
		return line, col + len(text)
	}

	head, tail := cur[:col], cur[col:]
	inserted := make([]string, len(parts))
	copy(inserted, parts)
	inserted[0] = head + inserted[0]
	last := len(inserted) - 1
	endCol = len(inserted[last])
	inserted[last] += tail

	b.lines = append(b.lines[:line], append(inserted, b.lines[line+1:]...)...)
	return line + last, endCol
}

// DeleteRange deletes the text between (startLine, startCol) and
// (endLine, endCol), merging the boundary lines. Positions are clamped; the
// range must already be in document order.
func (b *Buffer) DeleteRange(startLine, startCol, endLine, endCol int) {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(b.lines) {
		endLine = len(b.lines) - 1
	}
	if startLine > endLine {
		return
	}
	startCol = clampCol(startCol, len(b.lines[startLine]))
	endCol = clampCol(endCol, len(b.lines[endLine]))
	if startLine == endLine {
		if startCol >= endCol {
			return
		}
		line := b.lines[startLine]
		b.lines[startLine] = line[:startCol] + line[endCol:]
		return
	}
	merged := b.lines[startLine][:startCol] + b.lines[endLine][endCol:]
	b.lines = append(b.lines[:startLine], append([]string{merged}, b.lines[endLine+1:]...)...)
}

// TextRange returns the text between (startLine, startCol) and
// (endLine, endCol) joined with LF. The range must be in document order.
func (b *Buffer) TextRange(startLine, startCol, endLine, endCol int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(b.lines) {
		endLine = len(b.lines) - 1
	}
	if startLine > endLine {
		return ""
	}
	startCol = clampCol(startCol, len(b.lines[startLine]))
	endCol = clampCol(endCol, len(b.lines[endLine]))
	if startLine == endLine {
		if startCol >= endCol {
			return ""
		}
		return b.lines[startLine][startCol:endCol]
	}
	var sb strings.Builder
	sb.WriteString(b.lines[startLine][startCol:])
	for i := startLine + 1; i < endLine; i++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[i])
	}
	sb.WriteByte('\n')
	sb.WriteString(b.lines[endLine][:endCol])
	return sb.String()
}

// Snapshot returns an independent copy of the buffer's lines.
func (b *Buffer) Snapshot() []string {
	return b.Lines()
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func clampCol(col, max int) int {
	if col < 0 {
		return 0
	}
	if col > max {
		return max
	}
	return col
}
