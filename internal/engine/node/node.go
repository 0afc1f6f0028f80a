package node

// ID uniquely identifies a node within one registry instance. Ids increase
// monotonically across rebuilds and are never reused.
type ID uint64

// Node is a bracket-delimited region spanning more than one line, eligible
// for folding. StartLine holds the single unmatched opening bracket whose
// string-aware balance closes on EndLine.
type Node struct {
	ID        ID
	StartLine int
	EndLine   int

	// OpenCol and CloseCol are the byte columns of the opening and closing
	// brackets on their respective lines.
	OpenCol  int
	CloseCol int

	// Key is the quoted attribute name preceding the bracket, or empty for
	// a bare root bracket.
	Key string

	// Bracket is the opening bracket byte, '{' or '['.
	Bracket byte

	// IsRootFeature marks nodes whose region is a top-level Feature object.
	IsRootFeature bool
}

// Contains reports whether line lies strictly between the node's boundary
// lines. These are the lines hidden when the node is folded.
func (n *Node) Contains(line int) bool {
	return line > n.StartLine && line < n.EndLine
}

// Spans reports whether line lies within the node's full range, boundary
// lines included.
func (n *Node) Spans(line int) bool {
	return line >= n.StartLine && line <= n.EndLine
}

// HiddenCount returns the number of lines hidden when the node is folded.
func (n *Node) HiddenCount() int {
	return n.EndLine - n.StartLine - 1
}

// LineCount returns the total number of lines the node spans.
func (n *Node) LineCount() int {
	return n.EndLine - n.StartLine + 1
}
