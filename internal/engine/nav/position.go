package nav

// Position is a cursor location: 0-based line, byte column in [0, lineLen].
type Position struct {
	Line int
	Col  int
}

// Before reports whether p precedes q in document order.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Order returns the pair (p, q) normalized to document order.
func Order(p, q Position) (Position, Position) {
	if q.Before(p) {
		return q, p
	}
	return p, q
}
