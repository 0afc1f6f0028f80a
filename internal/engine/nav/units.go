package nav

// UnitKind classifies the navigable units attribute-tab navigation stops on.
type UnitKind int

const (
	// UnitKey is a quoted attribute name.
	UnitKey UnitKind = iota
	// UnitValue is a scalar value: string, number, boolean, null, or a bare
	// token in tolerant-formatted text.
	UnitValue
	// UnitBracket is an opening bracket. Bracket stops are caret-only so a
	// fold can be expanded immediately without clearing a selection first.
	UnitBracket
)

// Unit is one navigable span on a line. EndCol is exclusive.
type Unit struct {
	Line     int
	StartCol int
	EndCol   int
	Kind     UnitKind
}

// unitsInLine tokenizes one line into navigable units.
func unitsInLine(line int, text string) []Unit {
	var units []Unit
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"':
			end := scanString(text, i)
			kind := UnitValue
			if isKeyAt(text, end) {
				kind = UnitKey
			}
			units = append(units, Unit{Line: line, StartCol: i, EndCol: end, Kind: kind})
			i = end
		case c == '{' || c == '[':
			units = append(units, Unit{Line: line, StartCol: i, EndCol: i + 1, Kind: UnitBracket})
			i++
		case isScalarStart(c):
			end := i
			for end < len(text) && isScalarChar(text[end]) {
				end++
			}
			units = append(units, Unit{Line: line, StartCol: i, EndCol: end, Kind: UnitValue})
			i = end
		default:
			i++
		}
	}
	return units
}

// scanString returns the exclusive end index of the quoted string starting
// at i, respecting escapes. Unterminated strings run to end of line.
func scanString(text string, i int) int {
	j := i + 1
	for j < len(text) {
		switch text[j] {
		case '\\':
			j += 2
			continue
		case '"':
			return j + 1
		}
		j++
	}
	return len(text)
}

// isKeyAt reports whether the first non-space byte at or after i is a colon.
func isKeyAt(text string, i int) bool {
	for ; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

func isScalarStart(c byte) bool {
	return isWordChar(c) || c == '+' || c == '.'
}

func isScalarChar(c byte) bool {
	return isWordChar(c) || c == '+' || c == '.'
}

// NextUnit advances to the next navigable unit in document order, wrapping
// at the end. The unit's span becomes the selection unless it is a bracket,
// which is a caret-only stop.
func (n *Navigator) NextUnit() {
	u, ok := n.findUnit(true)
	if !ok {
		return
	}
	n.applyUnit(u)
}

// PrevUnit moves to the previous navigable unit, wrapping at the start.
func (n *Navigator) PrevUnit() {
	u, ok := n.findUnit(false)
	if !ok {
		return
	}
	n.applyUnit(u)
}

func (n *Navigator) applyUnit(u Unit) {
	if u.Kind == UnitBracket {
		n.anchor = nil
		n.pos = Position{Line: u.Line, Col: u.StartCol}
		return
	}
	a := Position{Line: u.Line, Col: u.StartCol}
	n.anchor = &a
	n.pos = Position{Line: u.Line, Col: u.EndCol}
}

// findUnit locates the nearest unit strictly after (forward) or before the
// cursor on visible lines, wrapping around the document ends.
func (n *Navigator) findUnit(forward bool) (Unit, bool) {
	ref := n.pos
	if start, end, ok := n.Selection(); ok {
		if forward {
			ref = end
		} else {
			ref = start
		}
	}

	var first, last *Unit
	var before, after *Unit
	for line := 0; line < n.buf.Len(); line++ {
		if n.reg.IsHidden(line, n.folds) {
			continue
		}
		for _, u := range unitsInLine(line, n.buf.Line(line)) {
			u := u
			if first == nil {
				first = &u
			}
			last = &u
			p := Position{Line: u.Line, Col: u.StartCol}
			if p.Before(ref) {
				before = &u
			}
			if after == nil && ref.Before(p) {
				after = &u
			}
		}
	}
	if first == nil {
		return Unit{}, false
	}
	if forward {
		if after != nil {
			return *after, true
		}
		return *first, true // wrap
	}
	if before != nil {
		return *before, true
	}
	return *last, true // wrap
}
