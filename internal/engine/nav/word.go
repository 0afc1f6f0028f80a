package nav

// isWordChar classifies word characters for word motion: letters, digits,
// underscore, and hyphen (GeoJSON keys and ids routinely contain hyphens).
func isWordChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_' || c == '-':
		return true
	}
	return false
}

// WordForward moves to the end of the current word, or to the start of the
// next word when the cursor is between words. A landing position inside a
// fold teleports like a plain horizontal move.
func (n *Navigator) WordForward(extend bool) {
	n.beginMove(extend)
	line, col := n.pos.Line, n.pos.Col
	text := n.buf.Line(line)

	if col >= len(text) {
		next := n.nextVisible(line + 1)
		if next < 0 {
			return
		}
		line, col = next, 0
		text = n.buf.Line(line)
	}

	if col < len(text) && isWordChar(text[col]) {
		for col < len(text) && isWordChar(text[col]) {
			col++
		}
	} else {
		for col < len(text) && !isWordChar(text[col]) {
			col++
		}
	}
	n.pos = n.clampFoldLanding(Position{Line: line, Col: col}, true)
}

// WordBackward mirrors WordForward: it moves to the start of the current
// word, or back past separators to the end boundary of the previous word.
func (n *Navigator) WordBackward(extend bool) {
	n.beginMove(extend)
	line, col := n.pos.Line, n.pos.Col

	if col <= 0 {
		prev := n.prevVisible(line - 1)
		if prev < 0 {
			return
		}
		line = prev
		col = n.buf.LineLen(line)
	}
	text := n.buf.Line(line)

	if col > 0 && isWordChar(text[col-1]) {
		for col > 0 && isWordChar(text[col-1]) {
			col--
		}
	} else {
		for col > 0 && !isWordChar(text[col-1]) {
			col--
		}
	}
	n.pos = n.clampFoldLanding(Position{Line: line, Col: col}, false)
}
