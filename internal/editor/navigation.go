package editor

// Navigation functions compute a destination from the buffer's cursor without
// mutating anything. Given a cursor inside the buffer they always return a
// position inside the buffer whose column respects the normal-mode last
// column of its line.

func moveLeft(b *Buffer) Position {
	p := b.cursor
	if p.Col > 0 {
		p.Col--
	}
	return p
}

func moveRight(b *Buffer) Position {
	p := b.cursor
	if p.Col < LastNormalCol(b.lines[p.Row]) {
		p.Col++
	}
	return p
}

func moveUp(b *Buffer) Position {
	p := b.cursor
	if p.Row == 0 {
		return p
	}
	p.Row--
	p.Col = min(p.Col, LastNormalCol(b.lines[p.Row]))
	return p
}

func moveDown(b *Buffer) Position {
	p := b.cursor
	if p.Row >= len(b.lines)-1 {
		return p
	}
	p.Row++
	p.Col = min(p.Col, LastNormalCol(b.lines[p.Row]))
	return p
}

func lineStart(b *Buffer) Position {
	return Position{Row: b.cursor.Row}
}

func lineEnd(b *Buffer) Position {
	return Position{Row: b.cursor.Row, Col: LastNormalCol(b.lines[b.cursor.Row])}
}

// nextWordStart finds the start of the next word. It continues onto later
// lines, where an empty line counts as a word, and at the end of the buffer
// settles on the last non-space rune so it never moves backward.
func nextWordStart(b *Buffer) Position {
	cur := b.cursor
	line := b.currentLine()
	for i := cur.Col + 1; i < len(line); i++ {
		if isRunStart(line, i) {
			return Position{Row: cur.Row, Col: i}
		}
	}

	for row := cur.Row + 1; row < len(b.lines); row++ {
		next := []rune(b.lines[row])
		if len(next) == 0 {
			return Position{Row: row}
		}
		if col := firstNonSpace(next); col >= 0 {
			return Position{Row: row, Col: col}
		}
	}

	for row := len(b.lines) - 1; row >= cur.Row; row-- {
		from := 0
		if row == cur.Row {
			from = cur.Col
		}
		if col := lastNonSpace([]rune(b.lines[row]), from); col >= 0 {
			return Position{Row: row, Col: col}
		}
	}
	last := len(b.lines) - 1
	return Position{Row: last, Col: LastNormalCol(b.lines[last])}
}

// wordEnd finds the last rune of the next word, skipping whitespace and
// empty lines. With no word ahead the cursor stays put.
func wordEnd(b *Buffer) Position {
	cur := b.cursor
	for row := cur.Row; row < len(b.lines); row++ {
		line := []rune(b.lines[row])
		start := 0
		if row == cur.Row {
			start = cur.Col + 1
		}
		for i := start; i < len(line); i++ {
			if isRunEnd(line, i) {
				return Position{Row: row, Col: i}
			}
		}
	}
	return cur
}

// prevWordStart finds the start of the word before the cursor, continuing
// onto earlier lines. An empty line counts as a word. Returns (0,0) when
// nothing precedes the cursor.
func prevWordStart(b *Buffer) Position {
	cur := b.cursor
	line := b.currentLine()
	for i := min(cur.Col, len(line)) - 1; i >= 0; i-- {
		if isRunStart(line, i) {
			return Position{Row: cur.Row, Col: i}
		}
	}

	for row := cur.Row - 1; row >= 0; row-- {
		prev := []rune(b.lines[row])
		if len(prev) == 0 {
			return Position{Row: row}
		}
		for i := len(prev) - 1; i >= 0; i-- {
			if isRunStart(prev, i) {
				return Position{Row: row, Col: i}
			}
		}
	}
	return Position{}
}

// findChar returns the next occurrence of c after the cursor on the current
// line, or the cursor itself when there is none.
func findChar(b *Buffer, c rune) Position {
	line := b.currentLine()
	for i := b.cursor.Col + 1; i < len(line); i++ {
		if line[i] == c {
			return Position{Row: b.cursor.Row, Col: i}
		}
	}
	return b.cursor
}

// findPrevChar is findChar searching backward.
func findPrevChar(b *Buffer, c rune) Position {
	line := b.currentLine()
	for i := min(b.cursor.Col, len(line)) - 1; i >= 0; i-- {
		if line[i] == c {
			return Position{Row: b.cursor.Row, Col: i}
		}
	}
	return b.cursor
}
