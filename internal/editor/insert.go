package editor

// insertText inserts s, which must not contain a line break, at the cursor
// and advances the cursor past it.
func (b *Buffer) insertText(s string) {
	line := b.currentLine()
	col := min(b.cursor.Col, len(line))
	ins := []rune(s)
	out := make([]rune, 0, len(line)+len(ins))
	out = append(out, line[:col]...)
	out = append(out, ins...)
	out = append(out, line[col:]...)
	b.setLine(b.cursor.Row, string(out))
	b.cursor.Col = col + len(ins)
}

// splitLine breaks the current line at the cursor; the cursor moves to the
// start of the new line.
func (b *Buffer) splitLine() {
	line := b.currentLine()
	col := min(b.cursor.Col, len(line))
	b.setLine(b.cursor.Row, string(line[:col]))
	b.insertLine(b.cursor.Row+1, string(line[col:]))
	b.cursor = Position{Row: b.cursor.Row + 1}
}

// backspace removes the rune before the cursor. At column 0 the line is
// joined onto the previous one. Reports false at the start of the buffer.
func (b *Buffer) backspace() bool {
	cur := b.cursor
	if cur.Col > 0 {
		line := b.currentLine()
		col := min(cur.Col, len(line))
		b.setLine(cur.Row, string(line[:col-1])+string(line[col:]))
		b.cursor.Col = col - 1
		return true
	}
	if cur.Row == 0 {
		return false
	}
	prev := b.lines[cur.Row-1]
	joined := prev + b.lines[cur.Row]
	b.removeLines(cur.Row, cur.Row)
	b.setLine(cur.Row-1, joined)
	b.cursor = Position{Row: cur.Row - 1, Col: runeLen(prev)}
	return true
}

// moveInsert applies an arrow key in insert mode, where the cursor may sit
// one past the last rune.
func (b *Buffer) moveInsert(code KeyCode) bool {
	p := b.cursor
	switch code {
	case KeyLeft:
		p.Col = max(p.Col-1, 0)
	case KeyRight:
		p.Col = min(p.Col+1, runeLen(b.lines[p.Row]))
	case KeyUp:
		p.Row = max(p.Row-1, 0)
		p.Col = min(p.Col, runeLen(b.lines[p.Row]))
	case KeyDown:
		p.Row = min(p.Row+1, len(b.lines)-1)
		p.Col = min(p.Col, runeLen(b.lines[p.Row]))
	}
	moved := p != b.cursor
	b.cursor = p
	return moved
}
