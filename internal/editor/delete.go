package editor

import "strings"

// store writes text to key. Named registers also update the default one.
func (b *Buffer) store(key rune, text string) {
	b.register.Set(key, text)
	if key != DefaultRegister {
		b.register.Set(DefaultRegister, text)
	}
}

// deleteMotion removes the range between the cursor and the motion's
// destination. Within one row the range is character-wise; across rows every
// touched line is removed.
func (b *Buffer) deleteMotion(m Motion, reg rune) Edit {
	from := b.cursor
	to := m.Execute(b)
	if !m.found(from, to) {
		return Edit{}
	}
	if from.Row != to.Row {
		return b.deleteRows(min(from.Row, to.Row), max(from.Row, to.Row), reg)
	}

	line := b.currentLine()
	if len(line) == 0 {
		return Edit{}
	}
	lo, hi := min(from.Col, to.Col), max(from.Col, to.Col)
	if !m.Inclusive() {
		hi--
	}
	if hi < lo {
		return Edit{}
	}
	if hi >= len(line) {
		violation("delete", Position{Row: from.Row, Col: hi}, "column past end of line (len %d)", len(line))
	}

	removed := string(line[lo : hi+1])
	b.setLine(from.Row, string(line[:lo])+string(line[hi+1:]))
	b.store(reg, removed)
	b.cursor.Col = lo
	b.clampCol()
	return Edit{Applied: true, Text: removed, At: Position{Row: from.Row, Col: lo}}
}

// deleteRows removes lines lo through hi. The register receives the lines
// each preceded by a line break, plus a closing line break.
func (b *Buffer) deleteRows(lo, hi int, reg rune) Edit {
	removed := b.removeLines(lo, hi)
	text := "\n" + strings.Join(removed, "\n") + "\n"
	b.store(reg, text)
	b.cursor.Row = max(0, min(lo-1, len(b.lines)-1))
	b.clampCol()
	return Edit{Applied: true, Text: text, At: Position{Row: lo}, Linewise: true}
}

// deleteLine removes the cursor's row. The last remaining line is emptied
// rather than removed.
func (b *Buffer) deleteLine(reg rune) Edit {
	row := b.cursor.Row
	removed := b.removeLines(row, row)
	text := "\n" + removed[0] + "\n"
	b.store(reg, text)
	b.cursor.Row = min(row, len(b.lines)-1)
	b.clampCol()
	return Edit{Applied: true, Text: text, At: Position{Row: row}, Linewise: true}
}

// deleteToEnd removes everything from the cursor to the end of the line.
func (b *Buffer) deleteToEnd(reg rune) Edit {
	at := b.cursor
	line := b.currentLine()
	if at.Col >= len(line) {
		return Edit{}
	}
	removed := string(line[at.Col:])
	b.setLine(at.Row, string(line[:at.Col]))
	b.store(reg, removed)
	b.clampCol()
	return Edit{Applied: true, Text: removed, At: at}
}

// deleteChar removes the rune under the cursor.
func (b *Buffer) deleteChar(reg rune) Edit {
	at := b.cursor
	line := b.currentLine()
	if at.Col >= len(line) {
		return Edit{}
	}
	removed := string(line[at.Col])
	b.setLine(at.Row, string(line[:at.Col])+string(line[at.Col+1:]))
	b.store(reg, removed)
	b.clampCol()
	return Edit{Applied: true, Text: removed, At: at}
}
