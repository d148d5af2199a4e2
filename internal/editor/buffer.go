package editor

import "strings"

// Buffer is an ordered sequence of lines plus a cursor. It always holds at
// least one line, and its cursor always addresses an existing row.
type Buffer struct {
	lines    []string
	cursor   Position
	register *Register
}

// Load splits text on line breaks into a new Buffer that writes deletions to
// reg. Empty text yields a single empty line. A nil reg gets a private
// Register.
func Load(text string, reg *Register) *Buffer {
	return NewBuffer(strings.Split(text, "\n"), reg)
}

// NewBuffer creates a Buffer holding a copy of lines.
func NewBuffer(lines []string, reg *Register) *Buffer {
	if reg == nil {
		reg = NewRegister()
	}
	b := &Buffer{register: reg}
	b.lines = append([]string(nil), lines...)
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	return b
}

// Serialize joins the lines with "\n". Load(b.Serialize()) reproduces b's
// lines exactly.
func (b *Buffer) Serialize() string {
	return strings.Join(b.lines, "\n")
}

// Reset replaces the content with text, keeping the cursor as close to its
// previous position as the new content allows.
func (b *Buffer) Reset(text string) {
	b.lines = strings.Split(text, "\n")
	b.cursor.Row = min(b.cursor.Row, len(b.lines)-1)
	b.clampCol()
}

// Lines returns a copy of the buffer's lines.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

// LineCount returns the number of lines; never less than one.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the text of row. It panics if row is out of range.
func (b *Buffer) Line(row int) string {
	b.checkRow("line", row)
	return b.lines[row]
}

// Cursor returns the current cursor position.
func (b *Buffer) Cursor() Position {
	return b.cursor
}

// Register returns the register set deletions are written to.
func (b *Buffer) Register() *Register {
	return b.register
}

// SetCursor moves the cursor to p. The column may equal the line length
// (the insert position after the last character); anything beyond that, or a
// row outside the buffer, panics.
func (b *Buffer) SetCursor(p Position) {
	b.checkRow("set cursor", p.Row)
	if p.Col < 0 || p.Col > runeLen(b.lines[p.Row]) {
		violation("set cursor", p, "column outside [0, %d]", runeLen(b.lines[p.Row]))
	}
	b.cursor = p
}

// currentLine returns the runes of the cursor's line.
func (b *Buffer) currentLine() []rune {
	return []rune(b.lines[b.cursor.Row])
}

func (b *Buffer) checkRow(op string, row int) {
	if row < 0 || row >= len(b.lines) {
		violation(op, Position{Row: row}, "row outside [0, %d)", len(b.lines))
	}
}

// clampCol pulls the cursor column back to the normal-mode last column.
func (b *Buffer) clampCol() {
	b.cursor.Col = max(0, min(b.cursor.Col, LastNormalCol(b.lines[b.cursor.Row])))
}

// setLine replaces the text of row.
func (b *Buffer) setLine(row int, text string) {
	b.checkRow("set line", row)
	b.lines[row] = text
}

// insertLine inserts text as a new line at row, shifting later lines down.
// row may equal LineCount to append.
func (b *Buffer) insertLine(row int, text string) {
	if row < 0 || row > len(b.lines) {
		violation("insert line", Position{Row: row}, "row outside [0, %d]", len(b.lines))
	}
	b.lines = append(b.lines, "")
	copy(b.lines[row+1:], b.lines[row:])
	b.lines[row] = text
}

// removeLines deletes rows lo through hi inclusive and returns them. If every
// line is removed the buffer is left holding one empty line.
func (b *Buffer) removeLines(lo, hi int) []string {
	b.checkRow("remove lines", lo)
	b.checkRow("remove lines", hi)
	removed := append([]string(nil), b.lines[lo:hi+1]...)
	b.lines = append(b.lines[:lo], b.lines[hi+1:]...)
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	return removed
}
