package editor

import (
	"fmt"
	"time"

	"pgregory.net/rapid"
)

// newTestBuffer creates a buffer with the given lines and a fresh register.
func newTestBuffer(lines ...string) *Buffer {
	return NewBuffer(lines, NewRegister())
}

// fakeClock is a manually advanced Clock.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeClipboard is an in-memory Clipboard.
type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

// allTestMotions covers every motion kind, with find targets that are both
// present and absent in generated lines.
var allTestMotions = []Motion{
	{Kind: MotionLeft},
	{Kind: MotionRight},
	{Kind: MotionUp},
	{Kind: MotionDown},
	{Kind: MotionLineStart},
	{Kind: MotionLineEnd},
	{Kind: MotionPrevWordStart},
	{Kind: MotionNextWordStart},
	{Kind: MotionWordEnd},
	{Kind: MotionFindChar, Char: 'a'},
	{Kind: MotionFindChar, Char: '.'},
	{Kind: MotionFindChar, Char: 'z'},
	{Kind: MotionFindPrevChar, Char: 'b'},
	{Kind: MotionFindPrevChar, Char: ' '},
}

// genLine draws a line mixing word runes, delimiters, whitespace and a
// multi-byte rune.
func genLine(t *rapid.T, label string, minLen int) string {
	return rapid.StringMatching(fmt.Sprintf(`[ab é.(]{%d,10}`, minLen)).Draw(t, label)
}

// genBuffer draws a buffer of 1 to 6 lines with a cursor satisfying the
// normal-mode column bound.
func genBuffer(t *rapid.T) *Buffer {
	n := rapid.IntRange(1, 6).Draw(t, "lineCount")
	lines := make([]string, n)
	for i := range lines {
		lines[i] = genLine(t, "line", 0)
	}
	b := newTestBuffer(lines...)
	row := rapid.IntRange(0, n-1).Draw(t, "row")
	col := rapid.IntRange(0, LastNormalCol(lines[row])).Draw(t, "col")
	b.SetCursor(Position{Row: row, Col: col})
	return b
}

// requireValidCursor fails the property when b's cursor breaks the row bound
// or the normal-mode column bound.
func requireValidCursor(t *rapid.T, b *Buffer) {
	p := b.Cursor()
	if b.LineCount() < 1 {
		t.Fatalf("buffer has no lines")
	}
	if p.Row < 0 || p.Row >= b.LineCount() {
		t.Fatalf("row %d outside [0, %d)", p.Row, b.LineCount())
	}
	if p.Col < 0 || p.Col > LastNormalCol(b.Line(p.Row)) {
		t.Fatalf("col %d outside [0, %d] on line %q", p.Col, LastNormalCol(b.Line(p.Row)), b.Line(p.Row))
	}
}
