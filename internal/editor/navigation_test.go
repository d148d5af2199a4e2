package editor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// motionCase runs a motion from a cursor and checks the destination.
type motionCase struct {
	name   string
	lines  []string
	cursor Position
	motion Motion
	want   Position
}

func runMotionCases(t *testing.T, tests []motionCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuffer(tt.lines...)
			b.SetCursor(tt.cursor)
			before := b.Lines()

			got := tt.motion.Execute(b)

			require.Equal(t, tt.want, got)
			require.Equal(t, before, b.Lines(), "motions must not mutate the buffer")
			require.Equal(t, tt.cursor, b.Cursor(), "motions must not move the cursor themselves")
		})
	}
}

// TestDirectionalMotions verifies h, l, j and k including their no-op boundaries
func TestDirectionalMotions(t *testing.T) {
	runMotionCases(t, []motionCase{
		{"left moves back", []string{"abc"}, Position{0, 2}, Motion{Kind: MotionLeft}, Position{0, 1}},
		{"left at col 0 is a no-op", []string{"abc", "def"}, Position{1, 0}, Motion{Kind: MotionLeft}, Position{1, 0}},
		{"right moves forward", []string{"abc"}, Position{0, 0}, Motion{Kind: MotionRight}, Position{0, 1}},
		{"right at last col is a no-op", []string{"abc", "def"}, Position{0, 2}, Motion{Kind: MotionRight}, Position{0, 2}},
		{"right on empty line", []string{""}, Position{0, 0}, Motion{Kind: MotionRight}, Position{0, 0}},
		{"up at row 0 is a no-op", []string{"abc", "def"}, Position{0, 1}, Motion{Kind: MotionUp}, Position{0, 1}},
		{"down at last row is a no-op", []string{"abc", "def"}, Position{1, 1}, Motion{Kind: MotionDown}, Position{1, 1}},
		{"down clamps column", []string{"hello", "hi"}, Position{0, 4}, Motion{Kind: MotionDown}, Position{1, 1}},
		{"up keeps column when it fits", []string{"hello", "hi"}, Position{1, 1}, Motion{Kind: MotionUp}, Position{0, 1}},
		{"down onto empty line", []string{"abc", ""}, Position{0, 2}, Motion{Kind: MotionDown}, Position{1, 0}},
		{"line start", []string{"  abc"}, Position{0, 4}, Motion{Kind: MotionLineStart}, Position{0, 0}},
		{"line end", []string{"abc def"}, Position{0, 1}, Motion{Kind: MotionLineEnd}, Position{0, 6}},
		{"line end on empty line", []string{""}, Position{0, 0}, Motion{Kind: MotionLineEnd}, Position{0, 0}},
		{"line end counts runes", []string{"héllo"}, Position{0, 0}, Motion{Kind: MotionLineEnd}, Position{0, 4}},
	})
}

// TestNextWordStart verifies w across runs, delimiters and lines
func TestNextWordStart(t *testing.T) {
	w := Motion{Kind: MotionNextWordStart}
	runMotionCases(t, []motionCase{
		{"to next word", []string{"abc def", "ghi"}, Position{0, 0}, w, Position{0, 4}},
		{"onto next line", []string{"abc def", "ghi"}, Position{0, 4}, w, Position{1, 0}},
		{"last word clamps to last rune", []string{"abc def", "ghi"}, Position{1, 0}, w, Position{1, 2}},
		{"at last rune stays", []string{"abc def", "ghi"}, Position{1, 2}, w, Position{1, 2}},
		{"stops at delimiter", []string{"foo.bar(baz)"}, Position{0, 0}, w, Position{0, 3}},
		{"from delimiter to word", []string{"foo.bar(baz)"}, Position{0, 3}, w, Position{0, 4}},
		{"delimiter run is one word", []string{"a..b"}, Position{0, 1}, w, Position{0, 3}},
		{"skips whitespace run", []string{"a    b"}, Position{0, 0}, w, Position{0, 5}},
		{"from whitespace", []string{"a    b"}, Position{0, 2}, w, Position{0, 5}},
		{"skips leading whitespace on next line", []string{"abc", "  def"}, Position{0, 0}, w, Position{1, 2}},
		{"stops on empty line", []string{"abc", "", "def"}, Position{0, 0}, w, Position{1, 0}},
		{"leaves empty line", []string{"abc", "", "def"}, Position{1, 0}, w, Position{2, 0}},
		{"skips whitespace-only line", []string{"abc", "   ", "def"}, Position{0, 0}, w, Position{2, 0}},
		{"trailing whitespace clamps to last rune", []string{"abc   "}, Position{0, 0}, w, Position{0, 2}},
		{"never moves backward from trailing whitespace", []string{"abc   "}, Position{0, 4}, w, Position{0, 5}},
		{"multi-byte runes", []string{"héllo wörld"}, Position{0, 0}, w, Position{0, 6}},
		{"dash is a delimiter", []string{"a-b"}, Position{0, 0}, w, Position{0, 1}},
		{"plus is a word rune", []string{"a+b", "c"}, Position{0, 0}, w, Position{1, 0}},
		{"semicolon is a word rune", []string{"a;b", "c"}, Position{0, 0}, w, Position{1, 0}},
		{"tab run is a word rune", []string{"a\t\tb", "c"}, Position{0, 0}, w, Position{1, 0}},
		{"space after tab separates", []string{"\tx y"}, Position{0, 0}, w, Position{0, 3}},
	})
}

// TestWordEnd verifies e across runs, delimiters and lines
func TestWordEnd(t *testing.T) {
	e := Motion{Kind: MotionWordEnd}
	runMotionCases(t, []motionCase{
		{"end of first word", []string{"abc def", "ghi"}, Position{0, 0}, e, Position{0, 2}},
		{"from word end to next", []string{"abc def", "ghi"}, Position{0, 2}, e, Position{0, 6}},
		{"crosses lines", []string{"abc def", "ghi"}, Position{0, 6}, e, Position{1, 2}},
		{"no word ahead stays", []string{"abc def", "ghi"}, Position{1, 2}, e, Position{1, 2}},
		{"ends before delimiter", []string{"foo.bar(baz)"}, Position{0, 0}, e, Position{0, 2}},
		{"delimiter is its own word", []string{"foo.bar(baz)"}, Position{0, 2}, e, Position{0, 3}},
		{"single rune words", []string{"a b"}, Position{0, 0}, e, Position{0, 2}},
		{"skips empty lines", []string{"abc", "", "def"}, Position{0, 2}, e, Position{2, 2}},
	})
}

// TestPrevWordStart verifies b across runs, delimiters and lines
func TestPrevWordStart(t *testing.T) {
	b := Motion{Kind: MotionPrevWordStart}
	runMotionCases(t, []motionCase{
		{"to start of current word", []string{"abc def"}, Position{0, 5}, b, Position{0, 4}},
		{"to previous word", []string{"abc def"}, Position{0, 4}, b, Position{0, 0}},
		{"at buffer start stays", []string{"abc def"}, Position{0, 0}, b, Position{0, 0}},
		{"onto previous line", []string{"abc def", "ghi"}, Position{1, 0}, b, Position{0, 4}},
		{"from first non-space column", []string{"abc", "   def"}, Position{1, 3}, b, Position{0, 0}},
		{"stops at delimiter", []string{"foo.bar"}, Position{0, 4}, b, Position{0, 3}},
		{"stops on empty line", []string{"abc", "", "def"}, Position{2, 0}, b, Position{1, 0}},
		{"clamps to origin over whitespace", []string{"   ", "abc"}, Position{1, 0}, b, Position{0, 0}},
	})
}

// TestFindMotions verifies f and F search only the current line and fail soft
func TestFindMotions(t *testing.T) {
	runMotionCases(t, []motionCase{
		{"find forward", []string{"hello world"}, Position{0, 0}, Motion{Kind: MotionFindChar, Char: 'o'}, Position{0, 4}},
		{"find skips rune under cursor", []string{"aaa"}, Position{0, 0}, Motion{Kind: MotionFindChar, Char: 'a'}, Position{0, 1}},
		{"find missing char is a no-op", []string{"hello world"}, Position{0, 3}, Motion{Kind: MotionFindChar, Char: 'z'}, Position{0, 3}},
		{"find does not cross lines", []string{"abc", "xyz"}, Position{0, 0}, Motion{Kind: MotionFindChar, Char: 'x'}, Position{0, 0}},
		{"find backward", []string{"hello world"}, Position{0, 6}, Motion{Kind: MotionFindPrevChar, Char: 'h'}, Position{0, 0}},
		{"find backward missing", []string{"hello world"}, Position{0, 6}, Motion{Kind: MotionFindPrevChar, Char: 'z'}, Position{0, 6}},
		{"find multi-byte", []string{"naïve"}, Position{0, 0}, Motion{Kind: MotionFindChar, Char: 'v'}, Position{0, 3}},
		{"find on empty line", []string{""}, Position{0, 0}, Motion{Kind: MotionFindChar, Char: 'a'}, Position{0, 0}},
	})
}

// TestMotions_ClampingInvariant verifies every motion sequence keeps the
// cursor inside the buffer and within the normal-mode column bound
func TestMotions_ClampingInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := genBuffer(rt)
		steps := rapid.SliceOfN(rapid.SampledFrom(allTestMotions), 1, 20).Draw(rt, "motions")
		for _, m := range steps {
			b.SetCursor(m.Execute(b))
			requireValidCursor(rt, b)
		}
	})
}

// TestWordMotions_Direction verifies w and e never move backward and b never
// moves forward
func TestWordMotions_Direction(t *testing.T) {
	before := func(a, b Position) bool {
		return a.Row < b.Row || (a.Row == b.Row && a.Col <= b.Col)
	}
	rapid.Check(t, func(rt *rapid.T) {
		b := genBuffer(rt)
		cur := b.Cursor()

		if got := nextWordStart(b); !before(cur, got) {
			rt.Fatalf("w moved backward from %s to %s", cur, got)
		}
		if got := wordEnd(b); !before(cur, got) {
			rt.Fatalf("e moved backward from %s to %s", cur, got)
		}
		if got := prevWordStart(b); !before(got, cur) {
			rt.Fatalf("b moved forward from %s to %s", cur, got)
		}
	})
}
