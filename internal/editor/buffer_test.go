package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestLoad_EmptyText verifies an empty document is one empty line
func TestLoad_EmptyText(t *testing.T) {
	b := Load("", nil)

	require.Equal(t, []string{""}, b.Lines())
	require.Equal(t, 1, b.LineCount())
	require.Equal(t, Position{}, b.Cursor())
	require.NotNil(t, b.Register())
}

// TestLoad_SplitsLines verifies text is split on line breaks, keeping a
// trailing empty line for a final newline
func TestLoad_SplitsLines(t *testing.T) {
	b := Load("abc\ndef\n", nil)
	require.Equal(t, []string{"abc", "def", ""}, b.Lines())
	require.Equal(t, "abc\ndef\n", b.Serialize())
}

// TestNewBuffer_NoLines verifies a nil line slice still yields one line
func TestNewBuffer_NoLines(t *testing.T) {
	b := NewBuffer(nil, nil)
	require.Equal(t, []string{""}, b.Lines())
}

// TestNewBuffer_CopiesLines verifies the buffer owns its lines
func TestNewBuffer_CopiesLines(t *testing.T) {
	lines := []string{"abc"}
	b := NewBuffer(lines, nil)
	lines[0] = "changed"
	require.Equal(t, "abc", b.Line(0))

	out := b.Lines()
	out[0] = "changed"
	require.Equal(t, "abc", b.Line(0))
}

// TestLoadSerialize_RoundTrip verifies Serialize inverts Load for any text
func TestLoadSerialize_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringMatching(`[a-z é\n]{0,40}`).Draw(rt, "text")
		b := Load(text, nil)
		if b.Serialize() != text {
			rt.Fatalf("round trip changed %q into %q", text, b.Serialize())
		}
		if b.LineCount() != strings.Count(text, "\n")+1 {
			rt.Fatalf("expected %d lines, got %d", strings.Count(text, "\n")+1, b.LineCount())
		}
	})
}

// TestBuffer_Reset verifies reloading content clamps the cursor
func TestBuffer_Reset(t *testing.T) {
	b := newTestBuffer("abc", "defgh", "ijk")
	b.SetCursor(Position{Row: 1, Col: 4})

	b.Reset("one\ntw")
	require.Equal(t, []string{"one", "tw"}, b.Lines())
	require.Equal(t, Position{Row: 1, Col: 1}, b.Cursor())

	b.Reset("")
	require.Equal(t, []string{""}, b.Lines())
	require.Equal(t, Position{}, b.Cursor())
}

// TestBuffer_SetCursorAllowsInsertColumn verifies the column one past the
// last rune is accepted
func TestBuffer_SetCursorAllowsInsertColumn(t *testing.T) {
	b := newTestBuffer("héllo")
	b.SetCursor(Position{Row: 0, Col: 5})
	require.Equal(t, Position{Row: 0, Col: 5}, b.Cursor())
}

// TestBuffer_InvariantViolationsPanic verifies out-of-range addressing fails fast
func TestBuffer_InvariantViolationsPanic(t *testing.T) {
	b := newTestBuffer("abc", "def")

	require.Panics(t, func() { b.Line(2) })
	require.Panics(t, func() { b.Line(-1) })
	require.Panics(t, func() { b.SetCursor(Position{Row: 5}) })
	require.Panics(t, func() { b.SetCursor(Position{Row: 0, Col: 4}) })

	defer func() {
		r := recover()
		err, ok := r.(*InvariantError)
		require.True(t, ok, "panic value should be *InvariantError, got %T", r)
		require.Equal(t, "line", err.Op)
		require.Contains(t, err.Error(), "row outside [0, 2)")
	}()
	b.Line(7)
}

// TestLastNormalCol verifies the last legal normal-mode column for line lengths
func TestLastNormalCol(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"", 0},
		{"a", 0},
		{"ab", 1},
		{"héllo", 4},
		{"日本語", 2},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			require.Equal(t, tt.want, LastNormalCol(tt.line))
		})
	}
}

// TestBuffer_SplitAndBackspace verifies splitting a line and joining it back
func TestBuffer_SplitAndBackspace(t *testing.T) {
	b := newTestBuffer("abcd")
	b.SetCursor(Position{Row: 0, Col: 2})

	b.splitLine()
	require.Equal(t, []string{"ab", "cd"}, b.Lines())
	require.Equal(t, Position{Row: 1, Col: 0}, b.Cursor())

	require.True(t, b.backspace())
	require.Equal(t, []string{"abcd"}, b.Lines())
	require.Equal(t, Position{Row: 0, Col: 2}, b.Cursor())

	b.SetCursor(Position{})
	require.False(t, b.backspace())
}
