// Package editor implements a modal text-editing engine: a line buffer with a
// cursor, motions that relocate the cursor, actions that delete ranges into a
// shared register, and a Normal/Insert/Command state machine that routes keys.
package editor

import "fmt"

// Position is a (row, column) location in a Buffer. Columns count runes.
type Position struct {
	Row int
	Col int
}

// String returns "row:col" using zero-based coordinates.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// LastNormalCol returns the highest column the cursor may occupy on a line
// outside insert mode: len-1, or 0 for an empty line.
func LastNormalCol(line string) int {
	return max(runeLen(line), 1) - 1
}

// runeLen returns the number of runes in s.
func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
