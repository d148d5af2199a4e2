// Package overlay draws a box over an already rendered screen.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position is where the box sits on screen.
type Position int

const (
	Center Position = iota
	Top
	Bottom
)

// Place draws fg over bg, which is padded to height rows. Styling on both
// sides of the box is preserved.
func Place(width, height int, pos Position, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, strings.Repeat(" ", width))
	}

	x, y := origin(width, height, lipgloss.Width(fg), len(fgLines), pos)
	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], line, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of bg starting at column x with fg.
func splice(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	end := x + ansi.StringWidth(fg)
	var right string
	if end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}
	return left + fg + right
}

func origin(width, height, fgWidth, fgHeight int, pos Position) (x, y int) {
	x = (width - fgWidth) / 2
	switch pos {
	case Top:
		y = 0
	case Bottom:
		y = height - fgHeight
	default:
		y = (height - fgHeight) / 2
	}
	return max(x, 0), max(y, 0)
}
