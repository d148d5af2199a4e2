package editorview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/modal/internal/editor"
	"github.com/zjrosen/modal/internal/ui/styles"
	"github.com/zjrosen/modal/internal/workspace"
)

const tabWidth = 4

// runeCells is the display width of r when it starts at cell.
func runeCells(r rune, cell int) int {
	if r == '\t' {
		return tabWidth - cell%tabWidth
	}
	return max(runewidth.RuneWidth(r), 1)
}

// cellOf returns the display cell where rune col of line starts. col may
// equal the rune count, giving the cell just past the line.
func cellOf(line string, col int) int {
	cell := 0
	for i, r := range []rune(line) {
		if i == col {
			break
		}
		cell += runeCells(r, cell)
	}
	return cell
}

// renderLine draws the part of line visible in [left, left+width). The rune
// at cursor is drawn with the cursor style; cursor may equal the rune count
// to show an insert cursor after the last character, or be negative for no
// cursor.
func renderLine(line string, left, width, cursor int) string {
	var sb strings.Builder
	runes := []rune(line)
	cell := 0
	for i, r := range runes {
		w := runeCells(r, cell)
		start, end := cell, cell+w
		cell = end
		if end <= left {
			continue
		}
		if start >= left+width {
			break
		}

		text := string(r)
		if r == '\t' || start < left || end > left+width {
			// tabs and runes cut by an edge are drawn as blanks
			text = strings.Repeat(" ", min(end, left+width)-max(start, left))
		}
		if i == cursor {
			text = styles.CursorStyle.Render(text)
		}
		sb.WriteString(text)
	}
	if cursor == len(runes) && cell >= left && cell < left+width {
		sb.WriteString(styles.CursorStyle.Render(" "))
	}
	return sb.String()
}

// gutterWidth returns the columns used by line numbers, including the
// separating space.
func gutterWidth(lineCount int, numbers bool) int {
	if !numbers {
		return 0
	}
	return max(3, len(strconv.Itoa(lineCount))) + 1
}

func renderGutter(row, cursorRow, width int) string {
	text := fmt.Sprintf("%*d ", width-1, row+1)
	if row == cursorRow {
		return styles.CursorLineNumberStyle.Render(text)
	}
	return styles.LineNumberStyle.Render(text)
}

// renderText draws the visible rows of doc.
func (m Model) renderText(doc *workspace.Document, rows int) []string {
	buf := doc.Buffer
	cur := buf.Cursor()
	sc := m.scrollFor(doc)
	gutter := gutterWidth(buf.LineCount(), m.cmds.ui.LineNumbers)
	width := max(m.width-gutter, 1)
	showCursor := doc.Machine.Mode() != editor.ModeCommand

	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		row := sc.top + i
		if row >= buf.LineCount() {
			out = append(out, styles.TildeStyle.Render("~"))
			continue
		}
		cursor := -1
		if showCursor && row == cur.Row {
			cursor = cur.Col
		}
		line := renderLine(buf.Line(row), sc.left, width, cursor)
		if gutter > 0 {
			line = renderGutter(row, cur.Row, gutter) + line
		}
		out = append(out, line)
	}
	return out
}

// renderStatusBar draws mode, file name, flags, pending keys and position.
func (m Model) renderStatusBar(doc *workspace.Document) string {
	mode := doc.Machine.Mode()
	badge := styles.ModeBadge(mode.String())

	name := " " + doc.Name()
	if doc.Dirty() {
		name += styles.DirtyStyle.Render(" [+]")
	}
	switch {
	case doc.Removed():
		name += styles.WarningStyle.Render(" [deleted on disk]")
	case doc.Stale():
		name += styles.WarningStyle.Render(" [changed on disk]")
	}

	cur := doc.Buffer.Cursor()
	right := fmt.Sprintf("%d:%d ", cur.Row+1, cur.Col+1)
	if p := doc.Machine.Pending(); p != "" {
		right = styles.PendingStyle.Render(p) + "  " + right
	}

	badgeWidth := ansi.StringWidth(badge)
	rightWidth := ansi.StringWidth(right)
	gap := m.width - badgeWidth - ansi.StringWidth(name) - rightWidth
	if gap < 1 {
		// keep the end of the name, where the file name and flags are
		cut := min(1-gap+2, ansi.StringWidth(name))
		name = " …" + ansi.TruncateLeft(name, cut, "")
		gap = max(m.width-badgeWidth-ansi.StringWidth(name)-rightWidth, 1)
	}
	return badge + styles.StatusBarStyle.Render(name+strings.Repeat(" ", gap)+right)
}

// renderBottomLine draws the command line or the current status message.
func (m Model) renderBottomLine(doc *workspace.Document) string {
	if doc.Machine.Mode() == editor.ModeCommand {
		return ":" + doc.Machine.CommandLine() + styles.CursorStyle.Render(" ")
	}
	st, ok := m.currentStatus()
	if !ok {
		return ""
	}
	text := ansi.Truncate(st.text, m.width, "…")
	switch st.kind {
	case statusError:
		return styles.ErrorStyle.Render(text)
	case statusWarning:
		return styles.WarningStyle.Render(text)
	default:
		return styles.MessageStyle.Render(text)
	}
}
