// Package logview shows recent log lines in an overlay (":messages").
package logview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/modal/internal/keys"
	"github.com/zjrosen/modal/internal/log"
	"github.com/zjrosen/modal/internal/ui/overlay"
	"github.com/zjrosen/modal/internal/ui/styles"
)

const (
	// DefaultCapacity is how many lines are retained.
	DefaultCapacity = 500

	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
)

// CloseMsg is sent when the overlay closes.
type CloseMsg struct{}

// Model retains log lines and renders them on demand.
type Model struct {
	lines    []string
	capacity int
	visible  bool
	minLevel log.Level
	width    int
	height   int
	viewport viewport.Model
}

// New creates a hidden log view retaining up to capacity lines.
func New(capacity int) Model {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return Model{capacity: capacity, minLevel: log.LevelDebug}
}

// Append records a log line, dropping the oldest beyond capacity.
func (m *Model) Append(line string) {
	m.lines = append(m.lines, strings.TrimSuffix(line, "\n"))
	if over := len(m.lines) - m.capacity; over > 0 {
		m.lines = append(m.lines[:0], m.lines[over:]...)
	}
	if m.visible {
		m.refresh()
		m.viewport.GotoBottom()
	}
}

// Lines returns the retained lines, oldest first.
func (m Model) Lines() []string {
	return append([]string(nil), m.lines...)
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool {
	return m.visible
}

// Show opens the overlay scrolled to the newest line.
func (m *Model) Show() {
	m.visible = true
	m.refresh()
	m.viewport.GotoBottom()
}

// Hide closes the overlay.
func (m *Model) Hide() {
	m.visible = false
}

// SetSize records the screen size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.visible {
		m.refresh()
	}
}

// Update handles keys while the overlay is visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, keys.Overlay.Close):
		m.visible = false
		return m, func() tea.Msg { return CloseMsg{} }
	case key.Matches(km, keys.Overlay.ScrollDown):
		m.viewport.ScrollDown(1)
		return m, nil
	case key.Matches(km, keys.Overlay.ScrollUp):
		m.viewport.ScrollUp(1)
		return m, nil
	case key.Matches(km, keys.Overlay.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(km, keys.Overlay.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	switch km.String() {
	case "c":
		m.lines = nil
	case "d":
		m.minLevel = log.LevelDebug
	case "i":
		m.minLevel = log.LevelInfo
	case "w":
		m.minLevel = log.LevelWarn
	case "e":
		m.minLevel = log.LevelError
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	contentWidth := m.boxWidth() - 2
	// header, footer and borders take six rows
	height := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	m.viewport = viewport.New(contentWidth, height)
	m.viewport.SetContent(m.content(contentWidth))
}

func (m Model) content(width int) string {
	var out []string
	for _, line := range m.lines {
		if entryLevel(line) >= m.minLevel {
			out = append(out, colorize(line, width))
		}
	}
	if len(out) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("No messages")
	}
	return strings.Join(out, "\n")
}

// entryLevel reads the level tag written by the log package. Untagged lines
// count as errors so they are never filtered out.
func entryLevel(line string) log.Level {
	switch {
	case strings.Contains(line, "[DEBUG]"):
		return log.LevelDebug
	case strings.Contains(line, "[INFO]"):
		return log.LevelInfo
	case strings.Contains(line, "[WARN]"):
		return log.LevelWarn
	default:
		return log.LevelError
	}
}

func colorize(line string, width int) string {
	if ansi.StringWidth(line) > width {
		line = ansi.Truncate(line, width-3, "...")
	}
	var style lipgloss.Style
	switch entryLevel(line) {
	case log.LevelDebug:
		style = lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	case log.LevelInfo:
		style = lipgloss.NewStyle().Foreground(styles.StatusInfoColor)
	case log.LevelWarn:
		style = lipgloss.NewStyle().Foreground(styles.StatusWarningColor)
	default:
		style = lipgloss.NewStyle().Foreground(styles.StatusErrorColor)
	}
	return style.Render(line)
}

// View renders the overlay box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.OverlayBorderColor).Render(strings.Repeat("─", width-2))
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render("Messages")

	body := strings.Join([]string{title, divider, m.viewport.View(), divider, m.filterHint()}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width - 2).
		Render(body)
}

// Overlay draws the log box centered over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(m.width, m.height, overlay.Center, m.View(), bg)
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		label string
		level log.Level
	}{
		{"[d] Debug", log.LevelDebug},
		{"[i] Info", log.LevelInfo},
		{"[w] Warn", log.LevelWarn},
		{"[e] Error", log.LevelError},
	} {
		if f.level == m.minLevel {
			parts = append(parts, active.Render(f.label))
		} else {
			parts = append(parts, hint.Render(f.label))
		}
	}
	return strings.Join(parts, "  ")
}
