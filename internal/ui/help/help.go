// Package help renders the ":help" overlay.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/modal/internal/keys"
	"github.com/zjrosen/modal/internal/log"
	"github.com/zjrosen/modal/internal/ui/overlay"
	"github.com/zjrosen/modal/internal/ui/styles"
)

const (
	boxMaxWidth = 90
	boxMinWidth = 30
	// chrome is the rows taken by the border, title and footer.
	chrome = 4
)

// noMarginStyle removes glamour's document margins so the box controls
// spacing.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	}
}`

// CloseMsg is sent when the overlay closes.
type CloseMsg struct{}

// Model is the help overlay.
type Model struct {
	visible  bool
	width    int
	height   int
	style    string
	viewport viewport.Model
}

// New creates a hidden help overlay. style is a glamour style name ("dark",
// "light", "notty"); empty selects "dark".
func New(style string) Model {
	if style == "" {
		style = "dark"
	}
	return Model{style: style}
}

// Visible reports whether the overlay is shown.
func (m Model) Visible() bool {
	return m.visible
}

// Show makes the overlay visible.
func (m *Model) Show() {
	m.visible = true
	m.refresh()
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

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	contentWidth := m.boxWidth() - 2
	m.viewport = viewport.New(contentWidth, max(m.height-chrome-2, 3))
	m.viewport.SetContent(Render(Reference, contentWidth, m.style))
}

// Render converts markdown to styled terminal text wrapped at width. If
// glamour fails the markdown is returned as is.
func Render(markdown string, width int, style string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to create markdown renderer", err)
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to render markdown", err)
		return markdown
	}
	return strings.Trim(out, "\n")
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
	case key.Matches(km, keys.Overlay.ScrollUp):
		m.viewport.ScrollUp(1)
	case key.Matches(km, keys.Overlay.PageDown):
		m.viewport.HalfPageDown()
	case key.Matches(km, keys.Overlay.PageUp):
		m.viewport.HalfPageUp()
	case key.Matches(km, keys.Overlay.Top):
		m.viewport.GotoTop()
	case key.Matches(km, keys.Overlay.Bottom):
		m.viewport.GotoBottom()
	}
	return m, nil
}

// View renders the overlay box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	width := m.boxWidth()
	title := lipgloss.NewStyle().Bold(true).Foreground(styles.OverlayTitleColor).PaddingLeft(1).Render("Help")
	footer := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render(footerHint())

	body := strings.Join([]string{title, m.viewport.View(), footer}, "\n")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(width - 2).
		Render(body)
}

// Overlay draws the help box centered over bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(m.width, m.height, overlay.Center, m.View(), bg)
}

func footerHint() string {
	bindings := keys.Overlay.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, "["+b.Help().Key+"] "+b.Help().Desc)
	}
	return strings.Join(parts, "  ")
}
