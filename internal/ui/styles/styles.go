// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#1F1F1F", Dark: "#CCCCCC"}
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"}
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"}

	// Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#D4A017", Dark: "#FECA57"}
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	StatusInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}

	// Overlay
	OverlayTitleColor  = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#C9C9C9"}
	OverlayBorderColor = lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#8C8C8C"}

	// Mode badges (Catppuccin Mocha)
	ModeNormalColor  = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // blue
	ModeInsertColor  = lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"} // green
	ModeCommandColor = lipgloss.AdaptiveColor{Light: "#FE640B", Dark: "#FAB387"} // peach
	ModeBadgeText    = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

	StatusBarBgColor = lipgloss.AdaptiveColor{Light: "#E6E9EF", Dark: "#313244"}

	modeBadgeStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(ModeBadgeText)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondaryColor).
			Background(StatusBarBgColor)

	LineNumberStyle       = lipgloss.NewStyle().Foreground(TextMutedColor)
	CursorLineNumberStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)
	TildeStyle            = lipgloss.NewStyle().Foreground(TextMutedColor)
	CursorStyle           = lipgloss.NewStyle().Reverse(true)

	MessageStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	ErrorStyle   = lipgloss.NewStyle().Foreground(StatusErrorColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(StatusWarningColor)
	PendingStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	DirtyStyle   = lipgloss.NewStyle().Foreground(StatusWarningColor).Bold(true)
)

// ModeBadge renders the status bar badge for a mode name.
func ModeBadge(mode string) string {
	color := ModeNormalColor
	switch mode {
	case "INSERT":
		color = ModeInsertColor
	case "COMMAND":
		color = ModeCommandColor
	}
	return modeBadgeStyle.Background(color).Render(mode)
}
