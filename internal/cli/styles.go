package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/ix-ath/shelf-sense/internal/delivery/view"
	"github.com/ix-ath/shelf-sense/internal/domain"
)

var (
	colorExact      = lipgloss.Color("#10B981")
	colorSubstitute = lipgloss.Color("#F59E0B")
	colorAlert      = lipgloss.Color("#EF4444")
	colorSupplement = lipgloss.Color("#3B82F6")
	colorMuted      = lipgloss.Color("#6B7280")

	themeColors = map[string]lipgloss.Color{
		"violet": lipgloss.Color("#8B5CF6"),
		"pink":   lipgloss.Color("#EC4899"),
		"blue":   lipgloss.Color("#3B82F6"),
	}

	headingStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorExact)
	verifiedStyle = lipgloss.NewStyle().Foreground(colorExact)
	rejectedStyle = lipgloss.NewStyle().Foreground(colorAlert)
)

func toneColor(t view.Tone) lipgloss.Color {
	switch t {
	case view.ToneExact:
		return colorExact
	case view.ToneAlert:
		return colorAlert
	case view.ToneSupplement:
		return colorSupplement
	default:
		return colorSubstitute
	}
}

func badgeStyle(t view.Tone) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(toneColor(t))
}

func themeStyle(t domain.ThemeConfig) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(themeColors[t.Primary])
}

func cardStyle(t domain.ThemeConfig) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(themeColors[t.Primary]).
		Padding(0, 1)
}
