package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Emerald
	colorMuted   = lipgloss.Color("#6B7280") // Gray
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// palette renders labels, in color only when output.color is on.
type palette struct {
	color bool
}

func styles() palette {
	return palette{color: cfg.Output.Color}
}

func (p palette) render(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p palette) errorLabel(text string) string   { return p.render(errorStyle, text) }
func (p palette) successLabel(text string) string { return p.render(successStyle, text) }
func (p palette) muted(text string) string        { return p.render(mutedStyle, text) }
