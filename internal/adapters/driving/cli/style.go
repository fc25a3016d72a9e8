package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Colour palette for terminal output.
var (
	colourTitle   = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
)

// styles renders command output, plain unless writing to a colour terminal.
type styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// stylesFor returns the styles to use when writing to w.
func stylesFor(w io.Writer) styles {
	if !colourEnabled(w) {
		plain := lipgloss.NewStyle()
		return styles{Title: plain, Muted: plain, Success: plain, Warning: plain, Error: plain}
	}
	return styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colourTitle),
		Muted:   lipgloss.NewStyle().Foreground(colourMuted),
		Success: lipgloss.NewStyle().Foreground(colourSuccess),
		Warning: lipgloss.NewStyle().Foreground(colourWarning),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(colourError),
	}
}

// colourEnabled reports whether w is a terminal and colour is allowed by
// the --no-color flag and the output.color setting.
func colourEnabled(w io.Writer) bool {
	if noColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && !settings.Output.Color {
			return false
		}
	}
	return true
}
