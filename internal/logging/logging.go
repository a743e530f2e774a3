// Package logging builds the structured logger shared by all gwt commands.
//
// Diagnostics always go to stderr so stdout stays reserved for primary
// output such as the path printed by `gwt add`, which callers capture with
// `cd "$(gwt add my-branch)"`.
package logging

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	green  = lipgloss.Color("#22C55E")
	amber  = lipgloss.Color("#F59E0B")
	red    = lipgloss.Color("#EF4444")
	dimmed = lipgloss.Color("#9CA3AF")
)

// New returns a logger writing to w without timestamps. Level labels read
// "Info:", "Warning:" and "Error:" like the rest of the CLI output.
// verbose lowers the level to debug.
func New(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           log.InfoLevel,
	})
	logger.SetStyles(styles())
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// Discard returns a logger that drops everything. Tests use it when log
// output is irrelevant.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.DebugLevel] = lipgloss.NewStyle().SetString("Debug:").Foreground(dimmed)
	s.Levels[log.InfoLevel] = lipgloss.NewStyle().SetString("Info:").Bold(true).Foreground(green)
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().SetString("Warning:").Bold(true).Foreground(amber)
	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().SetString("Error:").Bold(true).Foreground(red)
	return s
}

// Highlight renders s in the accent color used for branch names and paths.
func Highlight(s string) string {
	return lipgloss.NewStyle().Foreground(green).Render(s)
}
