// ABOUTME: Terminal styling for CLI output
// ABOUTME: Lipgloss styles applied only when stdout is a terminal

package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (a *App) render(style lipgloss.Style, s string) string {
	if !a.styled {
		return s
	}
	return style.Render(s)
}

// title prints a report heading.
func (a *App) title(s string) {
	a.println(a.render(titleStyle, s))
	a.println()
}

func (a *App) header(s string) {
	a.println(a.render(headerStyle, s))
}
