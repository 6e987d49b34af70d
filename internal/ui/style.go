package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("4")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)
	guideStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	emphasis = color.New(color.Bold, color.FgYellow)
	hint     = color.New(color.Faint)
)

// emphasize renders a note title.
func emphasize(s string) string {
	return emphasis.Sprint(s)
}

// Hint renders secondary option text.
func Hint(s string) string {
	return hint.Sprint(s)
}

// Done marks a finished status line.
func Done(message string) string {
	return color.GreenString("✔") + " " + message
}

// Failed marks a failed status line.
func Failed(message string) string {
	return color.RedString("✖") + " " + message
}

func writeIntro(w io.Writer, title string) {
	fmt.Fprintf(w, "%s  %s\n%s\n", guideStyle.Render("┌"), bannerStyle.Render(title), guideStyle.Render("│"))
}

func writeOutro(w io.Writer, message string) {
	fmt.Fprintf(w, "%s\n%s  %s\n\n", guideStyle.Render("│"), guideStyle.Render("└"), message)
}

func writeNote(w io.Writer, title, message string) {
	bar := guideStyle.Render("│")
	fmt.Fprintf(w, "%s\n%s  %s\n", bar, guideStyle.Render("◇"), emphasize(title))
	for _, line := range strings.Split(strings.TrimRight(message, "\n"), "\n") {
		fmt.Fprintf(w, "%s  %s\n", bar, line)
	}
}
