package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Found is the content of the found-object overlay.
type Found struct {
	Item      string
	Fact      string
	State     string
	Countdown int
}

// RenderFoundPanel renders the found-object panel that replaces the side
// panel while the level winds down.
func RenderFoundPanel(f Found, width, height int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	title := StylePanelTitle.Render("FOUND!")
	escHint := StyleHelp.Render("[ESC] close")
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(escHint))) + escHint

	lines := []string{titleLine, StyleSeparator.Render(strings.Repeat("-", innerW)), ""}
	for _, l := range wrap("You found the "+f.Item+".", innerW) {
		lines = append(lines, center(StyleValue.Render(l), innerW))
	}
	lines = append(lines, "")

	if f.Fact != "" {
		for _, l := range wrap(f.Fact, innerW-4) {
			lines = append(lines, center(StyleFact.Render(l), innerW))
		}
		lines = append(lines, "")
	}

	switch f.State {
	case "narrating":
		lines = append(lines, center(StyleHelp.Render("listening..."), innerW))
	case "counting":
		lines = append(lines, center(StyleCountdown.Render(fmt.Sprintf("Next level in %d", f.Countdown)), innerW))
	case "complete":
		lines = append(lines, center(StyleCountdown.Render("Level complete"), innerW))
	}

	for len(lines) < height-2 {
		lines = append(lines, "")
	}
	return StylePanelActive.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

// wrap breaks text into lines of at most width characters on word
// boundaries.
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	line := ""
	for _, w := range strings.Fields(text) {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) <= width:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
