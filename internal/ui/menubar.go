package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"seeker.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width, level int, mode config.Mode, demo bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"Enter", " found"},
		{"N", "ext"},
		{"P", "rev"},
		{"D", "emo"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleStatusSearching.Render(fmt.Sprintf("LEVEL %d/%d", level, config.MaxLevel))
	if demo {
		status = StyleStatusFound.Render("DEMO") + "  " + status
	}
	modeInfo := StyleMenuLabel.Render(fmt.Sprintf("Mode: %s", mode))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + modeInfo + " "

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
