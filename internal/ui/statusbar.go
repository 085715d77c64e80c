package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"seeker.klederson.com/internal/platform"
)

// Status is what the bottom bar reports.
type Status struct {
	State     string
	Proximity float64
	Decoys    int
	Has       platform.Has
	Voice     string
	Wearable  string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, st Status) string {
	state := StyleStatusSearching.Render("[" + strings.ToUpper(st.State) + "]")
	if st.State != "searching" {
		state = StyleStatusFound.Render("[" + strings.ToUpper(st.State) + "]")
	}

	info := fmt.Sprintf(" Proximity: %3d%%  Decoys: %d  ", int(st.Proximity*100), st.Decoys)
	content := state + StyleStatusBar.Foreground(ColorGreen).Render(info) +
		capability("Audio", st.Has.Audio, "") + "  " +
		capability("Haptic", st.Has.Haptics, st.Wearable) + "  " +
		capability("Voice", st.Has.Speech, st.Voice)

	gap := width - 2 - lipgloss.Width(content)
	if gap < 0 {
		gap = 0
	}
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}

func capability(label string, ok bool, detail string) string {
	if !ok {
		return StyleUnavailable.Render(label + ": off")
	}
	if detail == "" {
		detail = "on"
	}
	return StyleMenuLabel.Render(label + ": " + detail)
}
