package ui

import (
	"fmt"

	"seeker.klederson.com/internal/config"
)

// ChannelRow is one feedback channel in the side panel.
type ChannelRow struct {
	Channel   config.Channel
	Enabled   bool
	Proximity float64
	Fired     bool // emitted on the last tick
}

// DecoyRow is one decoy in the side panel.
type DecoyRow struct {
	ID        string
	Proximity float64
}

func renderChannelRows(rows []ChannelRow, maxW int) []string {
	lines := []string{StylePanelTitle.Render("CHANNELS")}
	barW := maxW - 22
	if barW < 4 {
		barW = 4
	}
	for _, r := range rows {
		name := truncRaw(ChannelLabel(r.Channel), 12)
		if !r.Enabled {
			lines = append(lines, StyleCheckOff.Render(fmt.Sprintf("  [ ] %s  off", name)))
			continue
		}
		fired := " "
		if r.Fired {
			fired = StyleFired.Render("*")
		}
		lines = append(lines, fmt.Sprintf("  %s %s%s %s", StyleCheckOn.Render("[x]"), StyleValue.Render(name), fired, renderMeter(r.Proximity, barW)))
	}
	return lines
}

// renderDecoyRows lists decoys in at most space lines, header included.
func renderDecoyRows(rows []DecoyRow, maxW, space int) []string {
	if space < 2 {
		return nil
	}
	barW := maxW - 16
	if barW < 4 {
		barW = 4
	}

	shown, more := len(rows), 0
	if shown > space-1 {
		shown = space - 2
		more = len(rows) - shown
	}

	lines := []string{StylePanelTitle.Render(fmt.Sprintf("DECOYS [%d]", len(rows)))}
	for i, r := range rows[:shown] {
		tag := StyleDecoy.Render(fmt.Sprintf("x%-2d", i+1))
		lines = append(lines, fmt.Sprintf("  %s %s %s", tag, StyleHelp.Render(truncRaw(r.ID, 8)), renderMeter(r.Proximity, barW)))
	}
	if more > 0 {
		lines = append(lines, StyleHelp.Render(fmt.Sprintf("  ... %d more", more)))
	}
	return lines
}
