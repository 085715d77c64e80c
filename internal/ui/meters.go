package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"seeker.klederson.com/internal/config"
)

// Panel is the content of the side panel.
type Panel struct {
	Level    int
	Item     string
	Band     string
	Channels []ChannelRow
	Decoys   []DecoyRow
	History  []float64 // visual proximity, oldest first
	Peak     float64   // best proximity this level
}

// RenderSidePanel renders meters, the proximity history and the channel
// list stacked in one bordered panel.
func RenderSidePanel(p Panel, width, height int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 4 {
		innerH = 4
	}

	title := StylePanelTitle.Render(fmt.Sprintf("LEVEL %d", p.Level))
	lines := []string{title, StyleSeparator.Render(strings.Repeat("-", innerW))}

	lines = append(lines,
		StyleLabel.Render("  Find   ")+StyleValue.Render(truncRaw(p.Item, innerW-9)),
		StyleLabel.Render("  Hint   ")+StyleValue.Render(p.Band),
		StyleLabel.Render("  Best   ")+StyleValue.Render(fmt.Sprintf("%d%%", int(p.Peak*100))),
		"",
	)

	if len(p.History) > 0 {
		sparkW := innerW - 4
		if sparkW < 10 {
			sparkW = 10
		}
		lines = append(lines, StyleLabel.Render("  History:"))
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(renderSparkline(p.History, sparkW)))
		lines = append(lines, "")
	}

	lines = append(lines, renderChannelRows(p.Channels, innerW)...)
	if len(p.Decoys) > 0 {
		lines = append(lines, "")
		space := innerH - len(lines) - 1
		lines = append(lines, renderDecoyRows(p.Decoys, innerW, space)...)
	}

	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(strings.Join(lines, "\n"))
}

// renderMeter draws a proximity in [0, 1] as a bracketed bar.
func renderMeter(p float64, width int) string {
	p = math.Max(0, math.Min(1, p))
	filled := int(math.Round(p * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(meterColor(p)).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func meterColor(p float64) lipgloss.Color {
	switch {
	case p >= 0.8:
		return ColorMatrixGreen
	case p >= 0.5:
		return ColorGreen
	case p >= 0.25:
		return ColorMidGreen
	default:
		return ColorDimGreen
	}
}

var sparkChars = []byte{'_', '.', '-', '~', '^'}

// renderSparkline draws the last width values on a fixed [0, 1] scale.
func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for _, v := range values[start:] {
		idx := int(math.Round(math.Max(0, math.Min(1, v)) * float64(len(sparkChars)-1)))
		sb.WriteByte(sparkChars[idx])
	}
	return sb.String()
}

// truncRaw pads or truncates a raw string to exactly w characters.
func truncRaw(s string, w int) string {
	if w < 0 {
		w = 0
	}
	if len(s) > w {
		return s[:w]
	}
	if len(s) < w {
		return s + strings.Repeat(" ", w-len(s))
	}
	return s
}

// ChannelLabel names a channel for display.
func ChannelLabel(ch config.Channel) string {
	switch ch {
	case config.ChannelAudio:
		return "Audio"
	case config.ChannelHaptic:
		return "Haptic"
	case config.ChannelDecoyAudio:
		return "Decoy audio"
	case config.ChannelDecoyHaptic:
		return "Decoy haptic"
	default:
		return "Visual"
	}
}
