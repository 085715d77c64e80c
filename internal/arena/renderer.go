package arena

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/feedback"
	"seeker.klederson.com/internal/proximity"
)

var (
	colorBright = lipgloss.Color("#00FF41")
	colorMid    = lipgloss.Color("#008F11")
	colorDim    = lipgloss.Color("#004A0A")

	styleCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	styleRing   = lipgloss.NewStyle().Foreground(colorMid)
	styleDot    = lipgloss.NewStyle().Foreground(colorDim)
	styleLegend = lipgloss.NewStyle().Foreground(colorMid)
)

// gridStep spaces the background dots.
const gridStep = 4

// Mark is an object drawn on the arena.
type Mark struct {
	Pos   proximity.Point
	Color config.RGB
	Glyph rune
}

// Scene is everything the renderer needs for one frame.
type Scene struct {
	Cursor proximity.Point
	Visual feedback.Visual
	Pulse  *Pulse
	// Revealed marks are drawn as-is, typically the target and decoys once
	// the target is found.
	Revealed []Mark
}

// Render produces the arena as a styled string of width x height cells.
func Render(width, height int, sc Scene) string {
	if width < 4 || height < 2 {
		return ""
	}

	cc, cr := CellOf(sc.Cursor)
	marks := make(map[int]Mark, len(sc.Revealed))
	for _, m := range sc.Revealed {
		col, row := CellOf(m.Pos)
		if col >= 0 && col < width && row >= 0 && row < height {
			marks[row*width+col] = m
		}
	}

	glow := 0.0
	if sc.Visual.Enabled {
		glow = sc.Pulse.Modulate(haloStrength(sc.Visual))
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			sb.WriteString(renderCell(col, row, cc, cr, glow, sc, marks[row*width+col]))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// haloStrength blends the target glow with the strongest decoy, which
// shows at reduced strength.
func haloStrength(v feedback.Visual) float64 {
	h := v.Glow
	for _, p := range v.DecoyProximities {
		h = math.Max(h, feedback.Glow(p)*0.6)
	}
	return h
}

func renderCell(col, row, cc, cr int, glow float64, sc Scene, m Mark) string {
	if col == cc && row == cr {
		if sc.Visual.Found {
			return styleCursor.Render("@")
		}
		return lipgloss.NewStyle().Foreground(glowColor(math.Max(glow, 0.4))).Bold(true).Render("@")
	}
	if m.Glyph != 0 {
		return lipgloss.NewStyle().Foreground(rgb(m.Color)).Bold(true).Render(string(m.Glyph))
	}

	if sc.Visual.Enabled && !sc.Visual.Found {
		dist := CellDistance(col, row, cc, cr)
		for i, lit := range sc.Visual.Rings {
			if !lit {
				continue
			}
			r := ringRadius(i)
			if math.Abs(dist-r) < 0.6 {
				return lipgloss.NewStyle().Foreground(glowColor(glow)).Render(string(RingChar(CellAngle(col, row, cc, cr))))
			}
		}
		halo := float64(config.GlowCells)
		if dist <= halo && glow > 0 {
			g := glow * (1 - dist/halo)
			if g > 0.05 {
				return lipgloss.NewStyle().Foreground(glowColor(g)).Render(shade(g))
			}
		}
	}

	if col%gridStep == 0 && row%(gridStep/2) == 0 {
		return styleDot.Render(".")
	}
	return " "
}

// ringRadius places ring i around the cursor, in columns. Ring 0 lights
// first and sits outermost.
func ringRadius(i int) float64 {
	return float64(config.GlowCells) + 3*float64(3-i)
}

func shade(g float64) string {
	switch {
	case g > 0.75:
		return "#"
	case g > 0.5:
		return "+"
	case g > 0.25:
		return ":"
	default:
		return "."
	}
}

func glowColor(g float64) lipgloss.Color {
	switch {
	case g > 0.8:
		return colorBright
	case g > 0.5:
		return lipgloss.Color("#00CC33")
	case g > 0.3:
		return lipgloss.Color("#00AA22")
	case g > 0:
		return lipgloss.Color("#005511")
	default:
		return colorDim
	}
}

func rgb(c config.RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B))
}

// RenderLegend produces the arena legend line.
func RenderLegend(width int) string {
	legend := styleCursor.Render("@ you") + "   " +
		styleRing.Render("/-\\ warmer rings") + "   " +
		styleLegend.Render("* hidden object  x decoy")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
