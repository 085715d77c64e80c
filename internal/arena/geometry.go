// Package arena draws the play field: cursor, proximity glow and rings,
// and the revealed objects once the target is found.
package arena

import (
	"math"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/decoy"
	"seeker.klederson.com/internal/proximity"
)

// AspectRatio is how many columns span the height of one row.
const AspectRatio = config.UnitsPerRow / config.UnitsPerCol

// BoundsFor returns the logical size of an arena of cols x rows cells.
func BoundsFor(cols, rows int) decoy.Bounds {
	return decoy.Bounds{W: float64(cols) * config.UnitsPerCol, H: float64(rows) * config.UnitsPerRow}
}

// CellCenter returns the logical point at the center of a cell.
func CellCenter(col, row int) proximity.Point {
	return proximity.Point{
		X: (float64(col) + 0.5) * config.UnitsPerCol,
		Y: (float64(row) + 0.5) * config.UnitsPerRow,
	}
}

// CellOf returns the cell containing a logical point.
func CellOf(p proximity.Point) (col, row int) {
	return int(math.Floor(p.X / config.UnitsPerCol)), int(math.Floor(p.Y / config.UnitsPerRow))
}

// CellDistance is the distance between two cells in column units,
// correcting for tall terminal cells.
func CellDistance(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) * AspectRatio
	return math.Sqrt(dx*dx + dy*dy)
}

// CellAngle is the angle from center to a cell in [0, 2π), 0 north,
// increasing clockwise.
func CellAngle(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) * AspectRatio
	return NormalizeAngle(math.Atan2(dx, -dy))
}

// RingChar picks the stroke for a ring passing through angle.
func RingChar(angle float64) rune {
	switch int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8 {
	case 0, 4:
		return '-'
	case 1, 5:
		return '/'
	case 2, 6:
		return '|'
	default:
		return '\\'
	}
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
