// Package proximity converts distances into normalized feedback intensity.
package proximity

import (
	"math"

	"seeker.klederson.com/internal/config"
)

// Point is a position in arena-local logical units.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// ExpandedRadius scales a detection radius by the level's channel multiplier.
func ExpandedRadius(baseRadius float64, level int, ch config.Channel) float64 {
	return baseRadius * config.Level(level).RadiusMult[ch]
}

// Linear is the unshaped falloff: 1 at distance 0, 0 at or beyond radius.
func Linear(distance, radius float64) float64 {
	if radius <= 0 {
		if distance <= 0 {
			return 1
		}
		return 0
	}
	return Clamp01(1 - distance/radius)
}

// Shape applies the level's curve exponent for the channel. Levels 1 and 2
// are linear.
func Shape(linear float64, level int, ch config.Channel) float64 {
	return shape(config.Level(level), linear, ch)
}

func shape(lc config.LevelConfig, linear float64, ch config.Channel) float64 {
	if lc.Level <= 2 {
		return Clamp01(linear)
	}
	exp, ok := lc.Exponent[ch]
	if !ok || exp <= 0 {
		return Clamp01(linear)
	}
	return Clamp01(math.Pow(linear, exp))
}

// Proximity maps a distance to [0, 1] for an entity of baseRadius.
func Proximity(distance, baseRadius float64, level int, ch config.Channel) float64 {
	return NewMapper(level).proximity(distance, baseRadius, ch)
}

// Mapper samples proximity for one level. It holds no mutable state.
type Mapper struct {
	level int
	lc    config.LevelConfig
}

// NewMapper creates a mapper bound to a level.
func NewMapper(level int) Mapper {
	lc := config.Level(level)
	return Mapper{level: lc.Level, lc: lc}
}

// Level returns the bound level.
func (m Mapper) Level() int { return m.level }

// Sample returns the proximity of cursor to an entity on a channel.
func (m Mapper) Sample(cursor, entity Point, baseRadius float64, ch config.Channel) float64 {
	return m.proximity(Distance(cursor, entity), baseRadius, ch)
}

func (m Mapper) proximity(distance, baseRadius float64, ch config.Channel) float64 {
	return shape(m.lc, Linear(distance, baseRadius*m.lc.RadiusMult[ch]), ch)
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
