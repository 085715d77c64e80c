package app

import (
	"math"
	"math/rand"
	"time"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/proximity"
)

// Pilot steers the cursor in demo mode. It heads for the target with a
// noisy heading so the approach sweeps through the feedback bands.
type Pilot struct {
	rng  *rand.Rand
	wake time.Time
}

// NewPilot creates a pilot with its own random source.
func NewPilot(seed int64) *Pilot {
	return &Pilot{rng: rand.New(rand.NewSource(seed))}
}

// Rest keeps the pilot idle until now+DemoPause.
func (p *Pilot) Rest(now time.Time) {
	p.wake = now.Add(config.DemoPause)
}

// Step returns the next cursor position. Within one stride of the target it
// lands on it.
func (p *Pilot) Step(now time.Time, from, target proximity.Point) proximity.Point {
	if now.Before(p.wake) {
		return from
	}
	dist := proximity.Distance(from, target)
	if dist <= config.DemoStride {
		return target
	}
	heading := math.Atan2(target.Y-from.Y, target.X-from.X) + config.DemoWobble*(2*p.rng.Float64()-1)
	return proximity.Point{
		X: from.X + config.DemoStride*math.Cos(heading),
		Y: from.Y + config.DemoStride*math.Sin(heading),
	}
}
