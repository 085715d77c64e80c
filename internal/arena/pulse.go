package arena

import (
	"math"
	"time"

	"seeker.klederson.com/internal/config"
)

// Pulse is the breathing cycle that animates the glow.
type Pulse struct {
	Phase     float64 // [0, 1)
	StartTime time.Time
}

// NewPulse starts a pulse at now.
func NewPulse(now time.Time) *Pulse {
	return &Pulse{StartTime: now}
}

// Update advances the phase to now.
func (p *Pulse) Update(now time.Time) {
	elapsed := now.Sub(p.StartTime).Seconds()
	p.Phase = math.Mod(elapsed/config.PulsePeriod.Seconds(), 1)
}

// Level is the pulse brightness in [0, 1].
func (p *Pulse) Level() float64 {
	return 0.5 + 0.5*math.Sin(2*math.Pi*p.Phase)
}

// Modulate dims glow by up to 30% over the cycle. A nil pulse leaves glow
// untouched.
func (p *Pulse) Modulate(glow float64) float64 {
	if p == nil {
		return glow
	}
	return glow * (0.7 + 0.3*p.Level())
}
