package feedback

import (
	"math"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/proximity"
)

// Visual is the state a renderer polls each frame.
type Visual struct {
	Enabled          bool
	Proximity        float64
	Glow             float64
	Rings            [3]bool
	DecoyProximities map[string]float64
	Found            bool
	Fired            []config.Channel
}

// NewVisual derives the visual state from a tick's samples.
func NewVisual(s Samples, lc config.LevelConfig, enabled bool) Visual {
	p := proximity.Clamp01(s.Visual)
	v := Visual{
		Enabled:          enabled,
		Proximity:        p,
		Glow:             Glow(p),
		DecoyProximities: make(map[string]float64, len(s.Decoys)),
	}
	for i, t := range lc.RingThresholds {
		v.Rings[i] = p >= t
	}
	for _, d := range s.Decoys {
		v.DecoyProximities[d.ID] = proximity.Clamp01(d.Visual)
	}
	return v
}

// Glow is the continuous glow intensity for a proximity.
func Glow(p float64) float64 {
	return math.Pow(proximity.Clamp01(p), config.GlowCurve)
}

// RingCount returns how many rings are lit.
func (v Visual) RingCount() int {
	n := 0
	for _, r := range v.Rings {
		if r {
			n++
		}
	}
	return n
}

// FiredOn reports whether ch emitted on the tick that produced v.
func (v Visual) FiredOn(ch config.Channel) bool {
	for _, c := range v.Fired {
		if c == ch {
			return true
		}
	}
	return false
}
