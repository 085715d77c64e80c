package haptic

import "time"

const (
	// patternUnit is the resolution of one encoded pattern byte.
	patternUnit = 10 * time.Millisecond
	// maxSegments fits a pattern in the default 20-byte ATT payload.
	maxSegments = 20
)

// Alert Level values from the Immediate Alert service.
const (
	alertOff  byte = 0x00
	alertMild byte = 0x01
	alertHigh byte = 0x02
)

// mildBelow marks on-segments short enough to use the mild alert level.
const mildBelow = 40 * time.Millisecond

// Encode packs an on/off pattern into the motor characteristic payload: one
// byte per segment in 10ms units, starting with an on segment. Segments are
// clamped to [1, 255] units and the pattern is truncated to 20 segments.
func Encode(pattern []time.Duration) []byte {
	n := len(pattern)
	if n > maxSegments {
		n = maxSegments
	}
	out := make([]byte, 0, n)
	for _, d := range pattern[:n] {
		units := (d + patternUnit/2) / patternUnit
		if units < 1 {
			units = 1
		}
		if units > 255 {
			units = 255
		}
		out = append(out, byte(units))
	}
	return out
}

// step is one Alert Level write followed by a hold.
type step struct {
	level byte
	hold  time.Duration
}

// alertPlan turns a pattern into Alert Level writes for devices without the
// pattern characteristic. The plan always ends with the motor off.
func alertPlan(pattern []time.Duration) []step {
	plan := make([]step, 0, len(pattern)+1)
	for i, d := range pattern {
		if d <= 0 {
			continue
		}
		if i%2 == 1 {
			plan = append(plan, step{level: alertOff, hold: d})
			continue
		}
		level := alertHigh
		if d < mildBelow {
			level = alertMild
		}
		plan = append(plan, step{level: level, hold: d})
	}
	if len(plan) > 0 && plan[len(plan)-1].level == alertOff {
		plan = plan[:len(plan)-1]
	}
	return append(plan, step{level: alertOff})
}
