package config

import (
	"math"
	"time"
)

// Channel identifies one sensory feedback modality.
type Channel int

const (
	ChannelAudio Channel = iota
	ChannelHaptic
	ChannelDecoyAudio
	ChannelDecoyHaptic
	ChannelVisual
)

func (c Channel) String() string {
	switch c {
	case ChannelHaptic:
		return "haptic"
	case ChannelDecoyAudio:
		return "decoy-audio"
	case ChannelDecoyHaptic:
		return "decoy-haptic"
	case ChannelVisual:
		return "visual"
	default:
		return "audio-loop"
	}
}

// Gate holds the rate-limit parameters of a channel at one level.
type Gate struct {
	MinProximity float64
	MinInterval  time.Duration
}

// LevelConfig is the static per-level lookup row.
type LevelConfig struct {
	Level          int
	RadiusMult     map[Channel]float64
	Exponent       map[Channel]float64
	Gates          map[Channel]Gate
	DecoyCount     int
	TargetSep      float64
	DecoySep       float64
	RingThresholds [3]float64
}

var radiusMult = map[Channel][MaxLevel]float64{
	ChannelAudio:       {2.5, 2.1, 1.8, 1.5, 1.2},
	ChannelHaptic:      {2.2, 1.9, 1.6, 1.4, 1.1},
	ChannelDecoyAudio:  {1.6, 1.5, 1.4, 1.3, 1.2},
	ChannelDecoyHaptic: {1.4, 1.3, 1.2, 1.1, 1.0},
	ChannelVisual:      {2.5, 2.1, 1.8, 1.5, 1.2},
}

// Only consulted above level 2.
var exponents = map[Channel][MaxLevel]float64{
	ChannelAudio:       {1, 1, 2.2, 2.0, 1.8},
	ChannelHaptic:      {1, 1, 2.0, 1.8, 1.6},
	ChannelDecoyAudio:  {1, 1, 1.6, 1.5, 1.4},
	ChannelDecoyHaptic: {1, 1, 1.6, 1.5, 1.4},
	ChannelVisual:      {1, 1, 1.8, 1.6, 1.5},
}

var gates = map[Channel][MaxLevel]Gate{
	ChannelAudio: {
		{0.05, 100 * time.Millisecond},
		{0.08, 120 * time.Millisecond},
		{0.10, 150 * time.Millisecond},
		{0.12, 180 * time.Millisecond},
		{0.15, 200 * time.Millisecond},
	},
	ChannelHaptic: {
		{0.10, 300 * time.Millisecond},
		{0.15, 350 * time.Millisecond},
		{0.20, 400 * time.Millisecond},
		{0.25, 450 * time.Millisecond},
		{0.30, 500 * time.Millisecond},
	},
	ChannelDecoyAudio: {
		{DecoyActivation, 1200 * time.Millisecond},
		{DecoyActivation, 1200 * time.Millisecond},
		{DecoyActivation, 1200 * time.Millisecond},
		{DecoyActivation, 1300 * time.Millisecond},
		{DecoyActivation, 1400 * time.Millisecond},
	},
	ChannelDecoyHaptic: {
		{DecoyActivation, 1500 * time.Millisecond},
		{DecoyActivation, 1500 * time.Millisecond},
		{DecoyActivation, 1500 * time.Millisecond},
		{DecoyActivation, 1500 * time.Millisecond},
		{DecoyActivation, 1500 * time.Millisecond},
	},
}

var decoyCounts = [MaxLevel]int{0, 2, 4, 8, 12}

var baseRings = [3]float64{0.3, 0.5, 0.7}

// RingShift is how far each level raises the ring thresholds.
const RingShift = 0.04

// ClampLevel forces a level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Level returns the configuration row for a level. Out-of-range levels clamp.
func Level(level int) LevelConfig {
	level = ClampLevel(level)
	idx := level - 1

	lc := LevelConfig{
		Level:      level,
		RadiusMult: make(map[Channel]float64, len(radiusMult)),
		Exponent:   make(map[Channel]float64, len(exponents)),
		Gates:      make(map[Channel]Gate, len(gates)),
		DecoyCount: decoyCounts[idx],
		TargetSep:  DecoyTargetSepEasy,
		DecoySep:   DecoyMinSeparation,
	}
	if level > 3 {
		lc.TargetSep = DecoyTargetSepHard
	}
	for ch, row := range radiusMult {
		lc.RadiusMult[ch] = row[idx]
	}
	for ch, row := range exponents {
		lc.Exponent[ch] = row[idx]
	}
	for ch, row := range gates {
		lc.Gates[ch] = row[idx]
	}
	for i, t := range baseRings {
		lc.RingThresholds[i] = math.Min(t+float64(idx)*RingShift, 0.95)
	}
	return lc
}

// DecoyCount returns the number of decoys placed at a level.
func DecoyCount(level int) int {
	return decoyCounts[ClampLevel(level)-1]
}

// AutoDiscoveryThreshold is the distance under which the target counts as found.
func AutoDiscoveryThreshold(level int) float64 {
	return math.Max(DiscoveryFloor, DiscoveryBase-DiscoveryPerStep*float64(level))
}

// DecoyIntensityRange returns the [min, max) intensity for decoys at a level.
// Both are zero below level 2.
func DecoyIntensityRange(level int) (float64, float64) {
	if level < 2 {
		return 0, 0
	}
	n := float64(level - 2)
	return math.Min(0.2+n*0.1, 0.5), math.Min(0.4+n*0.15, 0.9)
}
