package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"seeker.klederson.com/internal/config"
)

type cueKind int

const (
	cueHum cueKind = iota
	cueWash
	cueTick
	cueBuzz
	cueShimmer
	cueDrone
)

type cueSpec struct {
	kind  cueKind
	freq  float64
	cycle time.Duration
}

func defaultCues() map[string]cueSpec {
	return map[string]cueSpec{
		"owl-hum":         {cueHum, 196, 2 * time.Second},
		"shell-wash":      {cueWash, 140, 3 * time.Second},
		"compass-tick":    {cueTick, 1200, 500 * time.Millisecond},
		"firefly-buzz":    {cueBuzz, 240, time.Second},
		"coin-shimmer":    {cueShimmer, 880, 1500 * time.Millisecond},
		config.AmbientKey: {cueDrone, 55, 8 * time.Second},
	}
}

// cueGenerator synthesizes one looped cue procedurally.
type cueGenerator struct {
	sr      beep.SampleRate
	spec    cueSpec
	pos     int
	samples int
	seed    uint32
}

func newCueGenerator(sr beep.SampleRate, spec cueSpec) *cueGenerator {
	return &cueGenerator{
		sr:      sr,
		spec:    spec,
		samples: sr.N(spec.cycle),
		seed:    0x9E3779B9,
	}
}

func (g *cueGenerator) rewind() {
	g.pos = 0
	g.seed = 0x9E3779B9
}

func (g *cueGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		s := g.sample()
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *cueGenerator) Err() error {
	return nil
}

func (g *cueGenerator) sample() float64 {
	t := float64(g.pos) / float64(g.sr)
	cyclePos := float64(g.pos%g.samples) / float64(g.samples)
	f := g.spec.freq

	switch g.spec.kind {
	case cueHum:
		// Slow vibrato around the base pitch
		freq := f * (1 + 0.02*math.Sin(2*math.Pi*cyclePos))
		return 0.3 * math.Sin(2*math.Pi*freq*t)

	case cueWash:
		// Noise swelling in and out like surf
		env := 0.5 - 0.5*math.Cos(2*math.Pi*cyclePos)
		return env * (0.2*g.noise() + 0.1*math.Sin(2*math.Pi*f*t))

	case cueTick:
		// Short decaying click at the start of each cycle
		local := float64(g.pos%g.samples) / float64(g.sr)
		env := math.Exp(-local * 120)
		return 0.4 * env * math.Sin(2*math.Pi*f*local)

	case cueBuzz:
		// Odd harmonics with a wing-beat tremolo
		trem := 0.6 + 0.4*math.Sin(2*math.Pi*cyclePos*12)
		s := 0.3*math.Sin(2*math.Pi*f*t) + 0.1*math.Sin(2*math.Pi*f*3*t) + 0.06*math.Sin(2*math.Pi*f*5*t)
		return 0.5 * trem * s

	case cueShimmer:
		// Two detuned partials beating against each other
		s := math.Sin(2*math.Pi*f*t) + math.Sin(2*math.Pi*(f+3)*t)
		return 0.15 * s * (0.7 + 0.3*math.Sin(2*math.Pi*cyclePos))

	default:
		// Low drone with a slow swell
		env := 0.6 + 0.4*math.Sin(2*math.Pi*cyclePos)
		return 0.2 * env * (math.Sin(2*math.Pi*f*t) + 0.5*math.Sin(2*math.Pi*f*1.5*t))
	}
}

// noise is a xorshift PRNG mapped to [-1, 1].
func (g *cueGenerator) noise() float64 {
	g.seed ^= g.seed << 13
	g.seed ^= g.seed >> 17
	g.seed ^= g.seed << 5
	return float64(g.seed)/float64(math.MaxUint32)*2 - 1
}
