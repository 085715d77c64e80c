// Package decoy places false targets that emit misleading feedback.
package decoy

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/proximity"
)

// Decoy is a false target. Immutable once generated.
type Decoy struct {
	ID        string
	Pos       proximity.Point
	Radius    float64
	Intensity float64
	Color     config.RGB
}

// Bounds is the arena size in logical units.
type Bounds struct {
	W, H float64
}

// Result is the outcome of one placement run.
type Result struct {
	Decoys []Decoy
	// Exhausted lists indexes of decoys placed after the attempt budget ran
	// out. Those may violate the separation constraints.
	Exhausted []int
}

// Generator places decoys using its own random source.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate places decoys for a level around the target.
func (g *Generator) Generate(level int, target proximity.Point, bounds Bounds, targetRadius float64, targetColor config.RGB) Result {
	lc := config.Level(level)
	res := Result{Decoys: make([]Decoy, 0, lc.DecoyCount)}
	if lc.DecoyCount == 0 {
		return res
	}

	minI, maxI := config.DecoyIntensityRange(lc.Level)
	for i := 0; i < lc.DecoyCount; i++ {
		pos, ok := g.place(target, bounds, res.Decoys, lc)
		if !ok {
			res.Exhausted = append(res.Exhausted, i)
		}

		radius := targetRadius * (0.3 + g.rng.Float64()*0.4)
		radius = math.Max(config.DecoyRadiusMin, math.Min(config.DecoyRadiusMax, radius))

		res.Decoys = append(res.Decoys, Decoy{
			ID:        g.id(),
			Pos:       pos,
			Radius:    radius,
			Intensity: minI + g.rng.Float64()*(maxI-minI),
			Color:     g.perturb(targetColor),
		})
	}
	return res
}

// place rejection-samples a point. When every attempt fails it returns the
// candidate that came closest to satisfying both separations.
func (g *Generator) place(target proximity.Point, bounds Bounds, placed []Decoy, lc config.LevelConfig) (proximity.Point, bool) {
	var best proximity.Point
	bestScore := math.Inf(-1)

	for attempt := 0; attempt < config.DecoyAttempts; attempt++ {
		p := g.samplePoint(bounds)
		score := proximity.Distance(p, target) / lc.TargetSep
		for _, d := range placed {
			if s := proximity.Distance(p, d.Pos) / lc.DecoySep; s < score {
				score = s
			}
		}
		if score >= 1 {
			return p, true
		}
		if score > bestScore {
			best, bestScore = p, score
		}
	}
	return best, false
}

func (g *Generator) samplePoint(b Bounds) proximity.Point {
	pad := config.ArenaPad
	w := math.Max(b.W-2*pad, 0)
	h := math.Max(b.H-2*pad, 0)
	return proximity.Point{
		X: math.Min(pad, b.W/2) + g.rng.Float64()*w,
		Y: math.Min(pad, b.H/2) + g.rng.Float64()*h,
	}
}

func (g *Generator) perturb(c config.RGB) config.RGB {
	return config.RGB{R: g.jitter(c.R), G: g.jitter(c.G), B: g.jitter(c.B)}
}

func (g *Generator) jitter(v uint8) uint8 {
	span := config.DecoyColorJitterMax - config.DecoyColorJitterMin
	mag := config.DecoyColorJitterMin + g.rng.Intn(span+1)
	if g.rng.Intn(2) == 0 {
		mag = -mag
	}
	n := int(v) + mag
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return uint8(n)
}

func (g *Generator) id() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
