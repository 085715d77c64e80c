package decoy

import (
	"testing"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/proximity"
)

var arena = Bounds{W: 800, H: 600}

func TestGenerateCounts(t *testing.T) {
	want := map[int]int{1: 0, 2: 2, 3: 4, 4: 8, 5: 12}
	for level, n := range want {
		g := NewGenerator(int64(level))
		res := g.Generate(level, proximity.Point{X: 400, Y: 300}, arena, 80, config.RGB{R: 100, G: 100, B: 100})
		if len(res.Decoys) != n {
			t.Errorf("level %d: %d decoys, want %d", level, len(res.Decoys), n)
		}
	}
}

func TestLevelFiveSeparation(t *testing.T) {
	target := proximity.Point{X: 400, Y: 300}
	for seed := int64(0); seed < 50; seed++ {
		res := NewGenerator(seed).Generate(5, target, arena, 80, config.RGB{R: 200, G: 50, B: 50})
		if len(res.Decoys) != 12 {
			t.Fatalf("seed %d: %d decoys, want 12", seed, len(res.Decoys))
		}
		exhausted := map[int]bool{}
		for _, i := range res.Exhausted {
			exhausted[i] = true
		}
		for i, d := range res.Decoys {
			if exhausted[i] {
				continue
			}
			if dist := proximity.Distance(d.Pos, target); dist < 100 {
				t.Errorf("seed %d decoy %d only %.1f from target", seed, i, dist)
			}
		}
	}
}

func TestPlacedDecoysRespectSeparation(t *testing.T) {
	target := proximity.Point{X: 300, Y: 250}
	for level := 2; level <= 5; level++ {
		lc := config.Level(level)
		for seed := int64(0); seed < 30; seed++ {
			res := NewGenerator(seed).Generate(level, target, arena, 90, config.RGB{R: 10, G: 20, B: 30})
			exhausted := map[int]bool{}
			for _, i := range res.Exhausted {
				exhausted[i] = true
			}
			for i, d := range res.Decoys {
				if exhausted[i] {
					continue
				}
				if proximity.Distance(d.Pos, target) < lc.TargetSep {
					t.Errorf("level %d seed %d: decoy %d too close to target", level, seed, i)
				}
				for j := 0; j < i; j++ {
					if proximity.Distance(d.Pos, res.Decoys[j].Pos) < lc.DecoySep {
						t.Errorf("level %d seed %d: decoys %d and %d closer than %v", level, seed, i, j, lc.DecoySep)
					}
				}
			}
		}
	}
}

func TestExhaustedIsFlagged(t *testing.T) {
	// Arena too small to fit anything 150 units from the target.
	tiny := Bounds{W: 120, H: 120}
	res := NewGenerator(7).Generate(3, proximity.Point{X: 60, Y: 60}, tiny, 80, config.RGB{})
	if len(res.Decoys) != 4 {
		t.Fatalf("got %d decoys, want 4", len(res.Decoys))
	}
	if len(res.Exhausted) != 4 {
		t.Errorf("exhausted = %v, want all four flagged", res.Exhausted)
	}
}

func TestDecoyAttributes(t *testing.T) {
	color := config.RGB{R: 250, G: 5, B: 128}
	for level := 2; level <= 5; level++ {
		minI, maxI := config.DecoyIntensityRange(level)
		res := NewGenerator(99).Generate(level, proximity.Point{X: 400, Y: 300}, arena, 200, color)
		ids := map[string]bool{}
		for _, d := range res.Decoys {
			if d.Radius < 40 || d.Radius > 100 {
				t.Errorf("level %d radius %v outside [40,100]", level, d.Radius)
			}
			if d.Intensity < minI || d.Intensity > maxI {
				t.Errorf("level %d intensity %v outside [%v,%v]", level, d.Intensity, minI, maxI)
			}
			if ids[d.ID] || d.ID == "" {
				t.Errorf("duplicate or empty id %q", d.ID)
			}
			ids[d.ID] = true
			assertJitter(t, color.R, d.Color.R)
			assertJitter(t, color.G, d.Color.G)
			assertJitter(t, color.B, d.Color.B)
			if d.Pos.X < 0 || d.Pos.X > arena.W || d.Pos.Y < 0 || d.Pos.Y > arena.H {
				t.Errorf("decoy outside arena: %+v", d.Pos)
			}
		}
	}
}

func assertJitter(t *testing.T, base, got uint8) {
	t.Helper()
	diff := int(got) - int(base)
	if diff < 0 {
		diff = -diff
	}
	clamped := got == 0 || got == 255
	if !clamped && (diff < 30 || diff > 80) {
		t.Errorf("channel %d -> %d: jitter %d outside [30,80]", base, got, diff)
	}
}

func TestDeterministicForSeed(t *testing.T) {
	a := NewGenerator(42).Generate(4, proximity.Point{X: 400, Y: 300}, arena, 80, config.RGB{R: 1, G: 2, B: 3})
	b := NewGenerator(42).Generate(4, proximity.Point{X: 400, Y: 300}, arena, 80, config.RGB{R: 1, G: 2, B: 3})
	for i := range a.Decoys {
		if a.Decoys[i] != b.Decoys[i] {
			t.Fatalf("decoy %d differs between identical seeds", i)
		}
	}
}
