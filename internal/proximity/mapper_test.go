package proximity

import (
	"math"
	"testing"

	"seeker.klederson.com/internal/config"
)

var allChannels = []config.Channel{
	config.ChannelAudio, config.ChannelHaptic, config.ChannelDecoyAudio,
	config.ChannelDecoyHaptic, config.ChannelVisual,
}

func TestProximityEndpoints(t *testing.T) {
	const base = 80.0
	for level := 1; level <= 5; level++ {
		for _, ch := range allChannels {
			m := NewMapper(level)
			entity := Point{0, 0}

			if got := m.Sample(entity, entity, base, ch); got != 1 {
				t.Errorf("level %d %s: distance 0 = %v, want 1", level, ch, got)
			}

			r := ExpandedRadius(base, level, ch)
			for _, d := range []float64{r, r + 0.001, r * 2, 1e6} {
				cursor := Point{entity.X + d, entity.Y}
				if got := m.Sample(cursor, entity, base, ch); got != 0 {
					t.Errorf("level %d %s: distance %.2f >= radius %.2f gave %v", level, ch, d, r, got)
				}
			}
		}
	}
}

func TestProximityNonIncreasing(t *testing.T) {
	const base = 60.0
	for level := 1; level <= 5; level++ {
		for _, ch := range allChannels {
			prev := 2.0
			r := ExpandedRadius(base, level, ch)
			for d := 0.0; d <= r*1.2; d += r / 97 {
				p := Proximity(d, base, level, ch)
				if p < 0 || p > 1 {
					t.Fatalf("level %d %s: proximity(%v) = %v outside [0,1]", level, ch, d, p)
				}
				if p > prev {
					t.Fatalf("level %d %s: proximity increased at d=%v (%v > %v)", level, ch, d, p, prev)
				}
				prev = p
			}
		}
	}
}

func TestShapeOnlyAboveLevelTwo(t *testing.T) {
	const lin = 0.5
	for _, level := range []int{1, 2} {
		if got := Shape(lin, level, config.ChannelAudio); got != lin {
			t.Errorf("level %d shaped %v to %v", level, lin, got)
		}
	}
	for _, level := range []int{3, 4, 5} {
		got := Shape(lin, level, config.ChannelAudio)
		want := math.Pow(lin, config.Level(level).Exponent[config.ChannelAudio])
		if math.Abs(got-want) > 1e-12 {
			t.Errorf("level %d shaped %v to %v, want %v", level, lin, got, want)
		}
		if got >= lin {
			t.Errorf("level %d should flatten mid-range feedback, got %v", level, got)
		}
	}
}

func TestMapperMatchesProximity(t *testing.T) {
	m := NewMapper(4)
	cursor := Point{100, 100}
	entity := Point{160, 180}
	d := Distance(cursor, entity)
	if d != 100 {
		t.Fatalf("distance = %v, want 100", d)
	}
	for _, ch := range allChannels {
		a := m.Sample(cursor, entity, 90, ch)
		b := Proximity(d, 90, 4, ch)
		if math.Abs(a-b) > 1e-12 {
			t.Errorf("%s: Sample %v != Proximity %v", ch, a, b)
		}
	}

	for level := config.MinLevel; level <= config.MaxLevel; level++ {
		m := NewMapper(level)
		for _, ch := range allChannels {
			want := Shape(Linear(d, ExpandedRadius(90, level, ch)), level, ch)
			if got := m.Sample(cursor, entity, 90, ch); got != want {
				t.Errorf("level %d %s: Sample %v, want %v", level, ch, got, want)
			}
		}
	}
}

func TestLinearZeroRadius(t *testing.T) {
	if Linear(0, 0) != 1 {
		t.Error("zero radius at zero distance should be 1")
	}
	if Linear(1, 0) != 0 {
		t.Error("zero radius beyond zero distance should be 0")
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-1, 0}, {0, 0}, {0.4, 0.4}, {1, 1}, {3, 1}, {math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
