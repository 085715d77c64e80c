package config

import (
	"testing"
)

func TestDecoyCount(t *testing.T) {
	want := map[int]int{1: 0, 2: 2, 3: 4, 4: 8, 5: 12}
	for level, n := range want {
		if got := DecoyCount(level); got != n {
			t.Errorf("DecoyCount(%d) = %d, want %d", level, got, n)
		}
		if got := Level(level).DecoyCount; got != n {
			t.Errorf("Level(%d).DecoyCount = %d, want %d", level, got, n)
		}
	}
}

func TestRadiusMultiplierDecreases(t *testing.T) {
	for _, ch := range []Channel{ChannelAudio, ChannelHaptic, ChannelDecoyAudio, ChannelDecoyHaptic, ChannelVisual} {
		prev := Level(1).RadiusMult[ch]
		for level := 2; level <= MaxLevel; level++ {
			cur := Level(level).RadiusMult[ch]
			if cur >= prev {
				t.Errorf("%s: multiplier level %d = %.2f, not below level %d = %.2f", ch, level, cur, level-1, prev)
			}
			prev = cur
		}
	}
}

func TestTargetSeparation(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 150}, {2, 150}, {3, 150}, {4, 100}, {5, 100},
	}
	for _, tt := range tests {
		if got := Level(tt.level).TargetSep; got != tt.want {
			t.Errorf("TargetSep(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestAutoDiscoveryThreshold(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{1, 17}, {2, 14}, {3, 11}, {4, 8}, {5, 5}, {9, 5},
	}
	for _, tt := range tests {
		if got := AutoDiscoveryThreshold(tt.level); got != tt.want {
			t.Errorf("AutoDiscoveryThreshold(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestDecoyIntensityRange(t *testing.T) {
	if lo, hi := DecoyIntensityRange(1); lo != 0 || hi != 0 {
		t.Errorf("level 1 range = [%v,%v], want zero", lo, hi)
	}
	lo, hi := DecoyIntensityRange(5)
	if lo != 0.5 {
		t.Errorf("level 5 min = %v, want 0.5", lo)
	}
	if hi < 0.849 || hi > 0.851 {
		t.Errorf("level 5 max = %v, want 0.85", hi)
	}
}

func TestRingThresholdsShiftUp(t *testing.T) {
	one := Level(1).RingThresholds
	five := Level(5).RingThresholds
	if one != [3]float64{0.3, 0.5, 0.7} {
		t.Errorf("level 1 rings = %v", one)
	}
	for i := range five {
		if five[i] <= one[i] {
			t.Errorf("ring %d not shifted: %v <= %v", i, five[i], one[i])
		}
	}
}

func TestLevelClamps(t *testing.T) {
	if got := Level(0).Level; got != 1 {
		t.Errorf("Level(0) = %d, want 1", got)
	}
	if got := Level(42).Level; got != 5 {
		t.Errorf("Level(42) = %d, want 5", got)
	}
}

func TestModeChannels(t *testing.T) {
	if Mode(ModeVisualFirst).Channels()[ChannelAudio] {
		t.Error("visual-first should not enable the audio loop")
	}
	if Mode(ModeAudioFirst).Channels()[ChannelVisual] {
		t.Error("audio-first should not enable the visual channel")
	}
	if !ModeMulti.Channels()[ChannelDecoyHaptic] {
		t.Error("multi-sensory should enable every channel")
	}
	if ModeVisualFirst.Narrates() {
		t.Error("visual-first should not narrate")
	}
}

func TestSettings(t *testing.T) {
	t.Setenv("SEEKER_MODE", "audio-first")
	t.Setenv("SEEKER_LEVEL", "3")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.Mode != "audio-first" || s.Level != 3 {
		t.Errorf("got mode=%q level=%d", s.Mode, s.Level)
	}
	if !s.Narration {
		t.Error("narration should default to true")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	s.Level = 6
	if err := s.Validate(); err == nil {
		t.Error("expected level 6 to be rejected")
	}
	s.Level = 1
	s.Mode = "loud"
	if err := s.Validate(); err == nil {
		t.Error("expected unknown mode to be rejected")
	}
}

func TestCatalogItem(t *testing.T) {
	for level := MinLevel; level <= MaxLevel; level++ {
		it := CatalogItem(level)
		if it.Name == "" || it.AudioCue == "" || len(it.Facts) == 0 {
			t.Errorf("level %d catalog item incomplete: %+v", level, it)
		}
		if it.X <= 0 || it.X >= 1 || it.Y <= 0 || it.Y >= 1 {
			t.Errorf("level %d position not fractional: %v,%v", level, it.X, it.Y)
		}
	}
}
