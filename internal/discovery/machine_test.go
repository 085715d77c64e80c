package discovery

import (
	"math/rand"
	"testing"
	"time"

	"seeker.klederson.com/internal/clock"
	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/speech"
)

type recorder struct {
	sounds    int
	narrated  []string
	ticks     []int
	completes int
}

func (r *recorder) hooks() Hooks {
	return Hooks{
		FoundSound: func() { r.sounds++ },
		Narrate:    func(f string) { r.narrated = append(r.narrated, f) },
		Tick:       func(n int) { r.ticks = append(r.ticks, n) },
		Complete:   func() { r.completes++ },
	}
}

func newMachine(level int, narration bool) (*Machine, *clock.Manual, *recorder) {
	clk := clock.NewManual(time.Unix(0, 0))
	r := &recorder{}
	m := New(clk, Options{
		Level:     level,
		Facts:     []string{"Owls can rotate their heads about 270 degrees."},
		Narration: narration,
		Rand:      rand.New(rand.NewSource(1)),
	}, r.hooks())
	return m, clk, r
}

func TestCheckThreshold(t *testing.T) {
	tests := []struct {
		level    int
		distance float64
		found    bool
	}{
		{1, 5.4, true},
		{1, 16.9, true},
		{1, 17, false},
		{5, 4.9, true},
		{5, 5, false},
	}
	for _, tt := range tests {
		m, _, _ := newMachine(tt.level, false)
		if got := m.Check(tt.distance); got != tt.found {
			t.Errorf("level %d distance %v: found=%v, want %v", tt.level, tt.distance, got, tt.found)
		}
	}
}

func TestFullLifecycleWithNarration(t *testing.T) {
	m, clk, r := newMachine(1, true)

	if !m.Check(3) {
		t.Fatal("expected discovery")
	}
	if m.State() != Narrating {
		t.Fatalf("state = %v, want narrating", m.State())
	}
	if len(r.narrated) != 1 || m.Fact() == "" {
		t.Fatalf("narrated = %v", r.narrated)
	}
	if m.Check(0) || m.Confirm() {
		t.Error("discovery fired twice")
	}

	clk.Advance(config.FoundSoundDelay)
	if r.sounds != 1 {
		t.Errorf("found sound plays = %d, want 1", r.sounds)
	}

	clk.Advance(speech.EstimateDuration(m.Fact()))
	if m.State() != Counting || m.Countdown() != config.CountdownTicks {
		t.Fatalf("after narration: state=%v countdown=%d", m.State(), m.Countdown())
	}

	clk.Advance(time.Duration(config.CountdownTicks) * config.CountdownPeriod)
	if m.State() != Complete || r.completes != 1 {
		t.Fatalf("state=%v completes=%d", m.State(), r.completes)
	}
	want := []int{5, 4, 3, 2, 1, 0}
	if len(r.ticks) != len(want) {
		t.Fatalf("ticks = %v, want %v", r.ticks, want)
	}
	if clk.Pending() != 0 {
		t.Errorf("%d timers still armed after completion", clk.Pending())
	}
}

func TestNarrationDisabledCountsImmediately(t *testing.T) {
	m, _, r := newMachine(2, false)

	m.Confirm()
	if m.State() != Counting {
		t.Fatalf("state = %v, want counting", m.State())
	}
	if len(r.narrated) != 0 {
		t.Error("narration ran while disabled")
	}
}

func TestCompletionExactlyOnce(t *testing.T) {
	m, clk, r := newMachine(1, false)
	m.Confirm()

	// Run the countdown down to its last tick, then let expiry and an
	// explicit close land together.
	clk.Advance(time.Duration(config.CountdownTicks-1) * config.CountdownPeriod)
	clk.Advance(config.CountdownPeriod)
	m.Close()

	if r.completes != 1 {
		t.Errorf("completes = %d, want 1", r.completes)
	}

	m2, clk2, r2 := newMachine(1, false)
	m2.Confirm()
	clk2.Advance(time.Duration(config.CountdownTicks-1) * config.CountdownPeriod)
	m2.Close()
	clk2.Advance(config.CountdownPeriod)
	m2.Close()

	if r2.completes != 1 {
		t.Errorf("close-first completes = %d, want 1", r2.completes)
	}
}

func TestCloseDuringNarrationCancelsTimers(t *testing.T) {
	m, clk, r := newMachine(1, true)
	m.Confirm()

	if !m.Close() {
		t.Fatal("close during narration rejected")
	}
	if clk.Pending() != 0 {
		t.Errorf("%d timers armed after close", clk.Pending())
	}
	clk.Advance(time.Minute)
	if len(r.ticks) != 0 || r.completes != 1 {
		t.Errorf("ticks=%v completes=%d after close", r.ticks, r.completes)
	}
}

func TestCloseWhileSearchingIgnored(t *testing.T) {
	m, _, r := newMachine(1, false)
	if m.Close() {
		t.Error("close accepted while searching")
	}
	if r.completes != 0 {
		t.Error("completion fired while searching")
	}
}

func TestCancelLeavesNoStaleTimers(t *testing.T) {
	m, clk, r := newMachine(1, true)
	m.Confirm()
	m.Cancel()

	clk.Advance(time.Minute)
	if r.sounds != 0 || len(r.ticks) != 0 || r.completes != 0 {
		t.Errorf("stale timers fired: sounds=%d ticks=%v completes=%d", r.sounds, r.ticks, r.completes)
	}
	if m.Check(0) || m.Confirm() || m.Close() {
		t.Error("cancelled machine still reacts")
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		Searching: "searching",
		Found:     "found",
		Narrating: "narrating",
		Counting:  "counting",
		Complete:  "complete",
	}
	for s, want := range names {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}

func TestFoundIsTransient(t *testing.T) {
	for _, narration := range []bool{true, false} {
		m, _, _ := newMachine(2, narration)
		if m.Close() {
			t.Errorf("narration=%v: close while searching succeeded", narration)
		}
		m.Confirm()
		if s := m.State(); s == Found || s == Searching {
			t.Errorf("narration=%v: state after confirm = %v", narration, s)
		}
		if !m.Close() || m.State() != Complete {
			t.Errorf("narration=%v: close did not complete, state = %v", narration, m.State())
		}
	}
}
