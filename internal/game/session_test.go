package game

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"seeker.klederson.com/internal/audio"
	"seeker.klederson.com/internal/clock"
	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/decoy"
	"seeker.klederson.com/internal/discovery"
	"seeker.klederson.com/internal/platform"
	"seeker.klederson.com/internal/proximity"
	"seeker.klederson.com/internal/speech"
)

// opsAudio records audio primitive calls in order.
type opsAudio struct {
	mu     sync.Mutex
	ops    []string
	reject string // key whose next LoopStart is rejected
}

func (a *opsAudio) record(op string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ops = append(a.ops, op)
}

func (a *opsAudio) Initialize() error { a.record("init"); return nil }
func (a *opsAudio) PlayOneShot(float64, float64, time.Duration, float64) error {
	a.record("oneshot")
	return nil
}
func (a *opsAudio) LoopStart(key string) error {
	a.record("start:" + key)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.reject == key {
		a.reject = ""
		return platform.ErrPlaybackRejected
	}
	return nil
}
func (a *opsAudio) LoopSetVolume(string, float64) error { return nil }
func (a *opsAudio) LoopStop(key string) error           { a.record("stop:" + key); return nil }

func (a *opsAudio) snapshot() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.ops...)
}

func (a *opsAudio) index(op string) int {
	for i, o := range a.snapshot() {
		if o == op {
			return i
		}
	}
	return -1
}

type recordSpeech struct {
	mu     sync.Mutex
	spoken []string
}

func (r *recordSpeech) Voices() []platform.Voice { return nil }
func (r *recordSpeech) Speak(_ context.Context, text string, _ platform.Voice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
	return nil
}

func (r *recordSpeech) said(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.spoken {
		if s == text {
			return true
		}
	}
	return false
}

type harness struct {
	s         *Session
	clk       *clock.Manual
	out       *opsAudio
	voice     *recordSpeech
	ann       *speech.Announcer
	completes []int
}

func newHarness(t *testing.T, mode config.Mode, narration bool) *harness {
	t.Helper()
	h := &harness{
		clk:   clock.NewManual(time.Unix(0, 0)),
		out:   &opsAudio{},
		voice: &recordSpeech{},
	}
	h.ann = speech.NewAnnouncer(h.voice, h.clk, platform.Voice{})
	t.Cleanup(h.ann.Close)
	h.s = New(Deps{
		Clock:      h.clk,
		Audio:      audio.NewManager(h.out, audio.Synchronous()),
		Announcer:  h.ann,
		Mode:       mode,
		Narration:  narration,
		Seed:       42,
		OnComplete: func(level int) { h.completes = append(h.completes, level) },
	})
	return h
}

var arena = decoy.Bounds{W: 800, H: 600}

func TestFoundByProximity(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.s.startLevel(1, arena, proximity.Point{X: 400, Y: 300})

	if h.s.State() != discovery.Searching {
		t.Fatalf("initial state = %v", h.s.State())
	}
	h.s.Update(proximity.Point{X: 405, Y: 302}, h.clk.Now())

	if h.s.State() == discovery.Searching {
		t.Fatal("cursor within the discovery threshold did not find the target")
	}
	if !h.s.Visual().Found {
		t.Error("visual state should report found")
	}
}

func TestLevelFiveDecoys(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	target := proximity.Point{X: 400, Y: 300}
	h.s.startLevel(5, decoy.Bounds{W: 1600, H: 1200}, target)

	decoys := h.s.Decoys()
	if len(decoys) != 12 {
		t.Fatalf("decoys = %d, want 12", len(decoys))
	}
	if len(h.s.Exhausted()) != 0 {
		t.Fatalf("placement exhausted on a roomy arena: %v", h.s.Exhausted())
	}
	for i, d := range decoys {
		if dist := proximity.Distance(d.Pos, target); dist < 100 {
			t.Errorf("decoy %d is %.1f from the target, want >= 100", i, dist)
		}
	}
}

func TestDispatchBeforeDiscovery(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.s.startLevel(1, arena, proximity.Point{X: 400, Y: 300})

	h.s.Update(proximity.Point{X: 401, Y: 300}, h.clk.Now())

	start := h.out.index("start:owl-hum")
	stop := h.out.index("stop:owl-hum")
	if start < 0 {
		t.Fatal("the discovery tick never dispatched the target loop")
	}
	if stop < start {
		t.Errorf("ops = %v, want loop started by dispatch then silenced by discovery", h.out.snapshot())
	}

	// Once found, updates no longer drive feedback.
	before := len(h.out.snapshot())
	h.s.Update(proximity.Point{X: 400, Y: 300}, h.clk.Now().Add(time.Second))
	if after := len(h.out.snapshot()); after != before {
		t.Errorf("feedback after discovery: %v", h.out.snapshot()[before:])
	}
}

func TestAmbientStartsOnce(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.s.StartLevel(1, arena)
	h.s.StartLevel(2, arena)

	n := 0
	for _, op := range h.out.snapshot() {
		if op == "start:"+config.AmbientKey {
			n++
		}
	}
	if n != 1 {
		t.Errorf("ambient started %d times, want 1", n)
	}
	if h.out.index("init") < 0 {
		t.Error("audio never initialized")
	}
}

func TestAmbientRetriedAfterRejection(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.out.reject = config.AmbientKey
	h.s.startLevel(1, arena, proximity.Point{X: 400, Y: 300})
	if h.s.audio.AmbientPlaying() {
		t.Fatal("rejected ambient reported playing")
	}

	h.s.Update(proximity.Point{X: 100, Y: 100}, h.clk.Now())
	if !h.s.audio.AmbientPlaying() {
		t.Error("ambient not retried on the next tick")
	}
}

func TestCompletionCallback(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.s.StartLevel(3, arena)

	if !h.s.Confirm() {
		t.Fatal("confirm rejected")
	}
	if h.s.Confirm() {
		t.Error("second confirm accepted")
	}
	h.clk.Advance(time.Duration(config.CountdownTicks) * config.CountdownPeriod)
	h.s.Close()

	if len(h.completes) != 1 || h.completes[0] != 3 {
		t.Errorf("completes = %v, want [3]", h.completes)
	}
	if !h.s.Completed() {
		t.Error("session not completed")
	}
	if h.out.index("oneshot") < 0 {
		t.Error("found sound never played")
	}
}

func TestLevelChangeCancelsTimers(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.s.StartLevel(1, arena)
	h.s.Confirm()
	h.s.StartLevel(2, arena)

	h.clk.Advance(time.Minute)
	if len(h.completes) != 0 {
		t.Errorf("stale countdown completed the new level: %v", h.completes)
	}
	if h.s.State() != discovery.Searching {
		t.Errorf("new level state = %v", h.s.State())
	}
}

func TestTeardown(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.s.StartLevel(1, arena)
	h.s.Confirm()
	h.s.Teardown()

	if h.clk.Pending() != 0 {
		t.Errorf("%d timers armed after teardown", h.clk.Pending())
	}
	if h.out.index("stop:"+config.AmbientKey) < 0 {
		t.Error("ambient not stopped on teardown")
	}
	if h.s.Confirm() || h.s.Close() {
		t.Error("torn down session still reacts")
	}
}

func TestNarration(t *testing.T) {
	h := newHarness(t, config.ModeMulti, true)
	h.s.startLevel(1, arena, proximity.Point{X: 400, Y: 300})
	h.ann.Wait()

	if !h.voice.said("Level 1. Find the Sleeping Owl.") {
		t.Errorf("intro not spoken: %v", h.voice.spoken)
	}

	// First sample only seeds the band; moving closer crosses into warm.
	h.s.Update(proximity.Point{X: 400, Y: 0}, h.clk.Now())
	h.s.Update(proximity.Point{X: 400, Y: 150}, h.clk.Now())
	h.ann.Wait()
	if !h.voice.said("Warmer. Warm.") {
		t.Errorf("warmer hint not spoken: %v", h.voice.spoken)
	}

	h.s.Confirm()
	h.ann.Wait()
	fact := h.s.Fact()
	if fact == "" || !h.voice.said(fact) {
		t.Errorf("fact %q not narrated: %v", fact, h.voice.spoken)
	}
}

func TestVisualFirstIsSilent(t *testing.T) {
	h := newHarness(t, config.ModeVisualFirst, true)
	h.s.startLevel(1, arena, proximity.Point{X: 400, Y: 300})
	h.s.Update(proximity.Point{X: 420, Y: 300}, h.clk.Now())
	h.ann.Wait()

	if len(h.voice.spoken) != 0 {
		t.Errorf("visual-first spoke: %v", h.voice.spoken)
	}
	if h.out.index("start:owl-hum") >= 0 {
		t.Error("visual-first started the target loop")
	}
	if !h.s.Visual().Enabled {
		t.Error("visual channel disabled in visual-first mode")
	}
}

func TestResize(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.s.startLevel(4, arena, proximity.Point{X: 400, Y: 300})
	first := h.s.Decoys()

	h.s.Resize(decoy.Bounds{W: 1600, H: 1200})
	if got := h.s.Target().Pos; got != (proximity.Point{X: 800, Y: 600}) {
		t.Errorf("target after resize = %+v", got)
	}
	second := h.s.Decoys()
	if len(second) != len(first) {
		t.Fatalf("decoy count changed: %d -> %d", len(first), len(second))
	}
	if second[0].ID == first[0].ID {
		t.Error("decoys not regenerated on resize")
	}
}

func TestCursorClamped(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.s.StartLevel(1, arena)
	h.s.Update(proximity.Point{X: -50, Y: 9000}, h.clk.Now())
	if c := h.s.Cursor(); c.X != config.UnitsPerCol/2 || c.Y != arena.H-config.UnitsPerRow/2 {
		t.Errorf("cursor = %+v, want clamped to the corner cell center", c)
	}

	// The far edge stays inside the last column and row.
	h.s.Update(proximity.Point{X: arena.W, Y: arena.H}, h.clk.Now())
	c := h.s.Cursor()
	cols, rows := int(arena.W/config.UnitsPerCol), int(arena.H/config.UnitsPerRow)
	if col, row := int(math.Floor(c.X/config.UnitsPerCol)), int(math.Floor(c.Y/config.UnitsPerRow)); col != cols-1 || row != rows-1 {
		t.Errorf("cursor %+v lands in cell %d,%d of a %dx%d grid", c, col, row, cols, rows)
	}
}

func TestDecoyPanDirection(t *testing.T) {
	h := newHarness(t, config.ModeMulti, false)
	h.s.startLevel(5, decoy.Bounds{W: 1600, H: 1200}, proximity.Point{X: 400, Y: 300})
	h.s.cursor = proximity.Point{X: 800, Y: 600}

	for i, d := range h.s.samples().Decoys {
		pos := h.s.Decoys()[i].Pos
		if math.Abs(d.Pan) > 1 {
			t.Fatalf("pan %v out of range", d.Pan)
		}
		if (pos.X < 800 && d.Pan > 0) || (pos.X > 800 && d.Pan < 0) {
			t.Errorf("decoy at x=%.0f panned %v", pos.X, d.Pan)
		}
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		p    float64
		want Band
	}{
		{0, BandCold},
		{0.24, BandCold},
		{0.25, BandWarm},
		{0.5, BandHot},
		{0.8, BandBurning},
		{1, BandBurning},
	}
	for _, tt := range tests {
		if got := BandFor(tt.p); got != tt.want {
			t.Errorf("BandFor(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if !strings.HasPrefix(BandHot.Hint(false), "Colder") {
		t.Errorf("hot moving away = %q", BandHot.Hint(false))
	}
	if BandBurning.Hint(true) != "Burning hot!" {
		t.Errorf("burning hint = %q", BandBurning.Hint(true))
	}
}
