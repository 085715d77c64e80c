// Package game owns one level's feedback state and drives it from position
// updates. Every update recomputes proximity, dispatches feedback and only
// then checks for discovery.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"seeker.klederson.com/internal/audio"
	"seeker.klederson.com/internal/clock"
	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/decoy"
	"seeker.klederson.com/internal/discovery"
	"seeker.klederson.com/internal/feedback"
	"seeker.klederson.com/internal/log"
	"seeker.klederson.com/internal/platform"
	"seeker.klederson.com/internal/proximity"
	"seeker.klederson.com/internal/speech"
)

// Deps are the collaborators a Session drives.
type Deps struct {
	Clock     clock.Clock
	Audio     *audio.Manager
	Haptics   platform.Haptics
	Announcer *speech.Announcer
	Mode      config.Mode
	Narration bool
	Seed      int64
	// OnComplete runs once when a level's completion signal fires.
	OnComplete func(level int)
}

// Target is the hidden object of the current level.
type Target struct {
	Item config.Item
	Pos  proximity.Point
}

// Session is the state of the level being played.
type Session struct {
	clk        clock.Clock
	mode       config.Mode
	narration  bool
	audio      *audio.Manager
	announcer  *speech.Announcer
	dispatcher *feedback.Dispatcher
	gen        *decoy.Generator
	rng        *rand.Rand
	onComplete func(level int)
	logger     *slog.Logger

	level     int
	bounds    decoy.Bounds
	target    Target
	mapper    proximity.Mapper
	decoys    []decoy.Decoy
	exhausted []int
	machine   *discovery.Machine
	cursor    proximity.Point
	visual    feedback.Visual
	band      Band
	started   bool
}

// New creates an idle session. StartLevel begins play.
func New(deps Deps) *Session {
	if deps.Clock == nil {
		deps.Clock = clock.Real{}
	}
	if deps.Audio == nil {
		deps.Audio = audio.NewManager(nil)
	}
	if deps.Mode == "" {
		deps.Mode = config.ModeMulti
	}
	return &Session{
		clk:        deps.Clock,
		mode:       deps.Mode,
		narration:  deps.Narration && deps.Mode.Narrates(),
		audio:      deps.Audio,
		announcer:  deps.Announcer,
		dispatcher: feedback.NewDispatcher(deps.Mode, deps.Audio, deps.Haptics),
		gen:        decoy.NewGenerator(deps.Seed),
		rng:        rand.New(rand.NewSource(deps.Seed)),
		onComplete: deps.OnComplete,
		logger:     log.With("component", "game"),
		band:       BandUnknown,
	}
}

// StartLevel ends any running level and starts level inside bounds.
func (s *Session) StartLevel(level int, bounds decoy.Bounds) {
	item := config.CatalogItem(level)
	s.startLevel(level, bounds, proximity.Point{X: item.X * bounds.W, Y: item.Y * bounds.H})
}

func (s *Session) startLevel(level int, bounds decoy.Bounds, at proximity.Point) {
	if s.machine != nil {
		s.machine.Cancel()
	}
	level = config.ClampLevel(level)
	item := config.CatalogItem(level)

	s.level = level
	s.bounds = bounds
	s.mapper = proximity.NewMapper(level)
	s.target = Target{Item: item, Pos: at}
	// Start mirrored through the arena center, away from the target.
	s.cursor = s.clamp(proximity.Point{X: bounds.W - s.target.Pos.X, Y: bounds.H - s.target.Pos.Y})
	s.band = BandUnknown
	s.placeDecoys()

	s.dispatcher.Reset(level, item.AudioCue)
	s.machine = discovery.New(s.clk, discovery.Options{
		Level:     level,
		Facts:     item.Facts,
		Narration: s.narration,
		Rand:      s.rng,
	}, s.hooks())

	s.audio.Init()
	s.audio.StartAmbient()
	s.started = true

	s.logger.Info("level started", "level", level, "item", item.Name, "decoys", len(s.decoys))
	s.say(fmt.Sprintf("Level %d. Find the %s.", level, item.Name), speech.Urgent)

	s.visual = feedback.NewVisual(s.samples(), config.Level(level), s.dispatcher.Enabled(config.ChannelVisual))
}

func (s *Session) hooks() discovery.Hooks {
	item := s.target.Item
	level := s.level
	return discovery.Hooks{
		FoundSound: func() {
			s.audio.PlayOneShot(item.Tone, config.FoundToneVolume, config.FoundToneLength, 0)
		},
		Narrate: func(fact string) {
			s.say(fact, speech.Urgent)
		},
		Complete: func() {
			if s.onComplete != nil {
				s.onComplete(level)
			}
		},
	}
}

func (s *Session) placeDecoys() {
	res := s.gen.Generate(s.level, s.target.Pos, s.bounds, s.target.Item.Radius, s.target.Item.Color)
	s.decoys = res.Decoys
	s.exhausted = res.Exhausted
	if len(res.Exhausted) > 0 {
		s.logger.Warn("decoy placement ran out of attempts", "level", s.level, "indexes", res.Exhausted)
	}
}

// Resize rescales the level to new arena bounds and regenerates decoys.
func (s *Session) Resize(bounds decoy.Bounds) {
	if !s.started || bounds == s.bounds || bounds.W <= 0 || bounds.H <= 0 {
		return
	}
	sx, sy := bounds.W/s.bounds.W, bounds.H/s.bounds.H
	s.bounds = bounds
	s.target.Pos = proximity.Point{X: s.target.Pos.X * sx, Y: s.target.Pos.Y * sy}
	s.cursor = s.clamp(proximity.Point{X: s.cursor.X * sx, Y: s.cursor.Y * sy})
	s.placeDecoys()
}

// Update moves the cursor and runs one tick.
func (s *Session) Update(pos proximity.Point, now time.Time) feedback.Visual {
	if !s.started {
		return s.visual
	}
	s.cursor = s.clamp(pos)
	// No-op while the bed plays; retries after a rejected start.
	s.audio.StartAmbient()
	samples := s.samples()
	lc := config.Level(s.level)

	if s.machine.State() != discovery.Searching {
		v := feedback.NewVisual(samples, lc, s.dispatcher.Enabled(config.ChannelVisual))
		v.Found = true
		s.visual = v
		return v
	}

	s.visual = s.dispatcher.Dispatch(now, samples)
	s.hint(samples.Visual)

	if s.machine.Check(proximity.Distance(s.cursor, s.target.Pos)) {
		s.found()
	}
	return s.visual
}

// Confirm is the explicit "found it" action.
func (s *Session) Confirm() bool {
	if !s.started || !s.machine.Confirm() {
		return false
	}
	s.found()
	return true
}

// Close ends the found-object screen early.
func (s *Session) Close() bool {
	if !s.started {
		return false
	}
	return s.machine.Close()
}

func (s *Session) found() {
	s.dispatcher.Silence()
	s.visual.Found = true
}

// Teardown releases every timer, loop and utterance.
func (s *Session) Teardown() {
	if s.machine != nil {
		s.machine.Cancel()
	}
	s.dispatcher.Silence()
	s.audio.Teardown()
	if s.announcer != nil {
		s.announcer.Stop()
	}
	s.started = false
}

func (s *Session) samples() feedback.Samples {
	r := s.target.Item.Radius
	out := feedback.Samples{
		Audio:  s.mapper.Sample(s.cursor, s.target.Pos, r, config.ChannelAudio),
		Haptic: s.mapper.Sample(s.cursor, s.target.Pos, r, config.ChannelHaptic),
		Visual: s.mapper.Sample(s.cursor, s.target.Pos, r, config.ChannelVisual),
		Decoys: make([]feedback.DecoySample, 0, len(s.decoys)),
	}
	for _, d := range s.decoys {
		span := proximity.ExpandedRadius(d.Radius, s.level, config.ChannelDecoyAudio)
		out.Decoys = append(out.Decoys, feedback.DecoySample{
			ID:     d.ID,
			Audio:  d.Intensity * s.mapper.Sample(s.cursor, d.Pos, d.Radius, config.ChannelDecoyAudio),
			Haptic: d.Intensity * s.mapper.Sample(s.cursor, d.Pos, d.Radius, config.ChannelDecoyHaptic),
			Visual: d.Intensity * s.mapper.Sample(s.cursor, d.Pos, d.Radius, config.ChannelVisual),
			Pan:    math.Max(-1, math.Min(1, (d.Pos.X-s.cursor.X)/span)),
		})
	}
	return out
}

func (s *Session) hint(p float64) {
	b := BandFor(p)
	prev := s.band
	s.band = b
	if prev == BandUnknown || b == prev {
		return
	}
	s.say(b.Hint(b > prev), speech.Normal)
}

func (s *Session) say(text string, p speech.Priority) {
	if s.narration && s.announcer != nil {
		s.announcer.Speak(text, p)
	}
}

// clamp keeps the cursor between the centers of the outermost cells, so it
// always falls inside the drawn grid.
func (s *Session) clamp(p proximity.Point) proximity.Point {
	return proximity.Point{
		X: within(p.X, s.bounds.W, config.UnitsPerCol/2),
		Y: within(p.Y, s.bounds.H, config.UnitsPerRow/2),
	}
}

func within(v, size, margin float64) float64 {
	if size < 2*margin {
		return size / 2
	}
	return math.Max(margin, math.Min(size-margin, v))
}

// Level returns the level being played.
func (s *Session) Level() int { return s.level }

// Mode returns the accessibility mode.
func (s *Session) Mode() config.Mode { return s.mode }

// Bounds returns the arena size.
func (s *Session) Bounds() decoy.Bounds { return s.bounds }

// Target returns the hidden object.
func (s *Session) Target() Target { return s.target }

// Cursor returns the clamped cursor position.
func (s *Session) Cursor() proximity.Point { return s.cursor }

// Decoys returns the decoys of the level.
func (s *Session) Decoys() []decoy.Decoy { return s.decoys }

// Exhausted lists decoys placed without meeting separation.
func (s *Session) Exhausted() []int { return s.exhausted }

// Samples computes the current per-channel proximities without dispatching.
func (s *Session) Samples() feedback.Samples {
	if !s.started {
		return feedback.Samples{}
	}
	return s.samples()
}

// Enabled reports whether the mode activates ch.
func (s *Session) Enabled(ch config.Channel) bool { return s.dispatcher.Enabled(ch) }

// Band returns the proximity band of the last hint check.
func (s *Session) Band() Band { return s.band }

// Visual returns the visual state of the last tick.
func (s *Session) Visual() feedback.Visual { return s.visual }

// State returns the discovery state.
func (s *Session) State() discovery.State {
	if s.machine == nil {
		return discovery.Searching
	}
	return s.machine.State()
}

// Countdown returns the ticks left on the completion countdown.
func (s *Session) Countdown() int {
	if s.machine == nil {
		return 0
	}
	return s.machine.Countdown()
}

// Fact returns the fact chosen when the target was found.
func (s *Session) Fact() string {
	if s.machine == nil {
		return ""
	}
	return s.machine.Fact()
}

// Completed reports whether the level has completed.
func (s *Session) Completed() bool {
	return s.machine != nil && s.machine.Completed()
}
