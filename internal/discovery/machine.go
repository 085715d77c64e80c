// Package discovery runs the per-level lifecycle from searching to
// completion. A Machine belongs to one event loop: its clock must deliver
// timer callbacks on that loop.
package discovery

import (
	"log/slog"
	"math/rand"

	"seeker.klederson.com/internal/clock"
	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/log"
	"seeker.klederson.com/internal/speech"
)

// State of a discovery session.
type State int

const (
	Searching State = iota
	// Found is transient: discovery passes through it to Narrating within
	// the same call, so callers never observe it.
	Found
	Narrating
	Counting
	Complete
)

func (s State) String() string {
	switch s {
	case Found:
		return "found"
	case Narrating:
		return "narrating"
	case Counting:
		return "counting"
	case Complete:
		return "complete"
	default:
		return "searching"
	}
}

// Hooks are the side effects a Machine triggers. Nil hooks are skipped.
type Hooks struct {
	FoundSound func()
	Narrate    func(fact string)
	Tick       func(remaining int)
	Complete   func()
}

// Options configure a Machine for one level.
type Options struct {
	Level     int
	Facts     []string
	Narration bool
	Rand      *rand.Rand
}

// Machine is the discovery state machine of one level.
type Machine struct {
	clk       clock.Clock
	opts      Options
	hooks     Hooks
	logger    *slog.Logger
	state     State
	countdown int
	fact      string
	narrated  bool
	completed bool
	cancelled bool

	sound     clock.Timer
	narration clock.Timer
	tick      clock.Timer
}

// New creates a Machine in Searching.
func New(clk clock.Clock, opts Options, hooks Hooks) *Machine {
	if clk == nil {
		clk = clock.Real{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Machine{
		clk:    clk,
		opts:   opts,
		hooks:  hooks,
		logger: log.With("component", "discovery", "level", opts.Level),
	}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Countdown returns the ticks left while Counting.
func (m *Machine) Countdown() int { return m.countdown }

// Fact returns the fact chosen on discovery.
func (m *Machine) Fact() string { return m.fact }

// Completed reports whether the completion signal has fired.
func (m *Machine) Completed() bool { return m.completed }

// Check leaves Searching when distance falls below the level's discovery
// threshold. It reports whether the transition happened.
func (m *Machine) Check(distance float64) bool {
	if m.state != Searching || m.cancelled {
		return false
	}
	if distance >= config.AutoDiscoveryThreshold(m.opts.Level) {
		return false
	}
	m.discover("proximity")
	return true
}

// Confirm is the explicit "found it" action.
func (m *Machine) Confirm() bool {
	if m.state != Searching || m.cancelled {
		return false
	}
	m.discover("confirm")
	return true
}

// Close completes the session early from Narrating or Counting.
func (m *Machine) Close() bool {
	if m.cancelled {
		return false
	}
	switch m.state {
	case Narrating, Counting:
		m.complete("close")
		return true
	}
	return false
}

// Cancel releases every timer without completing. Used on level change and
// teardown; the machine is inert afterwards.
func (m *Machine) Cancel() {
	m.cancelled = true
	m.stopTimers()
}

func (m *Machine) discover(via string) {
	m.state = Found
	m.logger.Info("target found", "via", via)

	m.sound = m.clk.AfterFunc(config.FoundSoundDelay, func() {
		m.sound = nil
		if m.hooks.FoundSound != nil {
			m.hooks.FoundSound()
		}
	})

	if len(m.opts.Facts) > 0 {
		m.fact = m.opts.Facts[m.opts.Rand.Intn(len(m.opts.Facts))]
	}

	m.state = Narrating
	if !m.opts.Narration || m.narrated || m.fact == "" {
		m.startCountdown()
		return
	}
	m.narrated = true
	if m.hooks.Narrate != nil {
		m.hooks.Narrate(m.fact)
	}
	m.narration = m.clk.AfterFunc(speech.EstimateDuration(m.fact), func() {
		m.narration = nil
		m.startCountdown()
	})
}

func (m *Machine) startCountdown() {
	if m.state != Narrating || m.cancelled {
		return
	}
	m.state = Counting
	m.countdown = config.CountdownTicks
	if m.hooks.Tick != nil {
		m.hooks.Tick(m.countdown)
	}
	m.scheduleTick()
}

func (m *Machine) scheduleTick() {
	m.tick = m.clk.AfterFunc(config.CountdownPeriod, func() {
		m.tick = nil
		if m.state != Counting || m.cancelled {
			return
		}
		m.countdown--
		if m.hooks.Tick != nil {
			m.hooks.Tick(m.countdown)
		}
		if m.countdown <= 0 {
			m.complete("countdown")
			return
		}
		m.scheduleTick()
	})
}

func (m *Machine) complete(via string) {
	if m.completed {
		return
	}
	m.completed = true
	m.state = Complete
	m.stopTimers()
	m.logger.Info("level complete", "via", via)
	if m.hooks.Complete != nil {
		m.hooks.Complete()
	}
}

func (m *Machine) stopTimers() {
	for _, t := range []*clock.Timer{&m.sound, &m.narration, &m.tick} {
		if *t != nil {
			(*t).Stop()
			*t = nil
		}
	}
}
