// Package feedback turns proximity samples into channel commands. Each
// channel keeps its own gate so a busy channel never throttles another.
package feedback

import (
	"log/slog"
	"math"
	"time"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/log"
	"seeker.klederson.com/internal/platform"
	"seeker.klederson.com/internal/proximity"
)

// Loops is the continuous audio surface the dispatcher drives.
type Loops interface {
	Start(key string, proximity float64)
	Stop(key string)
	Registered(key string) bool
	PlayOneShot(freq, volume float64, d time.Duration, pan float64)
}

// DecoySample is one decoy's per-channel proximity for a tick, already
// scaled by the decoy's intensity.
type DecoySample struct {
	ID     string
	Audio  float64
	Haptic float64
	Visual float64
	Pan    float64 // -1 left of the cursor, 1 right
}

// Samples are the proximity values computed for one tick.
type Samples struct {
	Audio  float64
	Haptic float64
	Visual float64
	Decoys []DecoySample
}

// ChannelState is the gate memory of one channel.
type ChannelState struct {
	Last   float64
	LastAt time.Time
	Fired  bool
}

// Dispatcher routes samples to the audio loops, the haptic primitive and
// the visual state.
type Dispatcher struct {
	level    config.LevelConfig
	cue      string
	enabled  map[config.Channel]bool
	loops    Loops
	haptics  platform.Haptics
	channels map[config.Channel]*ChannelState
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher for the channels mode enables.
func NewDispatcher(mode config.Mode, loops Loops, haptics platform.Haptics) *Dispatcher {
	if haptics == nil {
		haptics = platform.NoHaptics{}
	}
	d := &Dispatcher{
		level:   config.Level(config.MinLevel),
		enabled: mode.Channels(),
		loops:   loops,
		haptics: haptics,
		logger:  log.With("component", "feedback"),
	}
	d.clear()
	return d
}

// Reset prepares the dispatcher for a new level whose target loop is cue.
// The previous level's loop is stopped and all channel state forgotten.
func (d *Dispatcher) Reset(level int, cue string) {
	d.Silence()
	d.level = config.Level(level)
	d.cue = cue
	d.clear()
}

// Silence stops the target loop without touching channel gates.
func (d *Dispatcher) Silence() {
	if d.cue != "" && d.loops != nil && d.loops.Registered(d.cue) {
		d.loops.Stop(d.cue)
	}
}

// Enabled reports whether mode activated ch.
func (d *Dispatcher) Enabled(ch config.Channel) bool {
	return d.enabled[ch]
}

// State returns a copy of a channel's gate memory.
func (d *Dispatcher) State(ch config.Channel) ChannelState {
	if s, ok := d.channels[ch]; ok {
		return *s
	}
	return ChannelState{}
}

func (d *Dispatcher) clear() {
	d.channels = map[config.Channel]*ChannelState{
		config.ChannelAudio:       {},
		config.ChannelHaptic:      {},
		config.ChannelDecoyAudio:  {},
		config.ChannelDecoyHaptic: {},
	}
}

// Dispatch emits channel commands for one tick and returns the visual state.
func (d *Dispatcher) Dispatch(now time.Time, s Samples) Visual {
	var fired []config.Channel

	if d.enabled[config.ChannelAudio] && d.dispatchAudio(now, s.Audio) {
		fired = append(fired, config.ChannelAudio)
	}
	if d.enabled[config.ChannelHaptic] && d.dispatchHaptic(now, s.Haptic) {
		fired = append(fired, config.ChannelHaptic)
	}
	if d.enabled[config.ChannelDecoyAudio] && d.level.Level >= config.DecoyAudioMinLevel {
		if d.dispatchDecoyAudio(now, s.Decoys) {
			fired = append(fired, config.ChannelDecoyAudio)
		}
	}
	if d.enabled[config.ChannelDecoyHaptic] && d.level.Level >= config.DecoyHapticLevel {
		if d.dispatchDecoyHaptic(now, s.Decoys) {
			fired = append(fired, config.ChannelDecoyHaptic)
		}
	}

	v := NewVisual(s, d.level, d.enabled[config.ChannelVisual])
	v.Fired = fired
	return v
}

// due reports whether a channel may emit p at now.
func (d *Dispatcher) due(ch config.Channel, now time.Time, p float64, override bool) bool {
	st := d.channels[ch]
	if !st.Fired {
		return true
	}
	if override && math.Abs(p-st.Last) > config.SignificantChange {
		return true
	}
	return now.Sub(st.LastAt) >= d.level.Gates[ch].MinInterval
}

func (d *Dispatcher) mark(ch config.Channel, now time.Time, p float64) {
	st := d.channels[ch]
	st.Last = p
	st.LastAt = now
	st.Fired = true
}

func (d *Dispatcher) dispatchAudio(now time.Time, p float64) bool {
	if d.loops == nil || d.cue == "" {
		return false
	}
	ch := config.ChannelAudio
	if p < d.level.Gates[ch].MinProximity {
		if d.loops.Registered(d.cue) {
			d.loops.Stop(d.cue)
			d.mark(ch, now, 0)
			return true
		}
		return false
	}
	if !d.due(ch, now, p, true) {
		return false
	}
	d.loops.Start(d.cue, p)
	d.mark(ch, now, p)
	return true
}

func (d *Dispatcher) dispatchHaptic(now time.Time, p float64) bool {
	ch := config.ChannelHaptic
	if p < d.level.Gates[ch].MinProximity || !d.due(ch, now, p, false) {
		return false
	}
	if err := d.haptics.PulsePattern(HapticPattern(p)); err != nil {
		d.logger.Warn("haptic pulse failed", "error", err)
	}
	d.mark(ch, now, p)
	return true
}

func (d *Dispatcher) dispatchDecoyAudio(now time.Time, decoys []DecoySample) bool {
	ch := config.ChannelDecoyAudio
	best, ok := strongest(decoys, func(s DecoySample) float64 { return s.Audio })
	if !ok || best.Audio < d.level.Gates[ch].MinProximity || !d.due(ch, now, best.Audio, false) {
		return false
	}
	if d.loops != nil {
		freq := config.DecoyToneBase + best.Audio*config.DecoyToneSpan
		d.loops.PlayOneShot(freq, best.Audio*config.DecoyToneVolume, config.DecoyToneLength, best.Pan)
	}
	d.mark(ch, now, best.Audio)
	return true
}

func (d *Dispatcher) dispatchDecoyHaptic(now time.Time, decoys []DecoySample) bool {
	ch := config.ChannelDecoyHaptic
	best, ok := strongest(decoys, func(s DecoySample) float64 { return s.Haptic })
	if !ok || best.Haptic < d.level.Gates[ch].MinProximity || !d.due(ch, now, best.Haptic, false) {
		return false
	}
	if err := d.haptics.Pulse(config.HapticWeak); err != nil {
		d.logger.Warn("decoy haptic pulse failed", "error", err)
	}
	d.mark(ch, now, best.Haptic)
	return true
}

func strongest(decoys []DecoySample, by func(DecoySample) float64) (DecoySample, bool) {
	var best DecoySample
	found := false
	for _, s := range decoys {
		if !found || by(s) > by(best) {
			best = s
			found = true
		}
	}
	return best, found
}

// HapticPattern picks the vibration pattern for a proximity band: one strong
// pulse scaled by proximity^1.8 above 0.8, a short-long pair from 0.5, and a
// single weak pulse below.
func HapticPattern(p float64) []time.Duration {
	p = proximity.Clamp01(p)
	switch {
	case p <= 0:
		return nil
	case p > config.HapticStrongBand:
		span := float64(config.HapticStrongMax - config.HapticStrongBase)
		d := config.HapticStrongBase + time.Duration(span*math.Pow(p, config.HapticCurve))
		if d > config.HapticStrongMax {
			d = config.HapticStrongMax
		}
		return []time.Duration{d}
	case p >= config.HapticMediumBand:
		return []time.Duration{config.HapticMediumFirst, config.HapticMediumGap, config.HapticMediumSecond}
	default:
		return []time.Duration{config.HapticWeak}
	}
}
