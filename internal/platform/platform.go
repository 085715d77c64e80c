// Package platform declares the host capabilities the feedback engine drives.
// A capability missing at startup is replaced by a no-op so every consumer
// degrades by construction.
package platform

import (
	"context"
	"time"
)

// Audio is the audio primitive surface.
type Audio interface {
	Initialize() error
	// PlayOneShot plays a short tone. pan is in [-1, 1], 0 is centered.
	PlayOneShot(freq, volume float64, d time.Duration, pan float64) error
	// LoopStart begins a looped sound and returns once playback has started
	// or failed. It may block.
	LoopStart(key string) error
	LoopSetVolume(key string, v float64) error
	LoopStop(key string) error
}

// Haptics is the vibration primitive. A pattern alternates on and off
// durations, starting with on.
type Haptics interface {
	Pulse(d time.Duration) error
	PulsePattern(pattern []time.Duration) error
}

// Voice describes a speech voice offered by the host.
type Voice struct {
	Name     string
	Language string // BCP 47 tag, e.g. "en-US"
	Provider string
	Gender   string
	Default  bool
}

// Speech is the speech primitive.
type Speech interface {
	Voices() []Voice
	// Speak blocks until the utterance finishes, fails, or ctx is cancelled.
	Speak(ctx context.Context, text string, voice Voice) error
}

// Capabilities is the set of channels available on this host.
// Fields left nil are reported unavailable and replaced by no-ops.
type Capabilities struct {
	Audio   Audio
	Haptics Haptics
	Speech  Speech
}

// Has reports which capabilities were present before normalization.
type Has struct {
	Audio   bool
	Haptics bool
	Speech  bool
}

// Normalize fills missing capabilities with no-ops.
func (c Capabilities) Normalize() (Capabilities, Has) {
	has := Has{Audio: c.Audio != nil, Haptics: c.Haptics != nil, Speech: c.Speech != nil}
	if c.Audio == nil {
		c.Audio = NoAudio{}
	}
	if c.Haptics == nil {
		c.Haptics = NoHaptics{}
	}
	if c.Speech == nil {
		c.Speech = NoSpeech{}
	}
	return c, has
}

// NoAudio is the silent audio channel.
type NoAudio struct{}

func (NoAudio) Initialize() error                                          { return nil }
func (NoAudio) PlayOneShot(float64, float64, time.Duration, float64) error { return nil }
func (NoAudio) LoopStart(string) error                                     { return nil }
func (NoAudio) LoopSetVolume(string, float64) error                        { return nil }
func (NoAudio) LoopStop(string) error                                      { return nil }

// NoHaptics is the still haptic channel.
type NoHaptics struct{}

func (NoHaptics) Pulse(time.Duration) error          { return nil }
func (NoHaptics) PulsePattern([]time.Duration) error { return nil }

// NoSpeech is the mute speech channel.
type NoSpeech struct{}

func (NoSpeech) Voices() []Voice                            { return nil }
func (NoSpeech) Speak(context.Context, string, Voice) error { return nil }
