package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/platform"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// voice is a cached looped streamer. Stopping pauses and rewinds it; the
// streamer stays in the mixer for reuse.
type voice struct {
	gen  *cueGenerator
	ctrl *beep.Ctrl
	vol  *effects.Volume
}

// Speaker is the beep-backed audio primitive.
type Speaker struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	voices      map[string]*voice
	initialized bool
	cues        map[string]cueSpec
	initFn      func() error
}

// NewSpeaker creates a speaker with the built-in cue table.
func NewSpeaker() *Speaker {
	s := &Speaker{
		mixer:  &beep.Mixer{},
		voices: make(map[string]*voice),
		cues:   defaultCues(),
	}
	s.initFn = func() error {
		return speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100))
	}
	return s
}

// Initialize sets up the audio device. Calling it again is a no-op.
func (s *Speaker) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := s.initFn(); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrUnsupported, err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Close clears the mixer and releases the device.
func (s *Speaker) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.voices = make(map[string]*voice)
	s.initialized = false
}

// PlayOneShot plays a sine tone.
func (s *Speaker) PlayOneShot(freq, volume float64, d time.Duration, pan float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return platform.ErrPlaybackRejected
	}
	tone, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return fmt.Errorf("tone %.1fHz: %w", freq, err)
	}
	vol := &effects.Volume{Streamer: beep.Take(sampleRate.N(d), tone), Base: 2}
	setGain(vol, volume)
	panned := &effects.Pan{Streamer: vol, Pan: math.Max(-1, math.Min(1, pan))}

	speaker.Lock()
	s.mixer.Add(panned)
	speaker.Unlock()
	return nil
}

// LoopStart unpauses the cached voice for key or creates it. Either way
// the voice begins at the initial loop volume.
func (s *Speaker) LoopStart(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return platform.ErrPlaybackRejected
	}

	speaker.Lock()
	defer speaker.Unlock()

	if v, ok := s.voices[key]; ok {
		v.gen.rewind()
		setGain(v.vol, config.LoopInitialVolume)
		v.ctrl.Paused = false
		return nil
	}

	spec, ok := s.cues[key]
	if !ok {
		return platform.ErrResourceNotFound
	}
	gen := newCueGenerator(sampleRate, spec)
	vol := &effects.Volume{Streamer: gen, Base: 2}
	setGain(vol, config.LoopInitialVolume)
	ctrl := &beep.Ctrl{Streamer: vol, Paused: false}
	s.voices[key] = &voice{gen: gen, ctrl: ctrl, vol: vol}
	s.mixer.Add(ctrl)
	return nil
}

// LoopSetVolume sets the linear gain of the voice for key.
func (s *Speaker) LoopSetVolume(key string, v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voice, ok := s.voices[key]
	if !ok {
		return nil
	}
	speaker.Lock()
	setGain(voice.vol, v)
	speaker.Unlock()
	return nil
}

// LoopStop pauses the voice for key and rewinds it.
func (s *Speaker) LoopStop(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	voice, ok := s.voices[key]
	if !ok {
		return nil
	}
	speaker.Lock()
	voice.ctrl.Paused = true
	voice.gen.rewind()
	speaker.Unlock()
	return nil
}

// setGain converts a linear gain into beep's exponential volume.
func setGain(v *effects.Volume, gain float64) {
	if gain <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(gain)
}
