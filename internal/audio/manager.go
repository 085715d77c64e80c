// Package audio owns continuous (looped) sound: one handle per sound key,
// proximity-driven volume, and an ambient bed that lives for the session.
package audio

import (
	"errors"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/log"
	"seeker.klederson.com/internal/platform"
)

type loopState int

const (
	loopStarting loopState = iota
	loopPlaying
)

type loop struct {
	gen       uint64
	state     loopState
	volume    float64 // last applied
	proximity float64 // latest requested
	ambient   bool
}

// Manager is the registry of loop handles keyed by sound identifier.
// At most one handle per key is active at any time.
type Manager struct {
	mu          sync.Mutex
	out         platform.Audio
	logger      *slog.Logger
	initialized bool
	supported   bool
	async       bool
	gen         uint64
	loops       map[string]*loop
	ambient     *loop
	failed      map[string]bool
	wg          sync.WaitGroup
}

// Option configures a Manager.
type Option func(*Manager)

// Synchronous makes Start wait for playback to begin. Used in tests and
// by callers whose backend never blocks.
func Synchronous() Option {
	return func(m *Manager) { m.async = false }
}

// NewManager creates a manager over an audio primitive. A nil primitive
// yields a silent manager.
func NewManager(out platform.Audio, opts ...Option) *Manager {
	if out == nil {
		out = platform.NoAudio{}
	}
	m := &Manager{
		out:    out,
		logger: log.With("component", "audio"),
		async:  true,
		loops:  make(map[string]*loop),
		failed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// VolumeFor maps proximity to loop volume in [0.1, 1].
func VolumeFor(p float64) float64 {
	if p != p || p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	v := config.LoopVolumeFloor + math.Pow(p, config.LoopVolumeCurve)*config.LoopVolumeSpan
	return math.Max(config.LoopVolumeFloor, math.Min(1, v))
}

// Init initializes the audio primitive. Safe to call repeatedly; only the
// first call reaches the backend. A failing backend turns the manager silent.
func (m *Manager) Init() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return
	}
	m.initialized = true
	if err := m.out.Initialize(); err != nil {
		m.logger.Warn("audio unavailable, continuing silent", "error", err)
		m.out = platform.NoAudio{}
		return
	}
	m.supported = true
}

// Supported reports whether a working backend was initialized.
func (m *Manager) Supported() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.supported
}

// Start begins the loop for key at low volume, then ramps toward the volume
// for proximity once playback is confirmed. Starting an active key only
// updates its volume.
func (m *Manager) Start(key string, proximity float64) {
	m.mu.Lock()
	if m.failed[key] {
		m.mu.Unlock()
		return
	}
	if _, ok := m.loops[key]; ok {
		m.mu.Unlock()
		m.Update(key, proximity)
		return
	}
	m.gen++
	l := &loop{gen: m.gen, state: loopStarting, volume: config.LoopInitialVolume, proximity: proximity}
	m.loops[key] = l
	m.mu.Unlock()

	m.launch(key, l)
}

// Update recomputes the volume for proximity and applies it only when it
// moves by more than the jitter epsilon.
func (m *Manager) Update(key string, proximity float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.loops[key]
	if !ok {
		return
	}
	l.proximity = proximity
	if l.state != loopPlaying {
		return
	}
	m.applyVolume(key, l)
}

// Stop pauses the loop for key and rewinds it. Stopping an unknown key is a
// no-op. A start still resolving for key will silence itself on arrival.
func (m *Manager) Stop(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.loops[key]
	if !ok {
		return
	}
	delete(m.loops, key)
	if l.state == loopPlaying {
		m.stopOut(key)
	}
}

// StartAmbient starts the background loop once per session. It is never
// volume-modulated by proximity.
func (m *Manager) StartAmbient() {
	m.mu.Lock()
	if m.ambient != nil || m.failed[config.AmbientKey] {
		m.mu.Unlock()
		return
	}
	m.gen++
	l := &loop{gen: m.gen, state: loopStarting, volume: config.AmbientVolume, ambient: true}
	m.ambient = l
	m.mu.Unlock()

	m.launch(config.AmbientKey, l)
}

// StopAmbient stops the background loop.
func (m *Manager) StopAmbient() {
	m.mu.Lock()
	defer m.mu.Unlock()

	l := m.ambient
	if l == nil {
		return
	}
	m.ambient = nil
	if l.state == loopPlaying {
		m.stopOut(config.AmbientKey)
	}
}

// StopAll stops every proximity loop but leaves the ambient bed running.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, l := range m.loops {
		delete(m.loops, key)
		if l.state == loopPlaying {
			m.stopOut(key)
		}
	}
}

// Teardown stops everything and waits for pending starts to settle.
func (m *Manager) Teardown() {
	m.StopAll()
	m.StopAmbient()
	m.wg.Wait()
}

// Wait blocks until no start is in flight.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Active returns the keys of loops that are playing, sorted.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.loops))
	for k, l := range m.loops {
		if l.state == loopPlaying {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Registered reports whether key has a handle, playing or starting.
func (m *Manager) Registered(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.loops[key]
	return ok
}

// Volume returns the last applied volume for key.
func (m *Manager) Volume(key string) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.loops[key]
	if !ok {
		return 0, false
	}
	return l.volume, true
}

// AmbientPlaying reports whether the background loop is audible.
func (m *Manager) AmbientPlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ambient != nil && m.ambient.state == loopPlaying
}

// Failed reports whether key is permanently marked as missing.
func (m *Manager) Failed(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failed[key]
}

// PlayOneShot plays a short tone through the same backend as the loops.
// Failures are logged and dropped; the next qualifying tick tries again.
func (m *Manager) PlayOneShot(freq, volume float64, d time.Duration, pan float64) {
	m.mu.Lock()
	out := m.out
	m.mu.Unlock()

	if err := out.PlayOneShot(freq, volume, d, pan); err != nil {
		m.logger.Warn("one-shot failed", "freq", freq, "error", err)
	}
}

func (m *Manager) launch(key string, l *loop) {
	m.wg.Add(1)
	if !m.async {
		m.begin(key, l)
		return
	}
	go m.begin(key, l)
}

func (m *Manager) begin(key string, l *loop) {
	defer m.wg.Done()

	m.mu.Lock()
	out := m.out
	m.mu.Unlock()

	err := out.LoopStart(key)

	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.loops[key] == l
	if l.ambient {
		current = m.ambient == l
	}

	if err != nil {
		m.fail(key, err)
		if current {
			m.forget(key, l)
			// An older start may have left the voice running.
			m.stopOut(key)
		}
		return
	}
	if !current {
		// Stop arrived while the start was resolving. Any handle now
		// registered for key owns the backend voice, starting or not.
		if m.owned(key, l.ambient) {
			return
		}
		m.stopOut(key)
		return
	}

	l.state = loopPlaying
	if l.ambient {
		m.setOut(key, config.AmbientVolume)
		return
	}
	// The backend may reuse a voice that kept its old gain.
	m.setOut(key, l.volume)
	m.applyVolume(key, l)
}

func (m *Manager) owned(key string, ambient bool) bool {
	if ambient {
		return m.ambient != nil
	}
	_, ok := m.loops[key]
	return ok
}

func (m *Manager) applyVolume(key string, l *loop) {
	v := VolumeFor(l.proximity)
	if math.Abs(v-l.volume) <= config.LoopVolumeEpsilon {
		return
	}
	if m.setOut(key, v) {
		l.volume = v
	}
}

func (m *Manager) setOut(key string, v float64) bool {
	if err := m.out.LoopSetVolume(key, v); err != nil {
		m.logger.Warn("set volume failed", "key", key, "error", err)
		return false
	}
	return true
}

func (m *Manager) stopOut(key string) {
	if err := m.out.LoopStop(key); err != nil {
		m.logger.Warn("stop failed", "key", key, "error", err)
	}
}

func (m *Manager) fail(key string, err error) {
	if errors.Is(err, platform.ErrResourceNotFound) {
		if !m.failed[key] {
			m.failed[key] = true
			m.logger.Error("sound missing, giving up on key", "key", key, "error", err)
		}
		return
	}
	m.logger.Warn("playback rejected, will retry", "key", key, "error", err)
}

func (m *Manager) forget(key string, l *loop) {
	if l.ambient {
		m.ambient = nil
		return
	}
	delete(m.loops, key)
}
