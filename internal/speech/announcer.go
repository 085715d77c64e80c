// Package speech narrates text through the host's speech primitive with
// de-duplication, urgent interruption and ranked voice selection.
package speech

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"seeker.klederson.com/internal/clock"
	"seeker.klederson.com/internal/config"
	"seeker.klederson.com/internal/log"
	"seeker.klederson.com/internal/platform"
)

// Priority of an utterance.
type Priority int

const (
	Normal Priority = iota
	Urgent
)

func (p Priority) String() string {
	if p == Urgent {
		return "urgent"
	}
	return "normal"
}

type utterance struct {
	id   uint64
	text string
}

// Announcer serializes utterances on a single worker goroutine.
type Announcer struct {
	mu      sync.Mutex
	out     platform.Speech
	clk     clock.Clock
	voice   platform.Voice
	logger  *slog.Logger
	last    string
	seq     uint64
	queue   []utterance
	cancel  context.CancelFunc
	current uint64
	grace   clock.Timer
	pending sync.WaitGroup
	wake    chan struct{}
	done    chan struct{}
	closed  bool
	spoken  int
}

// NewAnnouncer starts an announcer speaking with voice. A nil primitive
// yields a mute announcer.
func NewAnnouncer(out platform.Speech, clk clock.Clock, voice platform.Voice) *Announcer {
	if out == nil {
		out = platform.NoSpeech{}
	}
	if clk == nil {
		clk = clock.Real{}
	}
	a := &Announcer{
		out:    out,
		clk:    clk,
		voice:  voice,
		logger: log.With("component", "speech"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Voice returns the voice in use.
func (a *Announcer) Voice() platform.Voice {
	return a.voice
}

// Speak queues text. At Normal priority a repeat of the immediately
// preceding text is suppressed. Urgent cancels whatever is in flight and
// always speaks. It reports whether the text was accepted.
func (a *Announcer) Speak(text string, p Priority) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return false
	}
	if p == Normal && text == a.last {
		a.logger.Debug("suppressed repeat", "text", text)
		return false
	}
	if p == Urgent {
		a.dropQueue()
		if a.cancel != nil {
			a.cancel()
		}
	}

	a.stopGrace()
	a.last = text
	a.seq++
	a.queue = append(a.queue, utterance{id: a.seq, text: text})
	a.pending.Add(1)

	select {
	case a.wake <- struct{}{}:
	default:
	}
	return true
}

// Stop cancels any in-flight utterance, drops the queue and clears the
// de-duplication memory.
func (a *Announcer) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.dropQueue()
	if a.cancel != nil {
		a.cancel()
	}
	a.stopGrace()
	a.last = ""
}

// Close stops the announcer and its worker.
func (a *Announcer) Close() {
	a.Stop()
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	close(a.wake)
	<-a.done
}

// Wait blocks until every accepted utterance has finished or been dropped.
func (a *Announcer) Wait() {
	a.pending.Wait()
}

// Last returns the text held in de-duplication memory.
func (a *Announcer) Last() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Spoken returns how many utterances reached the primitive.
func (a *Announcer) Spoken() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spoken
}

func (a *Announcer) run() {
	defer close(a.done)
	for range a.wake {
		for {
			u, ctx, ok := a.next()
			if !ok {
				break
			}
			err := a.out.Speak(ctx, u.text, a.voice)
			a.finish(u, ctx, err)
		}
	}
}

func (a *Announcer) next() (utterance, context.Context, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.queue) == 0 {
		return utterance{}, nil, false
	}
	u := a.queue[0]
	a.queue = a.queue[1:]

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.current = u.id
	a.spoken++
	return u, ctx, true
}

func (a *Announcer) finish(u utterance, ctx context.Context, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.pending.Done()

	if a.current == u.id {
		a.cancel()
		a.cancel = nil
		a.current = 0
	}
	if err != nil && ctx.Err() == nil {
		a.logger.Warn("utterance failed", "text", u.text, "error", err)
	}

	// Memory clears only once the line that set it has finished.
	if u.id == a.seq && a.last == u.text && len(a.queue) == 0 {
		seq := a.seq
		a.stopGrace()
		a.grace = a.clk.AfterFunc(config.SpeechGrace, func() {
			a.mu.Lock()
			defer a.mu.Unlock()
			if a.seq == seq {
				a.last = ""
			}
		})
	}
}

func (a *Announcer) dropQueue() {
	for range a.queue {
		a.pending.Done()
	}
	a.queue = nil
}

func (a *Announcer) stopGrace() {
	if a.grace != nil {
		a.grace.Stop()
		a.grace = nil
	}
}

// EstimateDuration guesses how long text takes to speak.
func EstimateDuration(text string) time.Duration {
	d := time.Duration(len(strings.Fields(text))) * config.SpeechPerWord
	if d < config.SpeechMinimum {
		return config.SpeechMinimum
	}
	return d
}
