// Package clock abstracts time so timers can be cancelled on every exit path
// and driven deterministically in tests.
package clock

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a cancellable one-shot timer.
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Clock supplies the current time and one-shot timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is the wall clock. Callbacks run on their own goroutine.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Loop is a wall clock whose callbacks are handed to post instead of running
// on the timer goroutine. post typically forwards into a single event loop, so
// callbacks share the loop's timeline. A timer stopped after posting but
// before execution never runs its callback.
type Loop struct {
	post func(func())
}

// NewLoop creates a Loop that delivers callbacks through post.
func NewLoop(post func(func())) *Loop {
	return &Loop{post: post}
}

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.post(func() {
			if lt.fired.CompareAndSwap(false, true) {
				f()
			}
		})
	})
	return lt
}

type loopTimer struct {
	t     *time.Timer
	fired atomic.Bool
}

func (lt *loopTimer) Stop() bool {
	lt.t.Stop()
	return lt.fired.CompareAndSwap(false, true)
}

// Manual is a test clock. Time only moves on Advance, and due callbacks run
// synchronously on the caller's goroutine in deadline order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

// NewManual creates a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	mt := &manualTimer{clock: m, at: m.now.Add(d), seq: m.seq, f: f}
	m.timers = append(m.timers, mt)
	return mt
}

// Advance moves time forward by d, firing every timer that comes due.
// Timers scheduled by callbacks fire too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	end := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(end)
		if next == nil {
			m.now = end
			m.mu.Unlock()
			return
		}
		m.now = next.at
		m.remove(next)
		m.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of armed timers.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *Manual) nextDue(end time.Time) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	sort.SliceStable(m.timers, func(i, j int) bool {
		if m.timers[i].at.Equal(m.timers[j].at) {
			return m.timers[i].seq < m.timers[j].seq
		}
		return m.timers[i].at.Before(m.timers[j].at)
	})
	if m.timers[0].at.After(end) {
		return nil
	}
	return m.timers[0]
}

func (m *Manual) remove(mt *manualTimer) bool {
	for i, t := range m.timers {
		if t == mt {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	clock *Manual
	at    time.Time
	seq   int
	f     func()
}

func (mt *manualTimer) Stop() bool {
	mt.clock.mu.Lock()
	defer mt.clock.mu.Unlock()
	return mt.clock.remove(mt)
}
