package clock

import (
	"testing"
	"time"
)

func TestManualFiresInOrder(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var got []int

	m.AfterFunc(300*time.Millisecond, func() { got = append(got, 3) })
	m.AfterFunc(100*time.Millisecond, func() { got = append(got, 1) })
	m.AfterFunc(200*time.Millisecond, func() { got = append(got, 2) })

	m.Advance(250 * time.Millisecond)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("after 250ms got %v, want [1 2]", got)
	}
	if m.Pending() != 1 {
		t.Errorf("pending = %d, want 1", m.Pending())
	}

	m.Advance(time.Second)
	if len(got) != 3 {
		t.Fatalf("got %v, want three callbacks", got)
	}
	if want := time.Unix(0, 0).Add(1250 * time.Millisecond); !m.Now().Equal(want) {
		t.Errorf("now = %v, want %v", m.Now(), want)
	}
}

func TestManualStop(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	fired := false
	tm := m.AfterFunc(time.Second, func() { fired = true })

	if !tm.Stop() {
		t.Error("Stop should report the timer was armed")
	}
	if tm.Stop() {
		t.Error("second Stop should report false")
	}
	m.Advance(2 * time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestManualChainedTimers(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 5 {
			m.AfterFunc(time.Second, tick)
		}
	}
	m.AfterFunc(time.Second, tick)

	m.Advance(5 * time.Second)
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}
}

func TestLoopStopAfterPost(t *testing.T) {
	posted := make(chan func(), 1)
	l := NewLoop(func(f func()) { posted <- f })

	fired := false
	tm := l.AfterFunc(time.Millisecond, func() { fired = true })

	var f func()
	select {
	case f = <-posted:
	case <-time.After(time.Second):
		t.Fatal("timer never posted")
	}

	if !tm.Stop() {
		t.Error("Stop before execution should report true")
	}
	f()
	if fired {
		t.Error("callback ran after Stop")
	}
}

func TestLoopRuns(t *testing.T) {
	posted := make(chan func(), 1)
	l := NewLoop(func(f func()) { posted <- f })

	fired := false
	tm := l.AfterFunc(time.Millisecond, func() { fired = true })

	select {
	case f := <-posted:
		f()
	case <-time.After(time.Second):
		t.Fatal("timer never posted")
	}
	if !fired {
		t.Error("callback did not run")
	}
	if tm.Stop() {
		t.Error("Stop after execution should report false")
	}
}
