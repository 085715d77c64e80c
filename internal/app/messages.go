package app

import "time"

// TickMsg triggers a frame update for animation.
type TickMsg time.Time

// DemoStepMsg moves the demo pilot. Steps from an earlier demo run carry a
// stale Gen and are dropped.
type DemoStepMsg struct {
	Gen int
}

// LevelDoneMsg reports that a level finished its completion countdown.
type LevelDoneMsg struct {
	Level int
}

// timerMsg carries a clock callback into the event loop.
type timerMsg func()
