// Package timer tracks total and per-stage elapsed time for CLI commands.
package timer

import (
	"sync"
	"time"
)

// Timer measures the elapsed time of a command and of its current stage.
type Timer interface {
	// Start resets the timer and begins the first stage.
	Start()
	// NewStage ends the current stage and begins a new one.
	NewStage()
	// GetTiming returns the total elapsed time and the elapsed time of the current stage.
	GetTiming() (time.Duration, time.Duration)
}

// StageTimer is the default Timer. It is safe for concurrent use.
type StageTimer struct {
	mu         sync.Mutex
	now        func() time.Time
	start      time.Time
	stageStart time.Time
}

// New creates a StageTimer backed by the wall clock.
func New() *StageTimer {
	return NewWithClock(time.Now)
}

// NewWithClock creates a StageTimer with a custom clock.
func NewWithClock(now func() time.Time) *StageTimer {
	return &StageTimer{now: now}
}

// Start implements Timer.
func (t *StageTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.start = t.now()
	t.stageStart = t.start
}

// NewStage implements Timer.
func (t *StageTimer) NewStage() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		t.start = t.now()
	}

	t.stageStart = t.now()
}

// GetTiming implements Timer. Both durations are zero before Start.
func (t *StageTimer) GetTiming() (time.Duration, time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.start.IsZero() {
		return 0, 0
	}

	now := t.now()

	return now.Sub(t.start), now.Sub(t.stageStart)
}
