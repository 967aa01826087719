// Package timer holds the stopwatch state machine driving the tracker view.
//
// The on-screen elapsed counter is cosmetic: it advances one second per tick
// while running and freezes while paused, but pausing never adjusts the
// underlying entry's start time. The recorded duration stays the wall-clock
// delta computed by the store on stop, so display time and recorded minutes
// diverge across a pause. That divergence is intended; do not "fix" it by
// pausing the wall clock.
package timer

import (
	"time"

	"github.com/devrimk/punchcard/internal/domain"
	"github.com/devrimk/punchcard/internal/store"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

// Controller governs start/pause/resume/stop of the single in-progress timer
// and produces a completed entry into the store on stop.
type Controller struct {
	store *store.Store

	state   State
	elapsed int // display seconds
}

func New(s *store.Store) *Controller {
	return &Controller{store: s}
}

// Start transitions Idle→Running and opens the active entry. From any other
// state the store's single-timer guard rejects it.
func (c *Controller) Start(userID string) (domain.TimeEntry, error) {
	if c.state != StateIdle {
		return domain.TimeEntry{}, store.ErrTimerActive
	}
	entry, err := c.store.StartTimer(userID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	c.state = StateRunning
	c.elapsed = 0
	return entry, nil
}

// Pause freezes the display counter. No-op unless running.
func (c *Controller) Pause() {
	if c.state == StateRunning {
		c.state = StatePaused
	}
}

// Resume unfreezes the display counter. No-op unless paused.
func (c *Controller) Resume() {
	if c.state == StatePaused {
		c.state = StateRunning
	}
}

// Toggle flips between Running and Paused.
func (c *Controller) Toggle() {
	switch c.state {
	case StateRunning:
		c.Pause()
	case StatePaused:
		c.Resume()
	}
}

// Stop completes the active entry with the given notes and returns to Idle.
// Valid from Running or Paused.
func (c *Controller) Stop(notes string) (domain.TimeEntry, error) {
	if c.state == StateIdle {
		return domain.TimeEntry{}, store.ErrNoActiveTimer
	}
	entry, err := c.store.StopTimer(notes)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	c.state = StateIdle
	c.elapsed = 0
	return entry, nil
}

// Tick advances the display counter by one second while running.
func (c *Controller) Tick() {
	if c.state == StateRunning {
		c.elapsed++
	}
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Running() bool { return c.state != StateIdle }

func (c *Controller) Paused() bool { return c.state == StatePaused }

// Elapsed is the cosmetic display time, not the recorded duration.
func (c *Controller) Elapsed() time.Duration {
	return time.Duration(c.elapsed) * time.Second
}
