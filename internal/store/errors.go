package store

import "errors"

var (
	// ErrTimerActive is returned when starting a timer while one is running.
	ErrTimerActive = errors.New("a timer is already running")
	// ErrNoActiveTimer is returned when stopping with no timer running.
	ErrNoActiveTimer = errors.New("no active timer")
	// ErrNotFound is returned when an entry ID does not exist.
	ErrNotFound = errors.New("entry not found")
)
