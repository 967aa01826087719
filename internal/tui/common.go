package tui

import (
	"fmt"
	"time"

	"github.com/devrimk/punchcard/internal/domain"
)

// viewState represents the currently active view.
type viewState int

const (
	viewLogin viewState = iota
	viewTracker
	viewEntries
	viewAdmin
)

// --- Messages ---

type loggedInMsg struct {
	user domain.User
}

type timerStartedMsg struct {
	entry domain.TimeEntry
}

type timerStoppedMsg struct {
	entry domain.TimeEntry
}

type entryAddedMsg struct {
	entry domain.TimeEntry
}

type entryEditedMsg struct {
	entry domain.TimeEntry
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatElapsed(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	return fmt.Sprintf("%dh %02dm", min/60, min%60)
}

func errStatus(err error) statusMsg {
	return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
}
