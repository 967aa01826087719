package domain

import (
	"errors"
	"time"
)

// ManualEntryWindowDays is the rolling backfill window: manual entries may
// target today or up to this many days back.
const ManualEntryWindowDays = 7

var (
	ErrFutureDate  = errors.New("future date")
	ErrEntryWindow = errors.New("entry window exceeded")
)

// ValidateManualDate decides whether a manual entry may target the candidate
// date. Only the calendar date matters; time-of-day on either argument is
// ignored. The policy covers the manual creation path only — timer entries
// are always dated "now" and edits are not re-validated.
func ValidateManualDate(candidate, today time.Time) error {
	c := truncateToDay(candidate)
	t := truncateToDay(today)

	if c.After(t) {
		return ErrFutureDate
	}
	if c.Before(t.AddDate(0, 0, -ManualEntryWindowDays)) {
		return ErrEntryWindow
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
