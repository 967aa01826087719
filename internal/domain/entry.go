package domain

import "time"

// DateLayout is the calendar-date format entries are keyed by.
const DateLayout = "2006-01-02"

// ClockLayout is the wall-clock format used by range-based manual entries.
const ClockLayout = "15:04"

// TimeEntry is a completed or in-progress record of work. An entry is either
// range-based (StartTime and EndTime both set) or duration-based (both nil);
// Duration is always minutes.
type TimeEntry struct {
	ID          string
	UserID      string
	Date        string // YYYY-MM-DD the work is attributed to
	StartTime   *time.Time
	EndTime     *time.Time
	Duration    int // minutes
	ManualEntry bool
	Notes       string
}

// IsRange reports whether the entry carries explicit start/end timestamps.
func (e TimeEntry) IsRange() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// Clone returns a deep copy so callers can hand entries out without aliasing
// the store's backing data.
func (e TimeEntry) Clone() TimeEntry {
	c := e
	if e.StartTime != nil {
		t := *e.StartTime
		c.StartTime = &t
	}
	if e.EndTime != nil {
		t := *e.EndTime
		c.EndTime = &t
	}
	return c
}

// TimeRange is a start/end timestamp pair that is only ever replaced as a
// unit, so a patch cannot leave an entry with one timestamp and not the other.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// EntryPatch enumerates the fields an edit may touch. ID, UserID and
// ManualEntry are deliberately absent: they are immutable after creation.
type EntryPatch struct {
	Date     *string
	Duration *int
	Notes    *string

	// Range replaces both timestamps together; ClearRange drops them,
	// turning the entry duration-based. Range wins if both are set.
	Range      *TimeRange
	ClearRange bool
}

// Apply merges the patch into the entry, leaving unset fields untouched.
func (p EntryPatch) Apply(e *TimeEntry) {
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Duration != nil {
		e.Duration = *p.Duration
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	switch {
	case p.Range != nil:
		start, end := p.Range.Start, p.Range.End
		e.StartTime = &start
		e.EndTime = &end
	case p.ClearRange:
		e.StartTime = nil
		e.EndTime = nil
	}
}
