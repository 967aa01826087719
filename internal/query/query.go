// Package query provides read-only views over the completed entries:
// filtering, sorting, weekly grouping and the top-performers ranking used by
// the review screen. Everything here is pure; inputs are never mutated.
package query

import (
	"sort"
	"time"

	"github.com/devrimk/punchcard/internal/domain"
)

// Criteria is a conjunction of filters; zero-value fields match everything.
type Criteria struct {
	InternID   string
	Date       string // YYYY-MM-DD exact match
	NameSearch string // case-insensitive substring over display names
}

// Active reports whether any filter is set. The top-performers overview is
// only shown when no filter is active.
func (c Criteria) Active() bool {
	return c.InternID != "" || c.Date != "" || c.NameSearch != ""
}

func (c Criteria) matches(e domain.TimeEntry, roster domain.Roster) bool {
	if c.InternID != "" && e.UserID != c.InternID {
		return false
	}
	if c.Date != "" && e.Date != c.Date {
		return false
	}
	return roster.MatchName(e.UserID, c.NameSearch)
}

// Filter returns the entries matching all set criteria.
func Filter(entries []domain.TimeEntry, c Criteria, roster domain.Roster) []domain.TimeEntry {
	var out []domain.TimeEntry
	for _, e := range entries {
		if c.matches(e, roster) {
			out = append(out, e)
		}
	}
	return out
}

// SortEntries returns a copy ordered most-recent-first: by date descending,
// then by start time-of-day descending. Entries without a start time sort as
// if they began at midnight.
func SortEntries(entries []domain.TimeEntry) []domain.TimeEntry {
	out := make([]domain.TimeEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return timeOfDay(out[i]) > timeOfDay(out[j])
	})
	return out
}

func timeOfDay(e domain.TimeEntry) int {
	if e.StartTime == nil {
		return 0
	}
	return e.StartTime.Hour()*60 + e.StartTime.Minute()
}

// DayTotal is the aggregate for one calendar day inside a week window.
type DayTotal struct {
	Date    string
	Minutes int
	Entries int
}

// UserTotal is the aggregate for one person.
type UserTotal struct {
	UserID  string
	Minutes int
	Entries int
}

// Week is a 7-day window [Start, Start+6d] with per-day and per-person
// totals. Boundary dates are inclusive on both ends.
type Week struct {
	Start time.Time
	Days  [7]DayTotal
	Users []UserTotal
}

// GroupWeek buckets entries into the 7-day window anchored at anchor's
// calendar date. Entries outside the window are ignored.
func GroupWeek(entries []domain.TimeEntry, anchor time.Time) Week {
	start := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	w := Week{Start: start}

	index := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		date := start.AddDate(0, 0, i).Format(domain.DateLayout)
		w.Days[i].Date = date
		index[date] = i
	}

	userMinutes := make(map[string]*UserTotal)
	for _, e := range entries {
		i, ok := index[e.Date]
		if !ok {
			continue
		}
		w.Days[i].Minutes += e.Duration
		w.Days[i].Entries++

		ut, ok := userMinutes[e.UserID]
		if !ok {
			ut = &UserTotal{UserID: e.UserID}
			userMinutes[e.UserID] = ut
		}
		ut.Minutes += e.Duration
		ut.Entries++
	}

	for _, ut := range userMinutes {
		w.Users = append(w.Users, *ut)
	}
	sortTotals(w.Users)
	return w
}

// TopPerformers ranks users by summed duration across the given entries,
// descending, ties broken by user ID ascending for determinism.
func TopPerformers(entries []domain.TimeEntry) []UserTotal {
	byUser := make(map[string]*UserTotal)
	for _, e := range entries {
		ut, ok := byUser[e.UserID]
		if !ok {
			ut = &UserTotal{UserID: e.UserID}
			byUser[e.UserID] = ut
		}
		ut.Minutes += e.Duration
		ut.Entries++
	}

	var out []UserTotal
	for _, ut := range byUser {
		out = append(out, *ut)
	}
	sortTotals(out)
	return out
}

func sortTotals(totals []UserTotal) {
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Minutes != totals[j].Minutes {
			return totals[i].Minutes > totals[j].Minutes
		}
		return totals[i].UserID < totals[j].UserID
	})
}
