package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/devrimk/punchcard/internal/domain"
)

// StartTimer installs a new active entry for the user. The active slot is
// global: one in-progress timer across the whole store, guarded here rather
// than by per-user bookkeeping.
func (s *Store) StartTimer(userID string) (domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return domain.TimeEntry{}, ErrTimerActive
	}

	now := s.now()
	entry := domain.TimeEntry{
		ID:        s.newID(),
		UserID:    userID,
		Date:      now.Format(domain.DateLayout),
		StartTime: &now,
		Duration:  0,
	}
	s.active = &entry
	return entry.Clone(), nil
}

// StopTimer completes the active entry: end time is now, duration is the
// wall-clock delta in whole minutes (floored). The entry moves to the
// completed list and the active slot clears.
func (s *Store) StopTimer(notes string) (domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return domain.TimeEntry{}, ErrNoActiveTimer
	}

	now := s.now()
	entry := s.active.Clone()
	entry.EndTime = &now
	entry.Duration = int(now.Sub(*entry.StartTime) / time.Minute)
	entry.Notes = notes

	if err := s.insertEntry(entry); err != nil {
		return domain.TimeEntry{}, fmt.Errorf("stop timer: %w", err)
	}
	s.entries = append(s.entries, entry)
	s.active = nil
	return entry.Clone(), nil
}

// AddManualEntry assigns a fresh ID and appends the entry to the completed
// list. The store performs no validation: the submission flow is responsible
// for running the duration calculator and the date-window policy first.
func (s *Store) AddManualEntry(entry domain.TimeEntry) (domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.newID()
	entry.ManualEntry = true

	if err := s.insertEntry(entry); err != nil {
		return domain.TimeEntry{}, fmt.Errorf("add manual entry: %w", err)
	}
	s.entries = append(s.entries, entry)
	return entry.Clone(), nil
}

// EditEntry merges a partial update into an existing completed entry.
// Unset patch fields are left untouched; the date window is not re-checked.
func (s *Store) EditEntry(id string, patch domain.EntryPatch) (domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		updated := s.entries[i].Clone()
		patch.Apply(&updated)
		if err := s.updateEntry(updated); err != nil {
			return domain.TimeEntry{}, fmt.Errorf("edit entry %s: %w", id, err)
		}
		s.entries[i] = updated
		return updated.Clone(), nil
	}
	return domain.TimeEntry{}, fmt.Errorf("edit entry %s: %w", id, ErrNotFound)
}

// ActiveEntry returns a copy of the in-progress entry, if any.
func (s *Store) ActiveEntry() (domain.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return domain.TimeEntry{}, false
	}
	return s.active.Clone(), true
}

// Entries returns a copy of the completed list in insertion order.
func (s *Store) Entries() []domain.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.entries)
}

// EntriesByUser returns the user's completed entries.
func (s *Store) EntriesByUser(userID string) []domain.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TimeEntry
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e.Clone())
		}
	}
	return out
}

// EntriesByDate returns the completed entries attributed to a calendar date.
func (s *Store) EntriesByDate(date string) []domain.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.TimeEntry
	for _, e := range s.entries {
		if e.Date == date {
			out = append(out, e.Clone())
		}
	}
	return out
}

func cloneAll(entries []domain.TimeEntry) []domain.TimeEntry {
	out := make([]domain.TimeEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// --- SQLite write-through ---

func (s *Store) insertEntry(e domain.TimeEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO time_entries (id, user_id, date, start_time, end_time, duration, manual_entry, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Date, formatTime(e.StartTime), formatTime(e.EndTime),
		e.Duration, boolToInt(e.ManualEntry), e.Notes,
	)
	return err
}

func (s *Store) updateEntry(e domain.TimeEntry) error {
	_, err := s.db.Exec(
		`UPDATE time_entries SET date = ?, start_time = ?, end_time = ?, duration = ?, notes = ? WHERE id = ?`,
		e.Date, formatTime(e.StartTime), formatTime(e.EndTime), e.Duration, e.Notes, e.ID,
	)
	return err
}

func (s *Store) loadEntries() error {
	rows, err := s.db.Query(
		`SELECT id, user_id, date, start_time, end_time, duration, manual_entry, notes
		 FROM time_entries ORDER BY rowid`,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.TimeEntry
		var startTime, endTime sql.NullString
		var manual int
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &startTime, &endTime, &e.Duration, &manual, &e.Notes); err != nil {
			return err
		}
		e.StartTime = parseTime(startTime)
		e.EndTime = parseTime(endTime)
		e.ManualEntry = manual != 0
		s.entries = append(s.entries, e)
	}
	return rows.Err()
}

// formatTime keeps the original UTC offset so a reloaded timestamp shows the
// same wall-clock time it was recorded with.
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseTime(v sql.NullString) *time.Time {
	if !v.Valid || v.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v.String)
	if err != nil {
		return nil
	}
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
