package store

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devrimk/punchcard/internal/domain"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)}
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	s, err := OpenMemory(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
}

func TestOpenRunsMigration(t *testing.T) {
	s := newTestStore(t)

	var version int
	require.NoError(t, s.db.QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentVersion, version)
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.migrate())
}

func TestStartStopTimer(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(t, WithClock(clock.Now), WithIDs(seqIDs()))

	entry, err := s.StartTimer("i-ada")
	require.NoError(t, err)
	assert.Equal(t, "i-ada", entry.UserID)
	assert.Equal(t, "2025-03-10", entry.Date)
	assert.Equal(t, 0, entry.Duration)
	assert.False(t, entry.ManualEntry)
	require.NotNil(t, entry.StartTime)
	assert.Nil(t, entry.EndTime)

	active, ok := s.ActiveEntry()
	require.True(t, ok)
	assert.Equal(t, entry.ID, active.ID)
	assert.Empty(t, s.Entries(), "active entry must not appear in the completed list")

	clock.Advance(25*time.Minute + 30*time.Second)
	done, err := s.StopTimer("standup prep")
	require.NoError(t, err)
	assert.Equal(t, 25, done.Duration, "duration floors to whole minutes")
	assert.Equal(t, "standup prep", done.Notes)
	require.NotNil(t, done.EndTime)

	_, ok = s.ActiveEntry()
	assert.False(t, ok, "active slot must clear on stop")
	require.Len(t, s.Entries(), 1)
	assert.Equal(t, done.ID, s.Entries()[0].ID)
}

func TestStartTimerConflict(t *testing.T) {
	s := newTestStore(t)

	_, err := s.StartTimer("i-ada")
	require.NoError(t, err)

	_, err = s.StartTimer("i-den")
	assert.ErrorIs(t, err, ErrTimerActive, "one active timer across the whole store")
}

func TestStopTimerWithoutActive(t *testing.T) {
	s := newTestStore(t)

	_, err := s.StopTimer("")
	assert.ErrorIs(t, err, ErrNoActiveTimer)
}

func TestSingleActiveInvariantAcrossSequence(t *testing.T) {
	clock := newFakeClock()
	s := newTestStore(t, WithClock(clock.Now))

	for i := 0; i < 3; i++ {
		_, err := s.StartTimer("i-ada")
		require.NoError(t, err)

		_, ok := s.ActiveEntry()
		require.True(t, ok)

		clock.Advance(10 * time.Minute)
		done, err := s.StopTimer("")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, done.Duration, 0)
	}
	assert.Len(t, s.Entries(), 3)
}

func TestAddManualEntry(t *testing.T) {
	s := newTestStore(t, WithIDs(seqIDs()))

	entry, err := s.AddManualEntry(domain.TimeEntry{
		UserID:   "i-den",
		Date:     "2025-03-08",
		Duration: 150,
		Notes:    "backfilled onboarding",
	})
	require.NoError(t, err)
	assert.Equal(t, "e1", entry.ID)
	assert.True(t, entry.ManualEntry)

	got := s.EntriesByUser("i-den")
	require.Len(t, got, 1)
	assert.Equal(t, 150, got[0].Duration)
}

func TestEditEntryRoundTrip(t *testing.T) {
	s := newTestStore(t, WithIDs(seqIDs()))

	original, err := s.AddManualEntry(domain.TimeEntry{
		UserID:   "i-ada",
		Date:     "2025-03-09",
		Duration: 120,
		Notes:    "draft",
	})
	require.NoError(t, err)

	notes := "final"
	updated, err := s.EditEntry(original.ID, domain.EntryPatch{Notes: &notes})
	require.NoError(t, err)

	// Identical to the original except the patched field.
	assert.Equal(t, "final", updated.Notes)
	updated.Notes = original.Notes
	assert.Equal(t, original, updated)
}

func TestEditEntryRange(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.AddManualEntry(domain.TimeEntry{UserID: "i-ada", Date: "2025-03-09", Duration: 60})
	require.NoError(t, err)

	start := time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)
	dur := 480
	updated, err := s.EditEntry(entry.ID, domain.EntryPatch{
		Duration: &dur,
		Range:    &domain.TimeRange{Start: start, End: end},
	})
	require.NoError(t, err)
	assert.True(t, updated.IsRange())
	assert.Equal(t, 480, updated.Duration)

	cleared, err := s.EditEntry(entry.ID, domain.EntryPatch{ClearRange: true})
	require.NoError(t, err)
	assert.False(t, cleared.IsRange())
}

func TestEditEntryNotFound(t *testing.T) {
	s := newTestStore(t)

	notes := "x"
	_, err := s.EditEntry("missing", domain.EntryPatch{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEntriesByUserAndDate(t *testing.T) {
	s := newTestStore(t)

	for _, e := range []domain.TimeEntry{
		{UserID: "i-ada", Date: "2025-03-08", Duration: 60},
		{UserID: "i-ada", Date: "2025-03-09", Duration: 30},
		{UserID: "i-den", Date: "2025-03-09", Duration: 90},
	} {
		_, err := s.AddManualEntry(e)
		require.NoError(t, err)
	}

	assert.Len(t, s.EntriesByUser("i-ada"), 2)
	assert.Len(t, s.EntriesByUser("i-den"), 1)
	assert.Empty(t, s.EntriesByUser("nobody"))

	assert.Len(t, s.EntriesByDate("2025-03-09"), 2)
	assert.Len(t, s.EntriesByDate("2025-03-08"), 1)
	assert.Empty(t, s.EntriesByDate("2025-03-01"))
}

func TestReadsReturnCopies(t *testing.T) {
	s := newTestStore(t)

	_, err := s.AddManualEntry(domain.TimeEntry{UserID: "i-ada", Date: "2025-03-09", Duration: 60, Notes: "keep"})
	require.NoError(t, err)

	got := s.Entries()
	got[0].Notes = "mutated"
	got[0].Duration = 999

	again := s.Entries()
	assert.Equal(t, "keep", again[0].Notes, "returned sequences are copies, not aliases")
	assert.Equal(t, 60, again[0].Duration)
}

func TestSnapshotSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchcard.db")
	clock := newFakeClock()

	s, err := Open(path, WithClock(clock.Now))
	require.NoError(t, err)

	_, err = s.AddManualEntry(domain.TimeEntry{UserID: "i-ada", Date: "2025-03-09", Duration: 45, Notes: "persisted"})
	require.NoError(t, err)

	// An in-progress timer is not part of the snapshot.
	_, err = s.StartTimer("i-den")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	entries := s2.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "persisted", entries[0].Notes)
	assert.Equal(t, 45, entries[0].Duration)

	_, ok := s2.ActiveEntry()
	assert.False(t, ok, "active slot does not survive a restart")
}

func TestSnapshotKeepsWallClockTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchcard.db")

	s, err := Open(path)
	require.NoError(t, err)

	// A range entry recorded at 09:00 in a UTC+3 zone must still read as
	// 09:00 after a reload, not as the 06:00 UTC instant.
	zone := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2025, 3, 9, 9, 0, 0, 0, zone)
	end := start.Add(2 * time.Hour)

	_, err = s.AddManualEntry(domain.TimeEntry{
		UserID:    "i-ada",
		Date:      "2025-03-09",
		StartTime: &start,
		EndTime:   &end,
		Duration:  120,
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	entries := s2.Entries()
	require.Len(t, entries, 1)
	require.True(t, entries[0].IsRange())
	assert.Equal(t, "09:00", entries[0].StartTime.Format(domain.ClockLayout))
	assert.Equal(t, "11:00", entries[0].EndTime.Format(domain.ClockLayout))
	assert.Equal(t, 9, entries[0].StartTime.Hour(), "hour-of-day must survive the round trip")
}

func TestRosterSeeded(t *testing.T) {
	s := newTestStore(t)

	roster, err := s.Roster()
	require.NoError(t, err)
	require.NotEmpty(t, roster)

	admin, ok := roster.Find("admin")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NotEmpty(t, roster.Interns())
}
