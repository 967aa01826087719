package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devrimk/punchcard/internal/domain"
)

var exportRoster = domain.Roster{
	{ID: "i-ada", Name: "Ada Kaplan", Role: domain.RoleIntern},
	{ID: "i-den", Name: "Deniz Acar", Role: domain.RoleIntern},
}

func sampleEntries() []domain.TimeEntry {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)
	return []domain.TimeEntry{
		{
			ID: "e1", UserID: "i-ada", Date: "2025-03-10",
			StartTime: &start, EndTime: &end,
			Duration: 90, Notes: "pairing session",
		},
		{
			ID: "e2", UserID: "i-den", Date: "2025-03-09",
			Duration: 150, ManualEntry: true,
		},
	}
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, ToCSV(sampleEntries(), exportRoster, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Intern", "Date", "Start", "End", "Minutes", "Duration", "Source", "Notes"}, rows[0])

	assert.Equal(t, "Ada Kaplan", rows[1][1])
	assert.Equal(t, "09:00", rows[1][3])
	assert.Equal(t, "10:30", rows[1][4])
	assert.Equal(t, "90", rows[1][5])
	assert.Equal(t, "timer", rows[1][7])

	assert.Equal(t, "Deniz Acar", rows[2][1])
	assert.Equal(t, "", rows[2][3], "duration-based entries have no clock times")
	assert.Equal(t, "2h 30m", rows[2][6])
	assert.Equal(t, "manual", rows[2][7])
}

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, ToJSON(sampleEntries(), exportRoster, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out jsonExport
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Entries, 2)
	assert.Equal(t, "Ada Kaplan", out.Entries[0].Intern)
	assert.Equal(t, 90, out.Entries[0].DurationMin)
	assert.NotEmpty(t, out.Entries[0].StartTime)
	assert.True(t, out.Entries[1].ManualEntry)
	assert.Empty(t, out.Entries[1].StartTime)
}

func TestToCSVUnknownIntern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	entries := []domain.TimeEntry{{ID: "e1", UserID: "ghost", Date: "2025-03-10", Duration: 30}}
	require.NoError(t, ToCSV(entries, exportRoster, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "ghost", rows[1][1], "falls back to the raw ID off-roster")
}
