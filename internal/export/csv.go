package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/devrimk/punchcard/internal/domain"
)

func ToCSV(entries []domain.TimeEntry, roster domain.Roster, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Intern", "Date", "Start", "End", "Minutes", "Duration", "Source", "Notes"}); err != nil {
		return err
	}

	for _, e := range entries {
		startStr, endStr := "", ""
		if e.StartTime != nil {
			startStr = e.StartTime.Format(domain.ClockLayout)
		}
		if e.EndTime != nil {
			endStr = e.EndTime.Format(domain.ClockLayout)
		}
		source := "timer"
		if e.ManualEntry {
			source = "manual"
		}

		row := []string{
			e.ID,
			roster.NameOf(e.UserID),
			e.Date,
			startStr,
			endStr,
			fmt.Sprintf("%d", e.Duration),
			formatMinutes(e.Duration),
			source,
			e.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func formatMinutes(min int) string {
	return fmt.Sprintf("%dh %02dm", min/60, min%60)
}
