package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/devrimk/punchcard/internal/domain"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	Intern      string `json:"intern"`
	InternID    string `json:"intern_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	DurationMin int    `json:"duration_minutes"`
	Duration    string `json:"duration"`
	ManualEntry bool   `json:"manual_entry"`
	Notes       string `json:"notes,omitempty"`
}

func ToJSON(entries []domain.TimeEntry, roster domain.Roster, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(entries),
	}

	for _, e := range entries {
		startStr, endStr := "", ""
		if e.StartTime != nil {
			startStr = e.StartTime.UTC().Format(time.RFC3339)
		}
		if e.EndTime != nil {
			endStr = e.EndTime.UTC().Format(time.RFC3339)
		}

		export.Entries = append(export.Entries, jsonEntry{
			ID:          e.ID,
			Intern:      roster.NameOf(e.UserID),
			InternID:    e.UserID,
			Date:        e.Date,
			StartTime:   startStr,
			EndTime:     endStr,
			DurationMin: e.Duration,
			Duration:    formatMinutes(e.Duration),
			ManualEntry: e.ManualEntry,
			Notes:       e.Notes,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
