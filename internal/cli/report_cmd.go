package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/devrimk/punchcard/internal/domain"
	"github.com/devrimk/punchcard/internal/query"
)

func newReportCmd(dbPath *string) *cobra.Command {
	var weekOf string
	var internID string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a weekly hours report",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			roster, err := s.Roster()
			if err != nil {
				return err
			}

			anchor, err := resolveAnchor(weekOf)
			if err != nil {
				return err
			}

			entries := s.Entries()
			if internID != "" {
				entries = s.EntriesByUser(internID)
			}

			week := query.GroupWeek(entries, anchor)
			printWeek(cmd, week, roster)
			return nil
		},
	}

	cmd.Flags().StringVar(&weekOf, "week", "", "any date inside the week to report (YYYY-MM-DD, default: this week)")
	cmd.Flags().StringVar(&internID, "intern", "", "limit the report to one intern ID")

	return cmd
}

// resolveAnchor returns the Monday of the week containing the given date, or
// of the current week when the date is empty.
func resolveAnchor(weekOf string) (time.Time, error) {
	day := time.Now().UTC()
	if weekOf != "" {
		parsed, err := time.Parse(domain.DateLayout, weekOf)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --week value %q: use YYYY-MM-DD", weekOf)
		}
		day = parsed
	}

	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	weekday := day.Weekday()
	if weekday == time.Sunday {
		weekday = 7
	}
	return day.AddDate(0, 0, -int(weekday-time.Monday)), nil
}

func printWeek(cmd *cobra.Command, week query.Week, roster domain.Roster) {
	end := week.Start.AddDate(0, 0, 6)
	cmd.Printf("Week %s — %s\n\n", week.Start.Format(domain.DateLayout), end.Format(domain.DateLayout))

	var total int
	for _, day := range week.Days {
		bar := ""
		if day.Minutes > 0 {
			bar = fmt.Sprintf("  %s (%d entries)", formatMinutes(day.Minutes), day.Entries)
		}
		d, _ := time.Parse(domain.DateLayout, day.Date)
		cmd.Printf("  %s %s%s\n", d.Format("Mon"), day.Date, bar)
		total += day.Minutes
	}

	cmd.Printf("\nTotal: %s\n", formatMinutes(total))

	if len(week.Users) > 1 {
		cmd.Printf("\nBy intern:\n")
		for _, ut := range week.Users {
			cmd.Printf("  %-20s %s (%d entries)\n", roster.NameOf(ut.UserID), formatMinutes(ut.Minutes), ut.Entries)
		}
	}
}

func formatMinutes(min int) string {
	if min < 60 {
		return fmt.Sprintf("%dm", min)
	}
	return fmt.Sprintf("%dh %02dm", min/60, min%60)
}
