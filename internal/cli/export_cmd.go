package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/devrimk/punchcard/internal/domain"
	"github.com/devrimk/punchcard/internal/export"
)

func newExportCmd(dbPath *string) *cobra.Command {
	var format string
	var outPath string
	var internID string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write entries to a CSV or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("invalid --format %q: use csv or json", format)
			}

			s, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			roster, err := s.Roster()
			if err != nil {
				return err
			}

			entries := s.Entries()
			if internID != "" {
				entries = s.EntriesByUser(internID)
			}

			path := outPath
			if path == "" {
				path = fmt.Sprintf("punchcard-export-%s.%s", time.Now().Format(domain.DateLayout), format)
			}

			if format == "csv" {
				err = export.ToCSV(entries, roster, path)
			} else {
				err = export.ToJSON(entries, roster, path)
			}
			if err != nil {
				return err
			}

			cmd.Printf("Exported %d entries to %s\n", len(entries), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default: punchcard-export-<date>.<format>)")
	cmd.Flags().StringVar(&internID, "intern", "", "limit the export to one intern ID")

	return cmd
}
