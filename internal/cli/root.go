// Package cli wires the punchcard commands: the default TUI plus
// non-interactive report and export subcommands for scripting.
package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/devrimk/punchcard/internal/store"
	"github.com/devrimk/punchcard/internal/tui"
)

// NewRootCmd creates the top-level "punchcard" command. Running it with no
// subcommand opens the interactive tracker.
func NewRootCmd() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "punchcard",
		Short:         "Intern time tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			app, err := tui.NewApp(s)
			if err != nil {
				return err
			}

			p := tea.NewProgram(app, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "",
		"database path (default: $PUNCHCARD_DB or the user config dir)")

	root.AddCommand(
		newReportCmd(&dbPath),
		newExportCmd(&dbPath),
	)

	return root
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}
