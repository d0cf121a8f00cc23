package cli

import (
	"github.com/spf13/cobra"

	"github.com/rowsync-labs/rowsync-cli/internal/adapters/driven/query/sqlite"
	"github.com/rowsync-labs/rowsync-cli/internal/adapters/driving/tui"
)

// watchCmd runs the live table view.
var watchCmd = &cobra.Command{
	Use:   "watch [query]",
	Short: "Watch a query in a live table view",
	Long: `Watch runs a query against the configured SQLite database and shows
the result in a terminal table. The database file is watched for
writes from other processes; each write refreshes the view with the
incremental changes.

Controls:
  ↑/k, ↓/j - Navigate rows
  r        - Refresh manually
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	addQueryFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	db, spec, err := resolveQuery(args)
	if err != nil {
		return err
	}

	ctrl, err := sqlite.NewController(db, spec)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	return tui.Run(cmd.Context(), ctrl, spec.DisplayName())
}
