// Package cli implements the rowsync command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/rowsync-labs/rowsync-cli/internal/logger"
)

// version is set via SetVersion at build time.
var version = "dev"

var (
	configFlag  string
	dbFlag      string
	verboseFlag bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "rowsync",
	Short: "Keep a terminal table view in sync with a SQLite query",
	Long: `rowsync observes a SQLite query and keeps a terminal table view in
sync with it. External writes to the database are detected, diffed
against the previous result set and applied to the view as incremental
row changes.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to a rowsync.toml config file")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "path to the SQLite database (overrides config)")
}
