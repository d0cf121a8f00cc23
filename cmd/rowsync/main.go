// Command rowsync keeps a terminal table view in sync with a SQLite
// query.
package main

import (
	"os"

	"github.com/rowsync-labs/rowsync-cli/internal/adapters/driving/cli"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
