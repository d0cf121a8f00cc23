package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rowsync-labs/rowsync-cli/internal/adapters/driven/query/sqlite"
	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
	"github.com/rowsync-labs/rowsync-cli/internal/core/ports/driving"
	"github.com/rowsync-labs/rowsync-cli/internal/core/services"
)

// rowsCmd prints the current result set once and exits.
var rowsCmd = &cobra.Command{
	Use:   "rows [query]",
	Short: "Print the current result set of a query",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRows,
}

func init() {
	addQueryFlags(rowsCmd)
	rootCmd.AddCommand(rowsCmd)
}

// printObserver writes the loaded result set to out, one line per row.
type printObserver struct {
	out io.Writer
	err error
}

func (o *printObserver) OnLoaded(source driving.ResultReader) {
	w := tabwriter.NewWriter(o.out, 2, 4, 2, ' ', 0)
	defer w.Flush()

	for section := 0; section < source.NumberOfSections(); section++ {
		for row := 0; row < source.NumberOfRows(section); row++ {
			entity := source.RowAt(domain.RowPath{Section: section, Row: row})
			fmt.Fprintln(w, formatEntity(entity))
		}
	}
}

func (o *printObserver) OnFailed(_ driving.ResultReader, err error) {
	o.err = err
}

func (o *printObserver) OnChanged(driving.ResultReader, *domain.ChangeBatch) {}

// formatEntity renders one row as tab-separated "column=value" pairs,
// key first.
func formatEntity(e domain.EntityRef) string {
	names := make([]string, 0, len(e.Values))
	for name := range e.Values {
		names = append(names, name)
	}
	sort.Strings(names)

	line := e.Key
	for _, name := range names {
		line += fmt.Sprintf("\t%s=%v", name, e.Values[name])
	}
	return line
}

func runRows(cmd *cobra.Command, args []string) error {
	db, spec, err := resolveQuery(args)
	if err != nil {
		return err
	}

	ctrl, err := sqlite.NewController(db, spec)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	observer := services.NewQueryObserver(ctrl)
	printer := &printObserver{out: cmd.OutOrStdout()}
	sub := observer.Register(printer)
	defer sub.Cancel()

	observer.PerformFetch(cmd.Context())
	return printer.err
}
