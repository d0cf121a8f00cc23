package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rowsync-labs/rowsync-cli/internal/config"
	"github.com/rowsync-labs/rowsync-cli/internal/core/domain"
)

var (
	tableFlag   string
	keyFlag     string
	columnsFlag []string
	whereFlag   string
	orderFlag   string
)

// addQueryFlags registers the ad-hoc query flags on a command that
// accepts either a named query argument or an inline specification.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&tableFlag, "table", "", "table to query")
	cmd.Flags().StringVar(&keyFlag, "key", "", "key column identifying rows across refreshes (default \"id\")")
	cmd.Flags().StringSliceVar(&columnsFlag, "columns", nil, "columns to select (default all)")
	cmd.Flags().StringVar(&whereFlag, "where", "", "SQL predicate filtering rows")
	cmd.Flags().StringVar(&orderFlag, "order", "", "SQL ordering clause")
}

// resolveQuery derives the database path and query spec from the
// config file, a named query argument and the inline flags. A named
// query takes the whole spec from config; otherwise --table is required.
func resolveQuery(args []string) (string, domain.QuerySpec, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFlag != "" {
		cfg, err = config.Load(configFlag)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return "", domain.QuerySpec{}, err
	}

	db := dbFlag
	if db == "" {
		db = cfg.Database
	}
	if db == "" {
		return "", domain.QuerySpec{}, fmt.Errorf("%w: no database given, use --db or set database in %s",
			domain.ErrInvalidInput, config.DefaultFileName)
	}

	if len(args) == 1 {
		spec, err := cfg.QuerySpec(args[0])
		return db, spec, err
	}

	if tableFlag == "" {
		return "", domain.QuerySpec{}, fmt.Errorf("%w: a named query or --table is required", domain.ErrInvalidInput)
	}
	spec := domain.QuerySpec{
		Table:   tableFlag,
		Key:     keyFlag,
		Columns: columnsFlag,
		Where:   whereFlag,
		OrderBy: orderFlag,
	}
	spec.Normalize()
	return db, spec, nil
}
