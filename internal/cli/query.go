package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/filtereval"
	"github.com/roach88/sieve/internal/store"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <table> [filter...]",
		Short: "Run a filter against a table of the database",
		Long: `Select the rows of a table that match a filter.

Rows are ordered by --order and then by rowid, so the output is stable
across runs. With --engine memory the table is loaded whole and filtered
in Go; both engines select the same rows.

Example:
  sieve query --db shop.db orders 'status:=open total:>#100' --order -total`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := store.View{Table: args[0], Filter: filterArg(args[1:])}
			v.Order = opts.Order
			return runQuery(opts, v, cmd)
		},
	}

	addSQLFlags(cmd, opts)
	addEngineFlag(cmd, opts)

	return cmd
}

func openStore(opts *RootOptions, formatter *OutputFormatter) (*store.Store, error) {
	formatter.VerboseLog("opening database %s", opts.DB)
	st, err := store.Open(opts.DB, store.WithLogger(newLogger(opts, formatter.GetErrWriter())))
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeStore, err)
	}
	return st, nil
}

func runQuery(opts *SQLOptions, v store.View, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openStore(opts.RootOptions, formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	return runView(formatter, st, v, opts, cmd)
}

// runView runs v on the engine opts names and prints the matching rows.
func runView(formatter *OutputFormatter, st *store.Store, v store.View, opts *SQLOptions, cmd *cobra.Command) error {
	var rows []filtereval.Row
	var err error
	switch opts.Engine {
	case EngineSQL, "":
		rows, err = st.Run(cmd.Context(), v, opts.compiler())
	case EngineMemory:
		if len(opts.Columns) > 0 {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidInput,
				errors.New("--column needs the sql engine"))
		}
		rows, err = st.RunInMemory(cmd.Context(), v, &filtereval.Compiler{DefaultColumns: opts.Search})
	default:
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput,
			fmt.Errorf("unknown engine %q (use %s or %s)", opts.Engine, EngineSQL, EngineMemory))
	}
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeCompile, err)
	}
	if rows == nil {
		rows = []filtereval.Row{}
	}
	formatter.VerboseLog("%d row(s)", len(rows))

	return formatter.Result(rows, func(w io.Writer) {
		writeRows(w, rows)
	})
}

// writeRows prints rows as an aligned table with one column per key,
// keys sorted by name.
func writeRows(w io.Writer, rows []filtereval.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "no rows")
		return
	}

	seen := map[string]bool{}
	for _, r := range rows {
		for k := range r {
			seen[k] = true
		}
	}
	cols := slices.Sorted(maps.Keys(seen))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cellString(r[c])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func cellString(cell any) string {
	switch v := cell.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}
