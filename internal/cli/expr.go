package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/filter"
	"github.com/roach88/sieve/internal/filtersql"
	"github.com/roach88/sieve/internal/order"
	"github.com/roach88/sieve/internal/summary"
)

// filterArg joins the positional arguments back into one filter text, so
// that `sieve fmt a:1 b:2` and `sieve fmt "a:1 b:2"` agree.
func filterArg(args []string) string {
	return strings.Join(args, " ")
}

type diagnostic struct {
	Offset  int    `json:"offset" yaml:"offset"`
	Message string `json:"message" yaml:"message"`
}

// ParseResult is the output of the parse command.
type ParseResult struct {
	Text        string       `json:"text" yaml:"text"`
	Tree        node         `json:"tree" yaml:"tree"`
	Diagnostics []diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Reduce bool
	Offset int
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse [filter...]",
		Short: "Print the expression tree of a filter",
		Long: `Parse a filter and print its expression tree.

Parsing never fails: malformed input still yields a tree, and the problems
found on the way are listed as warnings. Use --reduce to print the tree
after flattening and singleton collapse.

Example:
  sieve parse 'status:=open or(total:>#100 :mine:)'
  sieve parse --reduce --format json 'AND(a:1 AND(b:2))'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, filterArg(args), cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Reduce, "reduce", false, "reduce the tree before printing")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "byte offset to start parsing at")

	return cmd
}

func runParse(opts *ParseOptions, text string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	e, diags := filter.ParseWithDiagnostics(text, opts.Offset)
	if opts.Reduce {
		e = e.Reduce()
	}
	result := ParseResult{Text: e.String(), Tree: dumpTree(e)}
	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, diagnostic{Offset: d.Offset, Message: d.Message})
	}

	return formatter.Result(result, func(w io.Writer) {
		writeTree(w, result.Tree, 0)
		for _, d := range diags {
			fmt.Fprintf(w, "warning: %s\n", d)
		}
	})
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt [filter...]",
		Short: "Print the canonical text of a filter",
		Long: `Parse a filter and print its canonical text.

Nested groups of the same kind are flattened. The canonical text parses
back to an expression that matches the same rows; saved views store it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			text := filter.Parse(filterArg(args)).String()
			return formatter.Result(map[string]string{"text": text}, func(w io.Writer) {
				fmt.Fprintln(w, text)
			})
		},
	}
}

// SQLResult is the output of the sql command.
type SQLResult struct {
	SQL  string `json:"sql" yaml:"sql"`
	Args []any  `json:"args" yaml:"args"`
}

// Engines that run a filter against a table.
const (
	EngineSQL    = "sql"
	EngineMemory = "memory"
)

// SQLOptions holds flags for the sql, query and view run commands.
type SQLOptions struct {
	*RootOptions
	Table   string
	Order   string
	Columns map[string]string
	Search  []string
	Engine  string
}

func (o *SQLOptions) compiler() *filtersql.Compiler {
	return &filtersql.Compiler{Columns: o.Columns, DefaultColumns: o.Search}
}

func addEngineFlag(cmd *cobra.Command, opts *SQLOptions) {
	cmd.Flags().StringVar(&opts.Engine, "engine", EngineSQL, "where the filter runs: sql (in SQLite) or memory (in Go, after loading the table)")
}

func addSQLFlags(cmd *cobra.Command, opts *SQLOptions) {
	cmd.Flags().StringVar(&opts.Order, "order", "", `order list, e.g. "-created,id"`)
	cmd.Flags().StringToStringVar(&opts.Columns, "column", nil, "map an operand to a column (name=column); only mapped operands are allowed")
	cmd.Flags().StringSliceVar(&opts.Search, "search", nil, "columns searched by values without an operand")
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sql [filter...]",
		Short: "Translate a filter into a SQLite WHERE clause",
		Long: `Translate a filter into SQLite SQL with bound parameters.

Without --table only the WHERE condition is printed. With --table a full
SELECT with ORDER BY is printed.

Example:
  sieve sql 'status:=open total:>#100'
  sieve sql --table orders --order -created --search name,note 'ann'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(opts, filterArg(args), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "table to select from")
	addSQLFlags(cmd, opts)

	return cmd
}

func runSQL(opts *SQLOptions, text string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	c := opts.compiler()
	e := filter.Parse(text)

	var result SQLResult
	if opts.Table == "" {
		f, err := c.Where(e)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeCompile, err)
		}
		result = SQLResult{SQL: f.SQL, Args: f.Args}
	} else {
		query, args, err := c.Select(opts.Table, e, order.Parse(opts.Order))
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeCompile, err)
		}
		result = SQLResult{SQL: query, Args: args}
	}
	if result.Args == nil {
		result.Args = []any{}
	}
	formatter.VerboseLog("filter: %s", e)

	return formatter.Result(result, func(w io.Writer) {
		fmt.Fprintln(w, result.SQL)
		for i, a := range result.Args {
			fmt.Fprintf(w, "  ?%d = %#v\n", i+1, a)
		}
	})
}

// NewOrderCommand creates the order command.
func NewOrderCommand(rootOpts *RootOptions) *cobra.Command {
	var keysFlag string

	cmd := &cobra.Command{
		Use:   "order [order-list]",
		Short: "Print the keys of an order list",
		Long: `Parse a comma separated order list such as "-created, +id".

A leading '-' sorts descending, '+' or nothing sorts ascending. Empty
entries are skipped. A list that starts with '-' reads as a flag, so pass
it with --keys or after --.

Example:
  sieve order --keys '-created, +id'
  sieve order -- '-created, +id'
  sieve order 'name, -total'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			text := keysFlag
			if len(args) > 0 {
				if cmd.Flags().Changed("keys") {
					return formatter.Fail(ExitCommandError, ErrCodeInvalidInput,
						errors.New("give the order list either with --keys or as an argument, not both"))
				}
				text = args[0]
			}

			keys := order.Parse(text)
			if keys == nil {
				keys = []order.Expression{}
			}
			return formatter.Result(keys, func(w io.Writer) {
				for _, k := range keys {
					direction := "asc"
					if k.Negate {
						direction = "desc"
					}
					fmt.Fprintf(w, "%s %s\n", k.Identifier, direction)
				}
			})
		},
	}

	cmd.Flags().StringVar(&keysFlag, "keys", "", `order list, e.g. "-created,id"`)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		formatter := newFormatter(rootOpts, c.OutOrStdout(), c.ErrOrStderr())
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput,
			fmt.Errorf("%w (pass an order list starting with '-' with --keys or after --)", err))
	})

	return cmd
}

// NewChipsCommand creates the chips command.
func NewChipsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chips [filter...]",
		Short: "Summarize a filter as a list of chips",
		Long: `Print one chip per top-level term of the filter.

Groups other than and become a single chip whose label spells the group
out, e.g. "status is open or total > 100".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())
			chips, err := summary.Chips(filter.Parse(filterArg(args)))
			if err != nil {
				return formatter.Fail(ExitFailure, ErrCodeCompile, err)
			}
			if chips == nil {
				chips = []summary.Chip{}
			}
			return formatter.Result(chips, func(w io.Writer) {
				for _, c := range chips {
					fmt.Fprintf(w, "%s: %s (%s)\n", c.Kind, c.Label, c.Text)
				}
			})
		},
	}
}
