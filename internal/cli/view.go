package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/store"
	"github.com/roach88/sieve/internal/viewdef"
)

// NewViewCommand creates the view command and its subcommands.
func NewViewCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Manage saved views",
		Long: `Save, inspect and run named views.

A view pairs a table with a filter and an order list. Filter and order
text is stored in canonical form.`,
	}

	cmd.AddCommand(newViewSaveCommand(rootOpts))
	cmd.AddCommand(newViewListCommand(rootOpts))
	cmd.AddCommand(newViewShowCommand(rootOpts))
	cmd.AddCommand(newViewDeleteCommand(rootOpts))
	cmd.AddCommand(newViewLoadCommand(rootOpts))
	cmd.AddCommand(newViewRunCommand(rootOpts))

	return cmd
}

// withStore opens the database, runs fn and closes the database again.
func withStore(opts *RootOptions, cmd *cobra.Command, fn func(*OutputFormatter, *store.Store) error) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	st, err := openStore(opts, formatter)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(formatter, st)
}

// viewFailure maps a store error to the CLI error output.
func viewFailure(formatter *OutputFormatter, err error) error {
	switch {
	case store.IsNotFound(err):
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, err)
	case errors.Is(err, store.ErrInvalidView):
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, err)
	default:
		return formatter.Fail(ExitCommandError, ErrCodeStore, err)
	}
}

func writeView(w io.Writer, v store.View) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "name:\t%s\n", v.Name)
	fmt.Fprintf(tw, "table:\t%s\n", v.Table)
	fmt.Fprintf(tw, "filter:\t%s\n", v.Filter)
	fmt.Fprintf(tw, "order:\t%s\n", v.Order)
	if v.Description != "" {
		fmt.Fprintf(tw, "description:\t%s\n", v.Description)
	}
	tw.Flush()
}

func newViewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var v store.View

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a view, replacing any view with the same name",
		Example: `  sieve view save open_orders --table orders --filter 'status:=open' --order -created`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v.Name = args[0]
			return withStore(rootOpts, cmd, func(f *OutputFormatter, st *store.Store) error {
				saved, err := st.SaveView(cmd.Context(), v)
				if err != nil {
					return viewFailure(f, err)
				}
				return f.Result(saved, func(w io.Writer) { writeView(w, saved) })
			})
		},
	}

	cmd.Flags().StringVar(&v.Table, "table", "", "table the view selects from (required)")
	cmd.Flags().StringVar(&v.Filter, "filter", "", "filter text")
	cmd.Flags().StringVar(&v.Order, "order", "", "order list")
	cmd.Flags().StringVar(&v.Description, "description", "", "free text description")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func newViewListCommand(rootOpts *RootOptions) *cobra.Command {
	var recent bool

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved views",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(f *OutputFormatter, st *store.Store) error {
				list := st.ListViews
				if recent {
					list = st.RecentViews
				}
				views, err := list(cmd.Context())
				if err != nil {
					return viewFailure(f, err)
				}
				return f.Result(views, func(w io.Writer) {
					if len(views) == 0 {
						fmt.Fprintln(w, "no views")
						return
					}
					tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
					for _, v := range views {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Name, v.Table, v.Filter)
					}
					tw.Flush()
				})
			})
		},
	}

	cmd.Flags().BoolVar(&recent, "recent", false, "list the most recently saved views first")

	return cmd
}

func newViewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <name>",
		Short:         "Show one saved view",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(f *OutputFormatter, st *store.Store) error {
				v, err := st.GetView(cmd.Context(), args[0])
				if err != nil {
					return viewFailure(f, err)
				}
				return f.Result(v, func(w io.Writer) { writeView(w, v) })
			})
		},
	}
}

func newViewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a saved view",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(f *OutputFormatter, st *store.Store) error {
				if err := st.DeleteView(cmd.Context(), args[0]); err != nil {
					return viewFailure(f, err)
				}
				return f.Result(map[string]string{"deleted": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "deleted view %s\n", args[0])
				})
			})
		},
	}
}

// LoadResult is the output of view load.
type LoadResult struct {
	Saved  []string `json:"saved" yaml:"saved"`
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newViewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <views-dir>",
		Short: "Save every view declared in a directory of CUE files",
		Long: `Load the views declared under the top-level view field of the CUE
package in the directory and save them. Views that fail to compile are
reported and skipped; the others are still saved.

Example views file:

  view: open_orders: {
  	table:  "orders"
  	filter: "status:=open"
  	order:  "-created"
  }`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(f *OutputFormatter, st *store.Store) error {
				return runViewLoad(f, st, args[0], cmd)
			})
		},
	}
}

func runViewLoad(f *OutputFormatter, st *store.Store, dir string, cmd *cobra.Command) error {
	views, loadErrs := viewdef.LoadDir(dir)

	// A directory that cannot be loaded at all is a command error.
	if len(views) == 0 && len(loadErrs) == 1 {
		var le *viewdef.LoadError
		if errors.As(loadErrs[0], &le) && le.Code != viewdef.ErrCodeViewTable &&
			le.Code != viewdef.ErrCodeViewFilter && le.Code != viewdef.ErrCodeViewSchema {
			_ = f.Error(le.Code, le.Message, nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", le.Code, le.Message))
		}
	}

	result := LoadResult{Saved: []string{}}
	for _, v := range views {
		f.VerboseLog("saving view %s", v.Name)
		saved, err := st.SaveView(cmd.Context(), v)
		if err != nil {
			return viewFailure(f, err)
		}
		result.Saved = append(result.Saved, saved.Name)
	}
	for _, err := range loadErrs {
		result.Errors = append(result.Errors, err.Error())
	}

	if err := f.Result(result, func(w io.Writer) {
		for _, name := range result.Saved {
			fmt.Fprintf(w, "saved view %s\n", name)
		}
		for _, msg := range result.Errors {
			fmt.Fprintf(w, "error: %s\n", msg)
		}
	}); err != nil {
		return err
	}

	if len(loadErrs) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d view(s) failed to load", len(loadErrs)))
	}
	return nil
}

func newViewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SQLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "run <name>",
		Short:         "Run a saved view",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, cmd, func(f *OutputFormatter, st *store.Store) error {
				v, err := st.GetView(cmd.Context(), args[0])
				if err != nil {
					return viewFailure(f, err)
				}
				return runView(f, st, v, opts, cmd)
			})
		},
	}

	cmd.Flags().StringToStringVar(&opts.Columns, "column", nil, "map an operand to a column (name=column); only mapped operands are allowed")
	cmd.Flags().StringSliceVar(&opts.Search, "search", nil, "columns searched by values without an operand")
	addEngineFlag(cmd, opts)

	return cmd
}
