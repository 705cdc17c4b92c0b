package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/metakit/internal/history"
	"github.com/roach88/metakit/internal/store"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	WithHistory bool
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init <base>",
		Short: "Provision the companion meta table for a host table",
		Long: `Provision the companion meta table for a host table.

Creates <base>_meta with its (owner, key) uniqueness constraint if it does
not already exist. Safe to run repeatedly. The base may be given in plural
or CamelCase form; it is normalized to singular snake_case.

Example:
  metakit --db app.db init product --with-history`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.WithHistory, "with-history", false, "also provision the meta_changes journal")

	return cmd
}

func runInit(opts *InitOptions, baseArg string, cmd *cobra.Command) error {
	base, err := store.ResolveBase(baseArg)
	if err != nil {
		return err
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if err := s.EnsureTable(ctx, base); err != nil {
		return err
	}
	if opts.WithHistory {
		if err := history.NewSQLiteRecorder(s.DB()).Ensure(ctx); err != nil {
			return err
		}
	}

	payload := map[string]any{"table": store.MetaTable(base), "history": opts.WithHistory}
	text := fmt.Sprintf("ensured %s", store.MetaTable(base))
	if opts.WithHistory {
		text += " and meta_changes"
	}
	return writeOut(cmd.OutOrStdout(), opts.RootOptions, payload, text)
}
