package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/metakit/internal/overlay"
	"github.com/roach88/metakit/internal/store"
)

// NewDelCommand creates the del command.
func NewDelCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "del <base> <owner-id> <key>",
		Short: "Delete one meta attribute",
		Long: `Delete one meta attribute for a host row.

Deleting an absent key is a no-op.

Example:
  metakit --db app.db del product 42 color`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDel(rootOpts, args[0], args[1], args[2], cmd)
		},
	}
	return cmd
}

func runDel(opts *RootOptions, baseArg, ownerArg, key string, cmd *cobra.Command) error {
	base, err := store.ResolveBase(baseArg)
	if err != nil {
		return err
	}
	ownerID, err := parseOwnerID(ownerArg)
	if err != nil {
		return err
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	o := overlay.New(rowHost{base: base, id: ownerID}, overlay.Options{Store: s, Eager: true})
	if err := o.Set(cmd.Context(), key, nil); err != nil {
		return err
	}

	payload := map[string]any{"key": key, "deleted": true}
	return writeOut(cmd.OutOrStdout(), opts, payload, fmt.Sprintf("deleted %s", key))
}
