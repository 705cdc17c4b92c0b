package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/metakit/internal/meta"
	"github.com/roach88/metakit/internal/store"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <base> <owner-id> <key>",
		Short: "Read one meta attribute",
		Long: `Read one meta attribute for a host row.

Prints the decoded value, or nothing when the key is absent.

Example:
  metakit --db app.db get product 42 color`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], args[1], args[2], cmd)
		},
	}
	return cmd
}

func runGet(opts *RootOptions, baseArg, ownerArg, key string, cmd *cobra.Command) error {
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

	ctx := cmd.Context()
	exists, err := s.TableExists(ctx, base)
	if err != nil {
		return err
	}
	if !exists {
		return writeOut(cmd.OutOrStdout(), opts, map[string]any{"key": key, "value": nil}, "")
	}

	entry, found, err := s.Find(ctx, base, ownerID, key)
	if err != nil {
		return err
	}
	if !found {
		return writeOut(cmd.OutOrStdout(), opts, map[string]any{"key": key, "value": nil}, "")
	}

	val, err := meta.Decode(entry.Value, entry.Kind)
	if err != nil {
		return err
	}

	payload := map[string]any{"key": entry.Key, "kind": string(entry.Kind), "value": val.Any()}
	return writeOut(cmd.OutOrStdout(), opts, payload, fmt.Sprintf("%v", val.Any()))
}
