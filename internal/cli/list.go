package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/metakit/internal/meta"
	"github.com/roach88/metakit/internal/store"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <base> <owner-id>",
		Short: "List all meta attributes of a host row",
		Long: `List all meta attributes of a host row with their kinds.

Example:
  metakit --db app.db list product 42`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runList(opts *RootOptions, baseArg, ownerArg string, cmd *cobra.Command) error {
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

	var entries []store.Entry
	if exists {
		entries, err = s.LoadAll(ctx, base, ownerID)
		if err != nil {
			return err
		}
	}

	type item struct {
		Key   string `json:"key" yaml:"key"`
		Kind  string `json:"kind" yaml:"kind"`
		Value any    `json:"value" yaml:"value"`
	}
	items := make([]item, 0, len(entries))
	var lines []string
	for _, e := range entries {
		val, err := meta.Decode(e.Value, e.Kind)
		if err != nil {
			return err
		}
		items = append(items, item{Key: e.Key, Kind: string(e.Kind), Value: val.Any()})
		lines = append(lines, fmt.Sprintf("%s\t%s\t%v", e.Key, e.Kind, val.Any()))
	}

	return writeOut(cmd.OutOrStdout(), opts, items, strings.Join(lines, "\n"))
}
