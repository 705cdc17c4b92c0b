package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/metakit/internal/history"
	"github.com/roach88/metakit/internal/store"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <base> <owner-id>",
		Short: "Show the change journal of a host row",
		Long: `Show the meta attribute change journal of a host row, in
append order.

Example:
  metakit --db app.db history product 42`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runHistory(opts *RootOptions, baseArg, ownerArg string, cmd *cobra.Command) error {
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

	changes, err := history.NewSQLiteRecorder(s.DB()).List(cmd.Context(), base, ownerID)
	if err != nil {
		return err
	}

	type item struct {
		At    string  `json:"at" yaml:"at"`
		Event string  `json:"event" yaml:"event"`
		Field string  `json:"field" yaml:"field"`
		Old   *string `json:"old" yaml:"old"`
		New   *string `json:"new" yaml:"new"`
		Actor string  `json:"actor,omitempty" yaml:"actor,omitempty"`
	}
	items := make([]item, 0, len(changes))
	var lines []string
	for _, c := range changes {
		items = append(items, item{
			At:    c.At.Format(time.RFC3339),
			Event: string(c.Event),
			Field: c.Field,
			Old:   c.Old,
			New:   c.New,
			Actor: c.Actor,
		})
		oldVal, newVal := "-", "-"
		if c.Old != nil {
			oldVal = *c.Old
		}
		if c.New != nil {
			newVal = *c.New
		}
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s\t%s -> %s",
			c.At.Format(time.RFC3339), c.Event, c.Field, oldVal, newVal))
	}

	return writeOut(cmd.OutOrStdout(), opts, items, strings.Join(lines, "\n"))
}
