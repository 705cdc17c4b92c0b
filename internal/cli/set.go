package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/metakit/internal/history"
	"github.com/roach88/metakit/internal/meta"
	"github.com/roach88/metakit/internal/overlay"
	"github.com/roach88/metakit/internal/store"
)

// SetOptions holds flags for the set command.
type SetOptions struct {
	*RootOptions
	Kind    string
	Actor   string
	History bool
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <base> <owner-id> <key> <value>",
		Short: "Write one meta attribute",
		Long: `Write one meta attribute for a host row.

The value kind is inferred from the literal (integer, float, boolean,
else string) unless --kind forces one. "strings" and "object" kinds take
a JSON literal.

Examples:
  metakit --db app.db set product 42 color red
  metakit --db app.db set product 42 sizes '["S","M","L"]' --kind strings
  metakit --db app.db set product 42 rank 3 --kind string --history`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(opts, args[0], args[1], args[2], args[3], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "force the value kind (string|integer|float|boolean|strings|object)")
	cmd.Flags().StringVar(&opts.Actor, "actor", "", "actor recorded in the change journal")
	cmd.Flags().BoolVar(&opts.History, "history", false, "record the change in the meta_changes journal")

	return cmd
}

func runSet(opts *SetOptions, baseArg, ownerArg, key, literal string, cmd *cobra.Command) error {
	base, err := store.ResolveBase(baseArg)
	if err != nil {
		return err
	}
	ownerID, err := parseOwnerID(ownerArg)
	if err != nil {
		return err
	}

	value, err := parseValue(literal, opts.Kind)
	if err != nil {
		return err
	}

	s, err := store.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	var recorder history.Recorder = history.Nop{}
	if opts.History {
		recorder = history.NewSQLiteRecorder(s.DB())
	}

	o := overlay.New(rowHost{base: base, id: ownerID}, overlay.Options{
		Store:    s,
		Recorder: recorder,
		Eager:    true,
		Actor:    opts.Actor,
	})
	if err := o.Set(cmd.Context(), key, value.Any()); err != nil {
		return err
	}

	payload := map[string]any{"key": key, "kind": string(value.Kind()), "value": value.Any()}
	return writeOut(cmd.OutOrStdout(), opts.RootOptions, payload,
		fmt.Sprintf("set %s=%v (%s)", key, value.Any(), value.Kind()))
}

// parseValue interprets a command-line literal as a meta value.
// With no forced kind, the narrowest scalar parse wins: integer, float,
// boolean, then string.
func parseValue(literal, forced string) (meta.Value, error) {
	switch meta.Kind(forced) {
	case "":
		if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return meta.Int(n), nil
		}
		if f, err := strconv.ParseFloat(literal, 64); err == nil {
			return meta.Float(f), nil
		}
		if b, err := strconv.ParseBool(literal); err == nil {
			return meta.Bool(b), nil
		}
		return meta.String(literal), nil
	case meta.KindString:
		return meta.String(literal), nil
	case meta.KindInteger:
		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", literal, err)
		}
		return meta.Int(n), nil
	case meta.KindFloat:
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q: %w", literal, err)
		}
		return meta.Float(f), nil
	case meta.KindBoolean:
		b, err := strconv.ParseBool(literal)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q: %w", literal, err)
		}
		return meta.Bool(b), nil
	case meta.KindStrings:
		var out []string
		if err := json.Unmarshal([]byte(literal), &out); err != nil {
			return nil, fmt.Errorf("invalid strings literal: %w", err)
		}
		return meta.Strings(out), nil
	case meta.KindObject:
		var out map[string]any
		if err := json.Unmarshal([]byte(literal), &out); err != nil {
			return nil, fmt.Errorf("invalid object literal: %w", err)
		}
		return meta.Object(out), nil
	default:
		return nil, fmt.Errorf("unknown kind %q", forced)
	}
}
