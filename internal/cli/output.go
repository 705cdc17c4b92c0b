package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// writeOut renders a command result in the configured format.
//
// For "text" the caller-supplied text form is printed as-is; "json" and
// "yaml" serialize the structured payload instead.
func writeOut(w io.Writer, opts *RootOptions, payload any, text string) error {
	switch opts.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml":
		data, err := yaml.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(w, text)
		return err
	}
}
