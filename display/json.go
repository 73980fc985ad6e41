// Package display formats command output for terminals and scripts.
package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// MarshalJSON pretty-prints v for human and script consumption alike
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// WriteJSON marshals v and writes it to w followed by a newline
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ShouldOutputJSON reports whether cmd was asked for JSON through its own or a persistent --json flag
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	if f := cmd.Flags().Lookup("json"); f != nil && f.Changed {
		on, _ := cmd.Flags().GetBool("json")
		return on
	}
	if f := cmd.Root().PersistentFlags().Lookup("json"); f != nil {
		on, _ := cmd.Root().PersistentFlags().GetBool("json")
		return on
	}
	return false
}
