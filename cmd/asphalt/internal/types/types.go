// Package types implements "asphalt types".
package types

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-lynx/asphalt/factory"
)

// CmdTypes lists the component entry points compiled into the binary.
var CmdTypes = &cobra.Command{
	Use:   "types",
	Short: "List registered component types",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return List(cmd, factory.Global())
	},
}

// List prints each entry point of r with the Go type it resolves to.
func List(cmd *cobra.Command, r *factory.Registry) error {
	for _, name := range r.Names() {
		t, err := r.ResolveByName(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", name, t.Name())
	}
	return nil
}
