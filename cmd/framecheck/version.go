// Version command for the framecheck CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/strictframe/pkg/strictframe"
)

const modulePath = "github.com/mesh-intelligence/strictframe"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the framecheck version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "framecheck %s\nmodule: %s\n", strictframe.Version, modulePath)
		return nil
	},
}
