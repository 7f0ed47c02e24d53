// Package commands defines the CLI command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the rentwise CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rentwise",
		Short:         "Create and manage rental property listings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(Create())
	cmd.AddCommand(Serve())
	cmd.AddCommand(Properties())
	cmd.AddCommand(Login())

	cmd.AddCommand(ROI())
	cmd.AddCommand(HashPassword())
	cmd.AddCommand(Version())

	return cmd
}

const configFlagUsage = "Path to configuration file (default: rentwise.yaml, searched upwards)"
