package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rentwise/cmd/rentwise/handlers"
)

// HashPassword returns the command that prints a password hash for the
// auth.users section of the configuration.
func HashPassword() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password for auth.users",
		Long: `Read a password and print its bcrypt hash.

The password is read from RENTWISE_PASSWORD, or prompted for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.HashPassword(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
