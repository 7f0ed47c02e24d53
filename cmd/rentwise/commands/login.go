package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rentwise/cmd/rentwise/handlers"
)

// Login returns the command that stores an API token.
//
// Environment variables:
//
//	RENTWISE_PASSWORD: password, skipping the prompt
func Login() *cobra.Command {
	var opts handlers.LoginOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to a rentwise server and save the token",
		Long: `Exchange a username and password for an access token.

The server URL and token are written to the configuration file so that
'rentwise create' and 'rentwise properties' talk to the server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Login(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", configFlagUsage)
	cmd.Flags().StringVar(&opts.APIURL, "api", "", "Base URL of a rentwise server")
	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "Username")

	return cmd
}
