package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rentwise/cmd/rentwise/handlers"
)

// Create returns the command that runs the property wizard.
//
// Optional flags:
//
//	--config, -c: Path to configuration file
//	--api: Submit to a remote rentwise server instead of the local database
//	--photo: Photo file to attach before the wizard starts (repeatable)
func Create() *cobra.Command {
	var opts handlers.CreateOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a property with the interactive wizard",
		Long: `Walk through the four wizard steps and create a property.

Steps:
  1. Basic information (name, type, address, capacity)
  2. Details (description, house rules, amenities)
  3. Pricing and availability
  4. Photos (optional, up to 10 files of 5MB each)

Each step is validated before moving on. Going back never loses what was
entered. On the last step a stay quote can be previewed before submitting.

By default the property is written to the local database. With --api, or
api.base_url in the configuration, it is sent to a rentwise server using
the token saved by 'rentwise login'.

Examples:
  # Create a property locally
  rentwise create

  # Attach photos up front
  rentwise create --photo front.jpg --photo kitchen.jpg

  # Submit to a server
  rentwise create --api https://rentwise.example.com`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", configFlagUsage)
	cmd.Flags().StringVar(&opts.APIURL, "api", "", "Base URL of a rentwise server")
	cmd.Flags().StringSliceVar(&opts.Photos, "photo", nil, "Photo file to attach (repeatable)")

	return cmd
}
