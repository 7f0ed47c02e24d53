package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rentwise/cmd/rentwise/handlers"
)

// Properties returns the command that lists created properties.
func Properties() *cobra.Command {
	var opts handlers.ListOptions

	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"ls"},
		Short:   "List created properties",
		Long: `List properties from the local database or a rentwise server.

Examples:
  # Active properties whose name or address mentions "loft"
  rentwise properties --status active --query loft

  # Second page as JSON
  rentwise properties --page 2 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ListProperties(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", configFlagUsage)
	cmd.Flags().StringVar(&opts.APIURL, "api", "", "Base URL of a rentwise server")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "Match name or address")
	cmd.Flags().StringVar(&opts.Status, "status", "all", "Filter by status: all, active, inactive, draft")
	cmd.Flags().IntVar(&opts.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 10, "Properties per page")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}
