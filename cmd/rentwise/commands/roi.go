package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/rentwise/cmd/rentwise/handlers"
	"github.com/imamik/rentwise/internal/pricing"
)

// ROI returns the command for the time savings estimate.
func ROI() *cobra.Command {
	var in pricing.ROIInput
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "roi",
		Short: "Estimate the return on automating listing work",
		Long: `Estimate annual savings and return on investment.

  weekly savings = team size x hours saved per week x hourly rate
  annual savings = weekly savings x 52
  ROI            = (annual savings - cost) / cost x 100

Results below zero are shown as zero.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ROI(cmd.OutOrStdout(), in, jsonOutput)
		},
	}

	cmd.Flags().Float64Var(&in.TeamSize, "team", 5, "Number of people doing listing work")
	cmd.Flags().Float64Var(&in.HoursPerWeek, "hours", 10, "Hours saved per person per week")
	cmd.Flags().Float64Var(&in.HourlyRate, "rate", 50, "Hourly cost in USD")
	cmd.Flags().Float64Var(&in.ImplementationCost, "cost", 10000, "One-time implementation cost in USD")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
