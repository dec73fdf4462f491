package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/spigell/jobswap/internal/commute"
)

var impactCmd = &cobra.Command{
	Use:   "impact",
	Short: "Estimate the impact of a commute change",
	RunE: func(cmd *cobra.Command, _ []string) error {
		before, _ := cmd.Flags().GetFloat64("before")
		after, _ := cmd.Flags().GetFloat64("after")
		if before < 0 || after < 0 {
			return errors.New("commute minutes must not be negative")
		}

		config, err := getConfig()
		if err != nil {
			return err
		}

		impact := commute.Estimate(commute.Pair{Before: before, After: after}, config.Commute)

		return printJSON(cmd.OutOrStdout(), struct {
			commute.Impact
			Description string `json:"description"`
		}{
			Impact:      impact,
			Description: commute.Describe(impact),
		})
	},
}

func init() {
	rootCmd.AddCommand(impactCmd)

	impactCmd.Flags().Float64("before", 0, "one-way commute before the swap, minutes")
	impactCmd.Flags().Float64("after", 0, "one-way commute after the swap, minutes")
	impactCmd.MarkFlagRequired("before")
	impactCmd.MarkFlagRequired("after")
}
