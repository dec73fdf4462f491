package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/compat"
	"github.com/spigell/jobswap/internal/filtering"
	"github.com/spigell/jobswap/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank swap partners for the current employee",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
		return runRecommend(cmd, rt)
	}),
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringSlice("skip-filter", nil, "disable a candidate filter by name (repeatable)")
}

type recommendOutput struct {
	User            string                     `json:"user"`
	Filters         []filtering.Status         `json:"filters"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

func runRecommend(cmd *cobra.Command, rt *runtime) error {
	ctx := cmd.Context()

	user, err := rt.store.Employee(rt.config.User)
	if err != nil {
		return fmt.Errorf("current user: %w", err)
	}

	candidates, err := rt.store.Matches(user.ID)
	if err != nil {
		return fmt.Errorf("getting matches: %w", err)
	}
	rt.logger.Info("getting matches", zap.String("user", user.ID), zap.Int("count", len(candidates)))

	steps := filtering.Default()
	skipped, err := cmd.Flags().GetStringSlice("skip-filter")
	if err != nil {
		return err
	}
	for _, name := range skipped {
		filtering.DisableByName(steps, name, "disabled with --skip-filter")
	}
	deps := filtering.Deps{Logger: rt.logger, Store: rt.store, UserID: user.ID}
	filtered, err := filtering.Run(ctx, &rt.config.Filters, deps, steps, filtering.NewMatches(candidates))
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}

	if filtered.Len() == 0 {
		rt.logger.Info("no matches left after filters")
	}

	scorer, err := rt.scorer()
	if err != nil {
		return err
	}
	ranker, err := recommend.New(scorer, rt.config.Recommend, rt.logger)
	if err != nil {
		return err
	}

	recs, err := ranker.Rank(ctx, compat.Party{JobTitle: user.JobTitle, Skills: user.Skills}, filtered.Items)
	if err != nil {
		return fmt.Errorf("ranking matches: %w", err)
	}

	return printJSON(cmd.OutOrStdout(), recommendOutput{
		User:            user.ID,
		Filters:         filtering.Describe(steps),
		Recommendations: recs,
	})
}
