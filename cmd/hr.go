package cmd

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/hr"
	"github.com/spigell/jobswap/internal/swap"
)

const (
	PromptApprove = "Approve"
	PromptReject  = "Reject"
	PromptSkip    = "Skip"
	PromptQuit    = "Quit"
)

var errExit = errors.New("exit requested")

var hrCmd = &cobra.Command{
	Use:   "hr",
	Short: "HR queue analysis and review",
}

var hrAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyse HR requests and print the queue KPIs",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
		raw, _ := cmd.Flags().GetString("status")
		search, _ := cmd.Flags().GetString("search")

		status, err := swap.ParseStatus(raw)
		if err != nil {
			return fmt.Errorf("--status: %w", err)
		}
		return runHRAnalyze(cmd, rt, swap.Query{Search: search, Status: status})
	}),
}

var hrReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Interactively approve or reject open HR requests",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
		return runHRReview(cmd, rt)
	}),
}

func init() {
	rootCmd.AddCommand(hrCmd)
	hrCmd.AddCommand(hrAnalyzeCmd, hrReviewCmd)

	hrAnalyzeCmd.Flags().String("status", string(swap.StatusAll), "status to show (pending, peer_accepted, hr_review, approved, rejected or all)")
	hrAnalyzeCmd.Flags().String("search", "", "filter by employee name")
}

type hrOutput struct {
	Summary  swap.Summary  `json:"summary"`
	Analyses []hr.Analysis `json:"analyses"`
}

func newAdvisor(rt *runtime) (*hr.Advisor, error) {
	scorer, err := rt.scorer()
	if err != nil {
		return nil, err
	}
	return hr.New(scorer, rt.config.Commute, rt.logger)
}

func runHRAnalyze(cmd *cobra.Command, rt *runtime, q swap.Query) error {
	advisor, err := newAdvisor(rt)
	if err != nil {
		return err
	}

	queue := rt.store.HRQueue(q)
	analyses := make([]hr.Analysis, 0, len(queue))
	for _, req := range queue {
		analysis, err := advisor.Analyze(cmd.Context(), req)
		if err != nil {
			return err
		}
		analyses = append(analyses, analysis)
	}

	return printJSON(cmd.OutOrStdout(), hrOutput{Summary: rt.store.Summary(), Analyses: analyses})
}

func runHRReview(cmd *cobra.Command, rt *runtime) error {
	advisor, err := newAdvisor(rt)
	if err != nil {
		return err
	}

	changed := false
	for _, req := range rt.store.HRQueue(swap.Query{}) {
		if !req.Status.Open() {
			continue
		}

		analysis, err := advisor.Analyze(cmd.Context(), req)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s → %s (%s)\n  AI: %s, confidence %d%%, score %d\n  %s\n",
			req.ID, req.FromUserName, req.ToUserName, req.Status,
			analysis.Recommendation, analysis.Confidence, analysis.Score, analysis.Reasoning,
		)

		prompt := promptui.Select{
			Label: "Decision",
			Items: []string{PromptApprove, PromptReject, PromptSkip, PromptQuit},
		}
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		done, err := handleDecision(rt, action, req.ID)
		if errors.Is(err, errExit) {
			break
		}
		if err != nil {
			return err
		}
		changed = changed || done
	}

	if !changed {
		return nil
	}
	return rt.save()
}

func handleDecision(rt *runtime, action, id string) (bool, error) {
	switch action {
	case PromptApprove:
		if _, err := rt.store.Approve(id); err != nil {
			return false, err
		}
		rt.logger.Info("request approved", zap.String("request_id", id))
		return true, nil
	case PromptReject:
		if _, err := rt.store.Reject(id); err != nil {
			return false, err
		}
		rt.logger.Info("request rejected", zap.String("request_id", id))
		return true, nil
	case PromptSkip:
		return false, nil
	case PromptQuit:
		return false, errExit
	default:
		return false, fmt.Errorf("invalid action: %s", action)
	}
}
