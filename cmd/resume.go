package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/logger"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume tools",
}

var resumeParseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Extract a structured profile from a plain-text resume",
	Args:  cobra.ExactArgs(1),
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		text, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read resume: %w", err)
		}

		parsed, err := rt.parser.ParseResume(cmd.Context(), string(text))
		if err != nil {
			return fmt.Errorf("parse resume: %w", err)
		}
		rt.logger.Info("resume parsed",
			zap.String("job_title", parsed.JobTitle),
			zap.Int("skills", len(parsed.Skills)),
			logger.Source(string(parsed.Source)),
		)

		return printJSON(cmd.OutOrStdout(), parsed)
	}),
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(resumeParseCmd)
}
