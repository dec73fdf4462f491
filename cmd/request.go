package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/jobswap/internal/swap"
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Send, accept, decline and list swap requests",
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List incoming and outgoing requests of the current employee",
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, _ []string) error {
		return printJSON(cmd.OutOrStdout(), struct {
			Incoming []swap.Request `json:"incoming"`
			Outgoing []swap.Request `json:"outgoing"`
		}{
			Incoming: rt.store.Incoming(rt.config.User),
			Outgoing: rt.store.Outgoing(rt.config.User),
		})
	}),
}

var requestSendCmd = &cobra.Command{
	Use:   "send <match-id>",
	Short: "Send a swap request to a match",
	Args:  cobra.ExactArgs(1),
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		message, _ := cmd.Flags().GetString("message")
		shareResume, _ := cmd.Flags().GetBool("share-resume")
		shareContact, _ := cmd.Flags().GetBool("share-contact")

		req, err := rt.store.Send(rt.config.User, args[0], swap.SendOptions{
			Message:      message,
			ShareResume:  shareResume,
			ShareContact: shareContact,
		})
		if err != nil {
			return err
		}
		rt.logger.Info("swap request sent", zap.String("request_id", req.ID), zap.String("to", req.ToUserName))

		if err := rt.save(); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), req)
	}),
}

var requestAcceptCmd = &cobra.Command{
	Use:   "accept <request-id>",
	Short: "Accept an incoming request and forward it to HR",
	Args:  cobra.ExactArgs(1),
	RunE: withRuntime(func(cmd *cobra.Command, rt *runtime, args []string) error {
		req, err := rt.store.Accept(rt.config.User, args[0])
		if err != nil {
			return err
		}
		rt.logger.Info("swap request accepted, queued for hr review", zap.String("request_id", req.ID))

		if err := rt.save(); err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), req)
	}),
}

var requestDeclineCmd = &cobra.Command{
	Use:   "decline <request-id>",
	Short: "Decline an incoming request",
	Args:  cobra.ExactArgs(1),
	RunE: withRuntime(func(_ *cobra.Command, rt *runtime, args []string) error {
		if err := rt.store.Decline(rt.config.User, args[0]); err != nil {
			return err
		}
		rt.logger.Info("swap request declined", zap.String("request_id", args[0]))

		return rt.save()
	}),
}

func init() {
	rootCmd.AddCommand(requestCmd)
	requestCmd.AddCommand(requestListCmd, requestSendCmd, requestAcceptCmd, requestDeclineCmd)

	requestSendCmd.Flags().StringP("message", "m", "", "message to the counterpart")
	requestSendCmd.Flags().Bool("share-resume", true, "share the resume with the counterpart")
	requestSendCmd.Flags().Bool("share-contact", true, "share contact details with the counterpart")
}

// withRuntime builds the runtime before running fn.
func withRuntime(fn func(cmd *cobra.Command, rt *runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		return fn(cmd, rt, args)
	}
}
