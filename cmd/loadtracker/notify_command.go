package main

import (
	"fmt"
	"io"

	"loadtracker/internal/app"
	"loadtracker/internal/domain/cycle"

	"github.com/spf13/cobra"
)

func newNotifyCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send tomorrow's reminder once and exit",
		Long: "Runs the daily trigger a single time, for use from an external scheduler.\n" +
			"A reminder already sent for the same target date is skipped unless --force is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rt, err := buildRuntime(cmd.Context(), cfg, runtimeOptions{withBot: len(cfg.TelegramChatIDs) > 0})
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := rt.reminders.SendTomorrowReminder(cmd.Context(), ctx.today(), app.SendOptions{Force: force})
			if err != nil {
				return err
			}
			printSendResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Send even if tomorrow's reminder already went out")
	return cmd
}

func printSendResult(out io.Writer, res *app.SendResult) {
	target := res.Reminder.Date.Format(cycle.DateLayout)
	if res.Skipped {
		fmt.Fprintf(out, "Reminder for %s already sent; use --force to send again\n", target)
		return
	}
	fmt.Fprintf(out, "Sent %q for %s (ISO week %d, %s)\n", res.Reminder.Title, target, res.Reminder.ISOWeek, res.Reminder.Phase.DisplayName())
	if res.Receipt.ID != "" {
		fmt.Fprintf(out, "Provider: %s  ID: %s  Recipients: %d\n", res.Receipt.Provider, res.Receipt.ID, res.Receipt.Recipients)
	}
	if res.Receipt.MirrorErr != nil {
		fmt.Fprintf(out, "Mirror failed: %v\n", res.Receipt.MirrorErr)
	}
	if res.Receipt.Note != "" {
		fmt.Fprintf(out, "Note: %s\n", res.Receipt.Note)
	}
}
