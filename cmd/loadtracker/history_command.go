package main

import (
	"fmt"
	"strconv"
	"time"

	"loadtracker/internal/domain/cycle"
	"loadtracker/internal/domain/dispatch"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent reminder runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rt, err := buildRuntime(cmd.Context(), cfg, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			dispatches, err := rt.reminders.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(dispatches) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No reminders have been sent yet")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistory(dispatches, ctx.location()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show")
	return cmd
}

func renderHistory(dispatches []*dispatch.Dispatch, loc *time.Location) string {
	rows := make([][]string, 0, len(dispatches))
	for _, d := range dispatches {
		detail := d.ProviderID
		if d.ErrorMessage != "" {
			detail = d.ErrorMessage
		}
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.TargetDate.Format(cycle.DateLayout),
			strconv.Itoa(d.ISOWeek),
			d.Phase.DisplayName(),
			string(d.Status),
			d.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			detail,
		})
	}
	return renderTable([]column{
		{title: "ID", align: text.AlignRight},
		{title: "Target"},
		{title: "Week", align: text.AlignRight},
		{title: "Phase"},
		{title: "Status"},
		{title: "Sent At"},
		{title: "Detail"},
	}, rows)
}
