package main

import (
	"fmt"
	"strconv"

	"loadtracker/internal/domain/cycle"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newPhaseCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "phase [YYYY-MM-DD]",
		Short:       "Show whether a date falls in a Load or Deload week",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			day := ctx.today()
			if len(args) == 1 {
				parsed, err := cycle.ParseDate(args[0], ctx.location())
				if err != nil {
					return err
				}
				day = parsed
			}

			r, err := cycle.ForDate(day)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %d-W%02d  %s\n", r.Date.Format(cycle.DateLayout), r.ISOYear, r.ISOWeek, r.Phase.DisplayName())
			return nil
		},
	}
}

func newCalendarCommand(ctx *commandContext) *cobra.Command {
	var weeks int

	cmd := &cobra.Command{
		Use:         "calendar",
		Short:       "List the phase of upcoming weeks",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			reminders, err := cycle.Upcoming(ctx.today(), weeks)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCalendar(reminders))
			return nil
		},
	}

	cmd.Flags().IntVarP(&weeks, "weeks", "w", 8, "Number of weeks to list")
	return cmd
}

func renderCalendar(reminders []cycle.Reminder) string {
	rows := make([][]string, 0, len(reminders))
	for _, r := range reminders {
		rows = append(rows, []string{
			r.Date.Format(cycle.DateLayout),
			strconv.Itoa(r.ISOYear),
			strconv.Itoa(r.ISOWeek),
			r.Phase.DisplayName(),
		})
	}
	return renderTable([]column{
		{title: "Week of"},
		{title: "ISO Year", align: text.AlignRight},
		{title: "Week", align: text.AlignRight},
		{title: "Phase"},
	}, rows)
}
