package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/calendar"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/view"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show day and month views",
}

var calendarDayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show a day's appointments and meals (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day := time.Now().UTC()
		if len(args) == 1 {
			t, err := calendar.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q", args[0])
			}
			day = t
		}

		screen := view.NewCalendarScreen(api)
		if err := screen.SelectDay(cmd.Context(), day); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Print(view.RenderDay(screen.Selected))
		return nil
	},
}

var calendarMonthCmd = &cobra.Command{
	Use:   "month [YYYY-MM]",
	Short: "Show a month grid with per-day totals (default this month)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month := time.Now().UTC()
		if len(args) == 1 {
			t, err := calendar.ParseMonth(args[0])
			if err != nil {
				return fmt.Errorf("invalid month %q, expected YYYY-MM", args[0])
			}
			month = t
		}

		screen := view.NewCalendarScreen(api)
		if err := screen.LoadMonth(cmd.Context(), month); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Print(view.RenderMonth(screen))
		return nil
	},
}

func init() {
	calendarCmd.AddCommand(calendarDayCmd, calendarMonthCmd)
	rootCmd.AddCommand(calendarCmd)
}
