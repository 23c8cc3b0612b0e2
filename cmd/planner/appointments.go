package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/view"
)

var appointmentsCmd = &cobra.Command{
	Use:     "appointments",
	Aliases: []string{"appt"},
	Short:   "Manage appointments",
}

var appointmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments, optionally within --from/--to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appts, err := api.ListAppointments(cmd.Context(), rangeFromFlags(cmd))
		if err != nil {
			return err
		}
		if len(appts) == 0 {
			fmt.Println("No appointments")
			return nil
		}
		for _, a := range appts {
			reminder := "no reminder"
			if a.ReminderEnabled {
				reminder = fmt.Sprintf("reminder %dm before", a.ReminderMinutes)
			}
			fmt.Printf("  %s  %s  %s  (%s)\n", shortID(a.ID), a.Date.Format(whenLayout), a.Title, reminder)
		}
		return nil
	},
}

var appointmentsAddCmd = &cobra.Command{
	Use:   "add <title> <when>",
	Short: `Add an appointment; <when> is "YYYY-MM-DD HH:MM" (UTC) or RFC3339`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		when, err := parseWhen(args[1])
		if err != nil {
			return err
		}

		in := client.AppointmentInput{Title: args[0], Date: when}
		if v, _ := cmd.Flags().GetString("location"); v != "" {
			in.Location = &v
		}
		if v, _ := cmd.Flags().GetString("description"); v != "" {
			in.Description = &v
		}
		if cmd.Flags().Changed("remind") {
			m, _ := cmd.Flags().GetInt("remind")
			in.ReminderMinutes = &m
		}
		if off, _ := cmd.Flags().GetBool("no-reminder"); off {
			enabled := false
			in.ReminderEnabled = &enabled
		}

		screen := view.NewCalendarScreen(api)
		if err := screen.LoadMonth(ctx, when); err != nil {
			return screenErr(screen.Notice, err)
		}
		if err := screen.AddAppointment(ctx, in); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(screen.Notice))
		fmt.Print(view.RenderMonth(&view.CalendarScreen{Month: screen.Month, Days: screen.Days}))
		return nil
	},
}

var appointmentsRmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Delete an appointment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		appts, err := api.ListAppointments(ctx, nil)
		if err != nil {
			return err
		}
		id, err := resolveID("appointment", args[0], appts, func(a model.Appointment) string { return a.ID })
		if err != nil {
			return err
		}
		screen := view.NewCalendarScreen(api)
		if err := screen.DeleteAppointment(ctx, id); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(screen.Notice))
		return nil
	},
}

const whenLayout = "2006-01-02 15:04"

// parseWhen reads "YYYY-MM-DD HH:MM" as UTC, or a full RFC3339 timestamp.
func parseWhen(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(whenLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected \"YYYY-MM-DD HH:MM\" or RFC3339", s)
	}
	return t, nil
}

// rangeFromFlags returns nil unless both --from and --to are set.
func rangeFromFlags(cmd *cobra.Command) *client.Range {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == "" || to == "" {
		return nil
	}
	return &client.Range{Start: from, End: to}
}

func init() {
	appointmentsListCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	appointmentsListCmd.Flags().String("to", "", "end date, inclusive (YYYY-MM-DD)")

	appointmentsAddCmd.Flags().String("location", "", "where it takes place")
	appointmentsAddCmd.Flags().String("description", "", "details")
	appointmentsAddCmd.Flags().Int("remind", model.DefaultReminderMinutes, "reminder lead time in minutes")
	appointmentsAddCmd.Flags().Bool("no-reminder", false, "disable the push reminder")

	appointmentsCmd.AddCommand(appointmentsListCmd, appointmentsAddCmd, appointmentsRmCmd)
	rootCmd.AddCommand(appointmentsCmd)
}
