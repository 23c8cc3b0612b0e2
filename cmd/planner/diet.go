package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/view"
)

var dietCmd = &cobra.Command{
	Use:   "diet",
	Short: "Log and review meals",
}

var dietLogCmd = &cobra.Command{
	Use:   "log <meal-type> <food>",
	Short: "Log a meal (breakfast, lunch, dinner or snack)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		when := time.Now().UTC()
		if v, _ := cmd.Flags().GetString("at"); v != "" {
			t, err := parseWhen(v)
			if err != nil {
				return err
			}
			when = t
		}
		in := client.DietEntryInput{Date: when, MealType: model.MealType(args[0]), FoodName: args[1]}
		if cmd.Flags().Changed("calories") {
			c, _ := cmd.Flags().GetInt("calories")
			in.Calories = &c
		}
		if v, _ := cmd.Flags().GetString("notes"); v != "" {
			in.Notes = &v
		}
		if prefix, _ := cmd.Flags().GetString("folder"); prefix != "" {
			folderID, err := resolveFolder(ctx, prefix)
			if err != nil {
				return err
			}
			in.FolderID = &folderID
		}

		screen := view.NewDietScreen(api)
		if err := screen.LogMeal(ctx, in); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(screen.Notice))
		return nil
	},
}

var dietListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the active plan and logged meals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		screen := view.NewDietScreen(api)
		screen.Filter.Range = rangeFromFlags(cmd)
		if prefix, _ := cmd.Flags().GetString("folder"); prefix != "" {
			folderID, err := resolveFolder(ctx, prefix)
			if err != nil {
				return err
			}
			screen.Filter.FolderID = folderID
		}
		if err := screen.Load(ctx); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Print(view.RenderDiet(screen))
		return nil
	},
}

var dietRmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Delete a logged meal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := resolveEntry(ctx, args[0])
		if err != nil {
			return err
		}
		screen := view.NewDietScreen(api)
		if err := screen.DeleteEntry(ctx, id); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(screen.Notice))
		return nil
	},
}

func resolveEntry(ctx context.Context, prefix string) (string, error) {
	entries, err := api.ListDietEntries(ctx, client.DietFilter{})
	if err != nil {
		return "", err
	}
	return resolveID("diet entry", prefix, entries, func(e model.DietEntry) string { return e.ID })
}

func init() {
	dietLogCmd.Flags().String("at", "", `when it was eaten, "YYYY-MM-DD HH:MM" UTC (default now)`)
	dietLogCmd.Flags().Int("calories", 0, "calories")
	dietLogCmd.Flags().String("notes", "", "notes")
	dietLogCmd.Flags().String("folder", "", "diet folder id prefix")

	dietListCmd.Flags().String("from", "", "start date (YYYY-MM-DD)")
	dietListCmd.Flags().String("to", "", "end date, inclusive (YYYY-MM-DD)")
	dietListCmd.Flags().String("folder", "", "diet folder id prefix")

	dietCmd.AddCommand(dietLogCmd, dietListCmd, dietRmCmd)
	rootCmd.AddCommand(dietCmd)
}
