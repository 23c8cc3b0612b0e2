package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/view"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage diet plans",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List diet plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plans, err := api.ListDietPlans(cmd.Context())
		if err != nil {
			return err
		}
		screen := &view.DietScreen{Plans: plans}
		for i := range plans {
			if plans[i].IsActive {
				screen.Active = &plans[i]
			}
		}
		fmt.Print(view.RenderDiet(screen))
		return nil
	},
}

var plansAddCmd = &cobra.Command{
	Use:   "add <name> <goal>",
	Short: `Create a plan and make it active; goal is "lose weight", "gain muscle", "maintain" or "custom"`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := client.DietPlanInput{Name: args[0], Goal: model.DietGoal(args[1])}
		for flag, dst := range map[string]**int{
			"calories": &in.DailyCalorieTarget,
			"protein":  &in.DailyProteinTarget,
			"water":    &in.DailyWaterTarget,
		} {
			if cmd.Flags().Changed(flag) {
				v, _ := cmd.Flags().GetInt(flag)
				*dst = &v
			}
		}
		if v, _ := cmd.Flags().GetString("notes"); v != "" {
			in.Notes = &v
		}

		screen := view.NewDietScreen(api)
		if err := screen.CreatePlan(cmd.Context(), in); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(screen.Notice))
		return nil
	},
}

var plansActivateCmd = &cobra.Command{
	Use:   "activate <id-prefix>",
	Short: "Make a plan the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		screen := view.NewDietScreen(api)
		if err := screen.Load(ctx); err != nil {
			return screenErr(screen.Notice, err)
		}
		id, err := resolveID("plan", args[0], screen.Plans, func(p model.DietPlan) string { return p.ID })
		if err != nil {
			return err
		}
		if err := screen.ActivatePlan(ctx, id); err != nil {
			return screenErr(screen.Notice, err)
		}
		fmt.Println(view.Success(screen.Notice))
		return nil
	},
}

var plansActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "Show the active plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := api.ActiveDietPlan(cmd.Context())
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("No active diet plan")
			return nil
		}
		fmt.Print(view.RenderDiet(&view.DietScreen{Active: p, Plans: []model.DietPlan{*p}}))
		return nil
	},
}

func init() {
	plansAddCmd.Flags().Int("calories", 0, "daily calorie target")
	plansAddCmd.Flags().Int("protein", 0, "daily protein target in grams")
	plansAddCmd.Flags().Int("water", 0, "daily water target in ml")
	plansAddCmd.Flags().String("notes", "", "notes")

	plansCmd.AddCommand(plansListCmd, plansAddCmd, plansActivateCmd, plansActiveCmd)
	rootCmd.AddCommand(plansCmd)
}
