package model

import "time"

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists meal types in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

type DietEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FolderID  *string   `json:"folderId"`
	Date      time.Time `json:"date"`
	MealType  MealType  `json:"mealType"`
	FoodName  string    `json:"foodName"`
	Calories  *int      `json:"calories"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type DietGoal string

const (
	GoalLoseWeight DietGoal = "lose weight"
	GoalGainMuscle DietGoal = "gain muscle"
	GoalMaintain   DietGoal = "maintain"
	GoalCustom     DietGoal = "custom"
)

var DietGoals = []DietGoal{GoalLoseWeight, GoalGainMuscle, GoalMaintain, GoalCustom}

func ValidDietGoal(g string) bool {
	for _, goal := range DietGoals {
		if string(goal) == g {
			return true
		}
	}
	return false
}

type DietPlan struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Name               string    `json:"name"`
	Goal               DietGoal  `json:"goal"`
	DailyCalorieTarget *int      `json:"dailyCalorieTarget"`
	DailyProteinTarget *int      `json:"dailyProteinTarget"`
	DailyWaterTarget   *int      `json:"dailyWaterTarget"`
	Notes              *string   `json:"notes"`
	IsActive           bool      `json:"isActive"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
