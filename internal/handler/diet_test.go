package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

func TestDietEntryCreateAndFilter(t *testing.T) {
	env := newTestEnv(t)

	f := decodeJSON[model.Folder](t, env.do(env.alice, "POST", "/api/folders", map[string]any{"name": "Cut", "type": "diet"}))

	rec := env.do(env.alice, "POST", "/api/diet", map[string]any{
		"date": "2024-03-15T08:00:00Z", "mealType": "breakfast", "foodName": "Oats", "calories": 350, "folderId": f.ID,
	})
	assertStatus(t, rec, http.StatusCreated)
	env.do(env.alice, "POST", "/api/diet", map[string]any{"date": "2024-03-16T12:00:00Z", "mealType": "lunch", "foodName": "Salad"})

	byFolder := decodeJSON[[]model.DietEntry](t, env.do(env.alice, "GET", "/api/diet?folderId="+f.ID, nil))
	if len(byFolder) != 1 || byFolder[0].FoodName != "Oats" {
		t.Errorf("by folder = %+v, want [Oats]", byFolder)
	}

	byDate := decodeJSON[[]model.DietEntry](t, env.do(env.alice, "GET", "/api/diet?startDate=2024-03-16&endDate=2024-03-16", nil))
	if len(byDate) != 1 || byDate[0].FoodName != "Salad" {
		t.Errorf("by date = %+v, want [Salad]", byDate)
	}
}

func TestDietEntryValidation(t *testing.T) {
	env := newTestEnv(t)

	assertError(t, env.do(env.alice, "POST", "/api/diet", map[string]any{"date": "2024-03-15T08:00:00Z", "mealType": "brunch", "foodName": "Eggs"}),
		http.StatusBadRequest, mealTypeMessage)
	assertError(t, env.do(env.alice, "POST", "/api/diet", map[string]any{"date": "2024-03-15T08:00:00Z", "mealType": "snack"}),
		http.StatusBadRequest, "foodName is required")
	assertError(t, env.do(env.alice, "POST", "/api/diet", map[string]any{"mealType": "snack", "foodName": "Nuts"}),
		http.StatusBadRequest, "date is required")
}

func TestDietEntryUpdateAndCrossUser(t *testing.T) {
	env := newTestEnv(t)

	e := decodeJSON[model.DietEntry](t, env.do(env.alice, "POST", "/api/diet", map[string]any{
		"date": "2024-03-15T08:00:00Z", "mealType": "breakfast", "foodName": "Toast", "calories": 200,
	}))

	rec := env.do(env.alice, "PUT", "/api/diet/"+e.ID, map[string]any{"calories": 0, "mealType": "snack"})
	assertStatus(t, rec, http.StatusOK)
	got := decodeJSON[model.DietEntry](t, rec)
	if got.Calories != nil {
		t.Errorf("calories = %d, want null", *got.Calories)
	}
	if got.MealType != model.MealSnack || got.FoodName != "Toast" {
		t.Errorf("got %+v", got)
	}

	assertError(t, env.do(env.alice, "PUT", "/api/diet/"+e.ID, map[string]any{"mealType": "brunch"}),
		http.StatusBadRequest, mealTypeMessage)
	assertError(t, env.do(env.bob, "GET", "/api/diet/"+e.ID, nil), http.StatusNotFound, "diet entry not found")
	assertError(t, env.do(env.bob, "DELETE", "/api/diet/"+e.ID, nil), http.StatusNotFound, "diet entry not found")
	assertStatus(t, env.do(env.alice, "DELETE", "/api/diet/"+e.ID, nil), http.StatusNoContent)
}

func TestDietPlanSingleActive(t *testing.T) {
	env := newTestEnv(t)

	assertError(t, env.do(env.alice, "GET", "/api/diet-plans/active", nil), http.StatusNotFound, "no active diet plan")

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		rec := env.do(env.alice, "POST", "/api/diet-plans", map[string]any{"name": name, "goal": "maintain", "dailyCalorieTarget": 2000})
		assertStatus(t, rec, http.StatusCreated)
		p := decodeJSON[model.DietPlan](t, rec)
		if !p.IsActive {
			t.Errorf("plan %s not active on create", name)
		}
		ids = append(ids, p.ID)
	}

	plans := decodeJSON[[]model.DietPlan](t, env.do(env.alice, "GET", "/api/diet-plans", nil))
	active := 0
	for _, p := range plans {
		if p.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("active plans = %d, want 1", active)
	}

	rec := env.do(env.alice, "PUT", "/api/diet-plans/"+ids[0], map[string]any{"isActive": true})
	assertStatus(t, rec, http.StatusOK)

	got := decodeJSON[model.DietPlan](t, env.do(env.alice, "GET", "/api/diet-plans/active", nil))
	if got.ID != ids[0] {
		t.Errorf("active = %s, want %s", got.ID, ids[0])
	}

	assertError(t, env.do(env.bob, "PUT", "/api/diet-plans/"+ids[1], map[string]any{"isActive": true}),
		http.StatusNotFound, "diet plan not found")
	if got := decodeJSON[model.DietPlan](t, env.do(env.alice, "GET", "/api/diet-plans/active", nil)); got.ID != ids[0] {
		t.Errorf("foreign activate changed active plan to %s", got.ID)
	}
}

func TestDietPlanValidation(t *testing.T) {
	env := newTestEnv(t)

	assertError(t, env.do(env.alice, "POST", "/api/diet-plans", map[string]any{"name": "Bulk", "goal": "bulk up"}),
		http.StatusBadRequest, "goal must be one of "+dietGoalList)

	p := decodeJSON[model.DietPlan](t, env.do(env.alice, "POST", "/api/diet-plans", map[string]any{"name": "Lean", "goal": "lose weight"}))
	assertError(t, env.do(env.alice, "PUT", "/api/diet-plans/"+p.ID, map[string]any{"goal": "nope"}),
		http.StatusBadRequest, "goal must be one of "+dietGoalList)
}

func TestDietEntryUpdateForeignRowWithFolderIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	aliceFolder := decodeJSON[model.Folder](t, env.do(env.alice, "POST", "/api/folders", map[string]any{"name": "Cut", "type": "diet"}))
	e := decodeJSON[model.DietEntry](t, env.do(env.alice, "POST", "/api/diet", map[string]any{
		"date": "2024-03-15T08:00:00Z", "mealType": "breakfast", "foodName": "Oats",
	}))

	assertError(t, env.do(env.bob, "PUT", "/api/diet/"+e.ID, map[string]any{"folderId": aliceFolder.ID}),
		http.StatusNotFound, "diet entry not found")
	assertError(t, env.do(env.alice, "PUT", "/api/diet/does-not-exist", map[string]any{"folderId": "nope"}),
		http.StatusNotFound, "diet entry not found")

	// The owner still gets the folder check.
	bobFolder := decodeJSON[model.Folder](t, env.do(env.bob, "POST", "/api/folders", map[string]any{"name": "Bob", "type": "diet"}))
	assertError(t, env.do(env.alice, "PUT", "/api/diet/"+e.ID, map[string]any{"folderId": bobFolder.ID}),
		http.StatusBadRequest, "folder not found")
}

func TestDietEntryDateOnly(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(env.alice, "POST", "/api/diet", map[string]any{"date": "2024-03-15", "mealType": "lunch", "foodName": "Soup"})
	assertStatus(t, rec, http.StatusCreated)
	e := decodeJSON[model.DietEntry](t, rec)
	if want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC); !e.Date.Equal(want) {
		t.Errorf("date = %v, want %v", e.Date, want)
	}

	rec = env.do(env.alice, "PUT", "/api/diet/"+e.ID, map[string]any{"date": "2024-03-16"})
	assertStatus(t, rec, http.StatusOK)
	if got := decodeJSON[model.DietEntry](t, rec); !got.Date.Equal(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("updated date = %v, want 2024-03-16", got.Date)
	}

	assertError(t, env.do(env.alice, "POST", "/api/diet", map[string]any{"date": "yesterday", "mealType": "lunch", "foodName": "Soup"}),
		http.StatusBadRequest, dateMessage)
}
