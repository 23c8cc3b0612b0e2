package handler

import (
	"net/http"
	"testing"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/calendar"
)

func seedCalendar(t *testing.T, env *testEnv) {
	t.Helper()
	posts := []struct {
		path string
		body map[string]any
	}{
		{"/api/appointments", map[string]any{"title": "Standup", "date": "2024-03-15T09:00:00Z"}},
		{"/api/appointments", map[string]any{"title": "Late", "date": "2024-03-15T23:59:59.999Z"}},
		{"/api/appointments", map[string]any{"title": "Next day", "date": "2024-03-16T00:00:00Z"}},
		{"/api/diet", map[string]any{"date": "2024-03-15T08:00:00Z", "mealType": "breakfast", "foodName": "Oats", "calories": 300}},
		{"/api/diet", map[string]any{"date": "2024-03-15T13:00:00Z", "mealType": "lunch", "foodName": "Soup", "calories": 50}},
		{"/api/diet", map[string]any{"date": "2024-03-20T19:00:00Z", "mealType": "dinner", "foodName": "Pasta", "calories": 50}},
	}
	for _, p := range posts {
		assertStatus(t, env.do(env.alice, "POST", p.path, p.body), http.StatusCreated)
	}
	// Another user's data never shows up.
	env.do(env.bob, "POST", "/api/appointments", map[string]any{"title": "Bob", "date": "2024-03-15T10:00:00Z"})
}

func TestCalendarDay(t *testing.T) {
	env := newTestEnv(t)
	seedCalendar(t, env)

	rec := env.do(env.alice, "GET", "/api/calendar/day/2024-03-15", nil)
	assertStatus(t, rec, http.StatusOK)
	day := decodeJSON[calendar.DayView](t, rec)

	if day.Date != "2024-03-15" {
		t.Errorf("date = %q", day.Date)
	}
	if len(day.Appointments) != 2 {
		t.Errorf("appointments = %d, want 2", len(day.Appointments))
	}
	if len(day.DietEntries.Breakfast) != 1 || len(day.DietEntries.Lunch) != 1 {
		t.Errorf("meals = %+v", day.DietEntries)
	}
	if day.DietEntries.Snack == nil || day.DietEntries.Dinner == nil {
		t.Error("empty meal buckets must be arrays")
	}
	want := calendar.DailyStats{TotalCalories: 350, MealCount: 2, AppointmentCount: 2}
	if day.DailyStats != want {
		t.Errorf("stats = %+v, want %+v", day.DailyStats, want)
	}

	assertError(t, env.do(env.alice, "GET", "/api/calendar/day/15-03-2024", nil), http.StatusBadRequest, "invalid date")
}

func TestCalendarMonth(t *testing.T) {
	env := newTestEnv(t)
	seedCalendar(t, env)

	rec := env.do(env.alice, "GET", "/api/calendar/month/2024-03", nil)
	assertStatus(t, rec, http.StatusOK)
	month := decodeJSON[calendar.MonthView](t, rec)

	if month.Month != "2024-03" {
		t.Errorf("month = %q", month.Month)
	}
	if len(month.Days) != 3 {
		t.Fatalf("days = %+v, want 3 sparse days", month.Days)
	}
	first := month.Days[0]
	if first.Date != "2024-03-15" || first.TotalCalories != 350 || first.MealCount != 2 || first.AppointmentCount != 2 || !first.HasEvents {
		t.Errorf("first day = %+v", first)
	}
	if month.Days[2].Date != "2024-03-20" || month.Days[2].TotalCalories != 50 {
		t.Errorf("last day = %+v", month.Days[2])
	}

	assertError(t, env.do(env.alice, "GET", "/api/calendar/month/2024-13", nil),
		http.StatusBadRequest, "invalid month, expected YYYY-MM")
}

func TestCalendarEvents(t *testing.T) {
	env := newTestEnv(t)
	seedCalendar(t, env)

	rec := env.do(env.alice, "GET", "/api/calendar/events?startDate=2024-03-15&endDate=2024-03-15", nil)
	assertStatus(t, rec, http.StatusOK)
	view := decodeJSON[calendar.RangeView](t, rec)

	if len(view.Appointments) != 2 || len(view.DietEntries) != 2 {
		t.Fatalf("got %d appointments, %d entries; want 2, 2", len(view.Appointments), len(view.DietEntries))
	}
	if view.Appointments[0].Type != "appointment" || view.DietEntries[0].Type != "diet" {
		t.Errorf("tags = %q/%q", view.Appointments[0].Type, view.DietEntries[0].Type)
	}

	assertError(t, env.do(env.alice, "GET", "/api/calendar/events?startDate=2024-03-15", nil),
		http.StatusBadRequest, "startDate and endDate are required")
}
