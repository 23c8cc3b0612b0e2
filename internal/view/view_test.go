package view

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/calendar"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

// fakeAPI serves every screen from in-memory slices. Setting fail makes the
// named method return an error.
type fakeAPI struct {
	folders []model.Folder
	notes   []model.Note
	plans   []model.DietPlan
	entries []model.DietEntry
	month   *calendar.MonthView
	day     *calendar.DayView
	fail    map[string]error
	calls   []string
	nextID  int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{fail: map[string]error{}}
}

func (f *fakeAPI) call(name string) error {
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeAPI) id() string {
	f.nextID++
	return "id-" + string(rune('a'+f.nextID-1))
}

func (f *fakeAPI) ListFolders(context.Context, model.FolderType) ([]model.Folder, error) {
	if err := f.call("ListFolders"); err != nil {
		return nil, err
	}
	return append([]model.Folder(nil), f.folders...), nil
}

func (f *fakeAPI) CreateFolder(_ context.Context, in client.FolderInput) (*model.Folder, error) {
	if err := f.call("CreateFolder"); err != nil {
		return nil, err
	}
	folder := model.Folder{ID: f.id(), Name: in.Name, Type: in.Type, Color: "blue"}
	f.folders = append(f.folders, folder)
	return &folder, nil
}

func (f *fakeAPI) DeleteFolder(context.Context, string) error {
	return f.call("DeleteFolder")
}

func (f *fakeAPI) ListNotes(_ context.Context, folderID string) ([]model.Note, error) {
	if err := f.call("ListNotes"); err != nil {
		return nil, err
	}
	var out []model.Note
	for _, n := range f.notes {
		if folderID == "" || (n.FolderID != nil && *n.FolderID == folderID) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeAPI) CreateNote(_ context.Context, in client.NoteInput) (*model.Note, error) {
	if err := f.call("CreateNote"); err != nil {
		return nil, err
	}
	n := model.Note{ID: f.id(), FolderID: in.FolderID, Title: in.Title, Content: in.Content, Tags: in.Tags}
	f.notes = append(f.notes, n)
	return &n, nil
}

func (f *fakeAPI) UpdateNote(_ context.Context, id string, p client.NotePatch) (*model.Note, error) {
	if err := f.call("UpdateNote"); err != nil {
		return nil, err
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			if p.Title.Set {
				f.notes[i].Title = p.Title.Value
			}
			n := f.notes[i]
			return &n, nil
		}
	}
	return nil, &client.APIError{Status: 404, Message: "note not found"}
}

func (f *fakeAPI) DeleteNote(context.Context, string) error {
	return f.call("DeleteNote")
}

func (f *fakeAPI) CalendarMonth(context.Context, string) (*calendar.MonthView, error) {
	if err := f.call("CalendarMonth"); err != nil {
		return nil, err
	}
	return f.month, nil
}

func (f *fakeAPI) CalendarDay(context.Context, string) (*calendar.DayView, error) {
	if err := f.call("CalendarDay"); err != nil {
		return nil, err
	}
	return f.day, nil
}

func (f *fakeAPI) CreateAppointment(_ context.Context, in client.AppointmentInput) (*model.Appointment, error) {
	if err := f.call("CreateAppointment"); err != nil {
		return nil, err
	}
	return &model.Appointment{ID: f.id(), Title: in.Title, Date: in.Date}, nil
}

func (f *fakeAPI) DeleteAppointment(context.Context, string) error {
	return f.call("DeleteAppointment")
}

func (f *fakeAPI) ListDietPlans(context.Context) ([]model.DietPlan, error) {
	if err := f.call("ListDietPlans"); err != nil {
		return nil, err
	}
	return append([]model.DietPlan(nil), f.plans...), nil
}

func (f *fakeAPI) ActiveDietPlan(context.Context) (*model.DietPlan, error) {
	if err := f.call("ActiveDietPlan"); err != nil {
		return nil, err
	}
	for _, p := range f.plans {
		if p.IsActive {
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeAPI) CreateDietPlan(_ context.Context, in client.DietPlanInput) (*model.DietPlan, error) {
	if err := f.call("CreateDietPlan"); err != nil {
		return nil, err
	}
	p := model.DietPlan{ID: f.id(), Name: in.Name, Goal: in.Goal, IsActive: true}
	return &p, nil
}

func (f *fakeAPI) ActivateDietPlan(_ context.Context, id string) (*model.DietPlan, error) {
	if err := f.call("ActivateDietPlan"); err != nil {
		return nil, err
	}
	for _, p := range f.plans {
		if p.ID == id {
			p.IsActive = true
			return &p, nil
		}
	}
	return nil, &client.APIError{Status: 404, Message: "diet plan not found"}
}

func (f *fakeAPI) ListDietEntries(context.Context, client.DietFilter) ([]model.DietEntry, error) {
	if err := f.call("ListDietEntries"); err != nil {
		return nil, err
	}
	return append([]model.DietEntry(nil), f.entries...), nil
}

func (f *fakeAPI) CreateDietEntry(_ context.Context, in client.DietEntryInput) (*model.DietEntry, error) {
	if err := f.call("CreateDietEntry"); err != nil {
		return nil, err
	}
	return &model.DietEntry{ID: f.id(), Date: in.Date, MealType: in.MealType, FoodName: in.FoodName, Calories: in.Calories}, nil
}

func (f *fakeAPI) DeleteDietEntry(context.Context, string) error {
	return f.call("DeleteDietEntry")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errServer = &client.APIError{Status: 500, Message: "internal server error"}

func TestNotesLoadFolderFailureNotFatal(t *testing.T) {
	api := newFakeAPI()
	api.notes = []model.Note{{ID: "n1", Title: "Groceries"}}
	api.fail["ListFolders"] = errors.New("boom")

	s := NewNotesScreen(api, discardLogger())
	s.Folders = []model.Folder{{ID: "f-old", Name: "Old"}}
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Notes) != 1 {
		t.Errorf("notes = %d, want 1", len(s.Notes))
	}
	if len(s.Folders) != 1 || s.Folders[0].ID != "f-old" {
		t.Errorf("folders changed: %+v", s.Folders)
	}
	if s.Notice != "" {
		t.Errorf("notice = %q, want none", s.Notice)
	}
}

func TestNotesLoadNoteFailureVisible(t *testing.T) {
	api := newFakeAPI()
	api.fail["ListNotes"] = errServer

	s := NewNotesScreen(api, discardLogger())
	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if s.Notice != "Could not load notes: internal server error" {
		t.Errorf("notice = %q", s.Notice)
	}
}

func TestNotesSaveCreatesInSelectedFolder(t *testing.T) {
	api := newFakeAPI()
	s := NewNotesScreen(api, discardLogger())
	ctx := context.Background()

	if err := s.CreateFolder(ctx, "Work", ""); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	folderID := s.Folders[0].ID
	if err := s.SelectFolder(ctx, folderID); err != nil {
		t.Fatalf("SelectFolder: %v", err)
	}

	s.OpenEditor(nil)
	if err := s.SaveNote(ctx, "Standup", "notes", []string{"daily"}); err != nil {
		t.Fatalf("SaveNote: %v", err)
	}
	if s.ModalOpen || s.Editing != nil {
		t.Error("modal should close after save")
	}
	if len(s.Notes) != 1 || s.Notes[0].FolderID == nil || *s.Notes[0].FolderID != folderID {
		t.Fatalf("notes = %+v", s.Notes)
	}

	s.OpenEditor(&s.Notes[0])
	if err := s.SaveNote(ctx, "Retro", "notes", nil); err != nil {
		t.Fatalf("SaveNote update: %v", err)
	}
	if len(s.Notes) != 1 || s.Notes[0].Title != "Retro" {
		t.Errorf("notes after update = %+v", s.Notes)
	}
}

func TestNotesMutationFailureLeavesState(t *testing.T) {
	api := newFakeAPI()
	s := NewNotesScreen(api, discardLogger())
	s.Notes = []model.Note{{ID: "n1", Title: "Keep"}}
	s.OpenEditor(&s.Notes[0])
	ctx := context.Background()

	api.fail["UpdateNote"] = errServer
	if err := s.SaveNote(ctx, "Changed", "", nil); err == nil {
		t.Fatal("expected error")
	}
	if s.Notes[0].Title != "Keep" || !s.ModalOpen {
		t.Errorf("state changed after failed save: %+v modal=%v", s.Notes, s.ModalOpen)
	}
	if !strings.HasPrefix(s.Notice, "Could not save note") {
		t.Errorf("notice = %q", s.Notice)
	}

	api.fail["DeleteNote"] = errServer
	if err := s.DeleteNote(ctx, "n1"); err == nil {
		t.Fatal("expected error")
	}
	if len(s.Notes) != 1 {
		t.Error("note removed despite failure")
	}

	delete(api.fail, "DeleteNote")
	if err := s.DeleteNote(ctx, "n1"); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if len(s.Notes) != 0 || s.ModalOpen {
		t.Errorf("notes = %+v modal=%v", s.Notes, s.ModalOpen)
	}
}

func TestCalendarAddAppointmentRefreshes(t *testing.T) {
	api := newFakeAPI()
	api.month = &calendar.MonthView{Month: "2024-03", Days: []calendar.DaySummary{{Date: "2024-03-15", AppointmentCount: 1, HasEvents: true}}}
	api.day = &calendar.DayView{Date: "2024-03-15"}

	s := NewCalendarScreen(api)
	ctx := context.Background()
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if err := s.LoadMonth(ctx, day.AddDate(0, 0, 3)); err != nil {
		t.Fatalf("LoadMonth: %v", err)
	}
	if !s.Month.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("month = %v", s.Month)
	}
	if err := s.SelectDay(ctx, day); err != nil {
		t.Fatalf("SelectDay: %v", err)
	}

	api.calls = nil
	if err := s.AddAppointment(ctx, client.AppointmentInput{Title: "Dentist", Date: day.Add(9 * time.Hour)}); err != nil {
		t.Fatalf("AddAppointment: %v", err)
	}
	want := []string{"CreateAppointment", "CalendarMonth", "CalendarDay"}
	if strings.Join(api.calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", api.calls, want)
	}
	if s.Notice != "Added Dentist" {
		t.Errorf("notice = %q", s.Notice)
	}
}

func TestCalendarFailureLeavesState(t *testing.T) {
	api := newFakeAPI()
	api.month = &calendar.MonthView{Month: "2024-03", Days: []calendar.DaySummary{{Date: "2024-03-15", HasEvents: true}}}
	s := NewCalendarScreen(api)
	ctx := context.Background()
	if err := s.LoadMonth(ctx, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("LoadMonth: %v", err)
	}

	api.fail["CalendarMonth"] = errServer
	if err := s.LoadMonth(ctx, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)); err == nil {
		t.Fatal("expected error")
	}
	if s.Month.Month() != time.March || len(s.Days) != 1 {
		t.Errorf("state changed: month=%v days=%d", s.Month, len(s.Days))
	}

	api.fail["DeleteAppointment"] = &client.APIError{Status: 404, Message: "appointment not found"}
	if err := s.DeleteAppointment(ctx, "missing"); err == nil {
		t.Fatal("expected error")
	}
	if s.Notice != "Could not delete appointment: appointment not found" {
		t.Errorf("notice = %q", s.Notice)
	}
}

func TestDietScreen(t *testing.T) {
	api := newFakeAPI()
	api.plans = []model.DietPlan{
		{ID: "p1", Name: "Cut", Goal: model.GoalLoseWeight, IsActive: true},
		{ID: "p2", Name: "Bulk", Goal: model.GoalGainMuscle},
	}
	s := NewDietScreen(api)
	ctx := context.Background()

	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Active == nil || s.Active.ID != "p1" {
		t.Fatalf("active = %+v", s.Active)
	}

	if err := s.ActivatePlan(ctx, "p2"); err != nil {
		t.Fatalf("ActivatePlan: %v", err)
	}
	if s.Active.ID != "p2" || s.Plans[0].IsActive || !s.Plans[1].IsActive {
		t.Errorf("plans = %+v", s.Plans)
	}

	if err := s.CreatePlan(ctx, client.DietPlanInput{Name: "Hold", Goal: model.GoalMaintain}); err != nil {
		t.Fatalf("CreatePlan: %v", err)
	}
	active := 0
	for _, p := range s.Plans {
		if p.IsActive {
			active++
		}
	}
	if active != 1 || s.Active.Name != "Hold" {
		t.Errorf("active count = %d, active = %+v", active, s.Active)
	}

	late := time.Date(2024, 3, 15, 19, 0, 0, 0, time.UTC)
	early := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	cal := 300
	if err := s.LogMeal(ctx, client.DietEntryInput{Date: late, MealType: model.MealDinner, FoodName: "Soup"}); err != nil {
		t.Fatalf("LogMeal: %v", err)
	}
	if err := s.LogMeal(ctx, client.DietEntryInput{Date: early, MealType: model.MealBreakfast, FoodName: "Oats", Calories: &cal}); err != nil {
		t.Fatalf("LogMeal: %v", err)
	}
	if s.Entries[0].FoodName != "Oats" {
		t.Errorf("entries not ordered by date: %+v", s.Entries)
	}

	api.fail["CreateDietEntry"] = &client.APIError{Status: 400, Message: "foodName is required"}
	if err := s.LogMeal(ctx, client.DietEntryInput{Date: early, MealType: model.MealSnack}); err == nil {
		t.Fatal("expected error")
	}
	if len(s.Entries) != 2 || s.Notice != "Could not log meal: foodName is required" {
		t.Errorf("entries = %d notice = %q", len(s.Entries), s.Notice)
	}
}

func TestDietLoadFailureKeepsState(t *testing.T) {
	api := newFakeAPI()
	api.fail["ListDietEntries"] = errServer
	s := NewDietScreen(api)
	s.Plans = []model.DietPlan{{ID: "p-old"}}

	if err := s.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(s.Plans) != 1 || s.Plans[0].ID != "p-old" {
		t.Errorf("plans replaced on failed load: %+v", s.Plans)
	}
}

func TestRenderNotes(t *testing.T) {
	folderID := "folder-123456789"
	s := &NotesScreen{
		Folders:          []model.Folder{{ID: folderID, Name: "Work", Color: "green"}},
		Notes:            []model.Note{{ID: "note-abcdefgh", FolderID: &folderID, Title: "Standup", Tags: []string{"daily"}}},
		SelectedFolderID: folderID,
		Notice:           "Saved Standup",
	}
	out := RenderNotes(s)
	for _, want := range []string{"Work", "folder-1", "Standup", "daily", "Saved Standup"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderNoteDetail(t *testing.T) {
	content := "# Agenda\n\nShip the **release**."
	n := model.Note{ID: "n1", Title: "Plan", Content: &content}
	media := []model.MediaWithURL{{NoteMedia: model.NoteMedia{ID: "m1", Filename: "photo.png", MediaType: model.MediaTypeImage}, URL: "https://blobs/x"}}

	out := RenderNoteDetail(n, media)
	for _, want := range []string{"Plan", "Agenda", "release", "photo.png", "https://blobs/x"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderMonth(t *testing.T) {
	s := &CalendarScreen{
		Month: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Days:  []calendar.DaySummary{{Date: "2024-03-15", AppointmentCount: 2, MealCount: 1, TotalCalories: 350, HasEvents: true}},
	}
	out := RenderMonth(s)
	for _, want := range []string{"March 2024", "31", "15*", "2 appointments", "1 meals, 350 kcal"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDay(t *testing.T) {
	loc := "Clinic"
	cal := 350
	v := &calendar.DayView{
		Date:         "2024-03-15",
		Appointments: []model.Appointment{{ID: "a1", Title: "Dentist", Location: &loc, Date: time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)}},
		DietEntries:  calendar.Meals{Breakfast: []model.DietEntry{{ID: "e1", FoodName: "Oats", Calories: &cal}}},
		DailyStats:   calendar.DailyStats{TotalCalories: 350, MealCount: 1, AppointmentCount: 1},
	}
	out := RenderDay(v)
	for _, want := range []string{"2024-03-15", "09:30", "Dentist", "Clinic", "Breakfast", "Oats", "350 kcal", "1 meal", "1 appointment"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Lunch") {
		t.Error("empty meal groups should be omitted")
	}
}

func TestRenderDiet(t *testing.T) {
	target := 2000
	s := &DietScreen{Notice: "Logged Oats"}
	if out := RenderDiet(s); !strings.Contains(out, "No active diet plan") || !strings.Contains(out, "Nothing logged") {
		t.Errorf("empty render:\n%s", out)
	}

	plan := model.DietPlan{ID: "p1", Name: "Cut", Goal: model.GoalLoseWeight, DailyCalorieTarget: &target, IsActive: true}
	s.Active = &plan
	s.Plans = []model.DietPlan{plan}
	out := RenderDiet(s)
	for _, want := range []string{"Cut", "lose weight", "2000 kcal", "Logged Oats"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
