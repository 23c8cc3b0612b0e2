package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/config"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/database"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/server"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/storage"
)

func setupTestClient(t *testing.T) *Client {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{SessionTTL: time.Hour, MediaURLTTL: 15 * time.Minute}
	srv := httptest.NewServer(server.New(db, cfg, storage.NewMemory(), slog.Default()).Router())
	t.Cleanup(srv.Close)

	c := New(srv.URL, "")
	if _, err := c.Register(context.Background(), "alice@example.com", "password123", "Alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
	return c
}

func TestAPIError(t *testing.T) {
	err := &APIError{Status: 404, Message: "note not found"}
	if err.Error() != "note not found (404)" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !err.IsNotFound() || err.IsUnauthorized() {
		t.Error("expected not found only")
	}
	if (&APIError{Status: 500}).Error() != "server returned 500" {
		t.Error("empty message should fall back to status")
	}
}

func TestErrorBodyDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"email already registered"}`))
	}))
	defer srv.Close()

	err := New(srv.URL, "tok").Get(context.Background(), "/x", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "email already registered" {
		t.Errorf("got %+v", apiErr)
	}
}

func TestAuthFlow(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()

	if c.Token() == "" {
		t.Fatal("register should set token")
	}
	me, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.Email != "alice@example.com" {
		t.Errorf("email = %q", me.Email)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = c.Me(ctx)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.IsUnauthorized() {
		t.Fatalf("Me after logout err = %v, want 401", err)
	}

	if _, err := c.Login(ctx, "alice@example.com", "password123"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := c.Me(ctx); err != nil {
		t.Errorf("Me after login: %v", err)
	}
}

func TestFoldersAndNotes(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()

	folder, err := c.CreateFolder(ctx, FolderInput{Name: "Work", Type: model.FolderTypeNotes})
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if folder.Color != model.DefaultFolderColor {
		t.Errorf("color = %q", folder.Color)
	}

	updated, err := c.UpdateFolder(ctx, folder.ID, FolderPatch{Color: model.Some("green")})
	if err != nil {
		t.Fatalf("UpdateFolder: %v", err)
	}
	if updated.Color != "green" || updated.Name != "Work" {
		t.Errorf("updated = %+v", updated)
	}

	content := "agenda"
	note, err := c.CreateNote(ctx, NoteInput{FolderID: &folder.ID, Title: "Standup", Content: &content, Tags: []string{"daily"}})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	notes, err := c.ListNotes(ctx, folder.ID)
	if err != nil {
		t.Fatalf("ListNotes: %v", err)
	}
	if len(notes) != 1 || notes[0].ID != note.ID {
		t.Fatalf("notes = %+v", notes)
	}

	moved, err := c.UpdateNote(ctx, note.ID, NotePatch{FolderID: model.Null[string]()})
	if err != nil {
		t.Fatalf("UpdateNote: %v", err)
	}
	if moved.FolderID != nil || moved.Title != "Standup" {
		t.Errorf("moved = %+v", moved)
	}

	if err := c.DeleteNote(ctx, note.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	_, err = c.GetNote(ctx, note.ID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.IsNotFound() {
		t.Errorf("GetNote after delete err = %v", err)
	}
}

func TestMediaUpload(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()

	note, err := c.CreateNote(ctx, NoteInput{Title: "Trip"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	m, err := c.UploadMedia(ctx, note.ID, "beach.png", "", strings.NewReader("\x89PNG\r\n\x1a\nfake"))
	if err != nil {
		t.Fatalf("UploadMedia: %v", err)
	}
	if m.MediaType != model.MediaTypeImage || m.Filename != "beach.png" || m.URL == "" {
		t.Errorf("media = %+v", m)
	}

	_, err = c.UploadMedia(ctx, note.ID, "doc.pdf", "", strings.NewReader("%PDF-1.4"))
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Errorf("pdf upload err = %v, want 400", err)
	}

	list, err := c.ListMedia(ctx, note.ID)
	if err != nil {
		t.Fatalf("ListMedia: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("media count = %d", len(list))
	}
	if err := c.DeleteMedia(ctx, m.ID); err != nil {
		t.Fatalf("DeleteMedia: %v", err)
	}
}

func TestDietPlansAndCalendar(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()

	active, err := c.ActiveDietPlan(ctx)
	if err != nil || active != nil {
		t.Fatalf("ActiveDietPlan = %v, %v; want nil, nil", active, err)
	}

	plan, err := c.CreateDietPlan(ctx, DietPlanInput{Name: "Cut", Goal: model.GoalLoseWeight})
	if err != nil {
		t.Fatalf("CreateDietPlan: %v", err)
	}
	if _, err := c.ActivateDietPlan(ctx, plan.ID); err != nil {
		t.Fatalf("ActivateDietPlan: %v", err)
	}
	active, err = c.ActiveDietPlan(ctx)
	if err != nil || active == nil || active.ID != plan.ID {
		t.Fatalf("ActiveDietPlan = %+v, %v", active, err)
	}

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if _, err := c.CreateAppointment(ctx, AppointmentInput{Title: "Dentist", Date: day.Add(9 * time.Hour)}); err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	cal := 420
	if _, err := c.CreateDietEntry(ctx, DietEntryInput{Date: day.Add(8 * time.Hour), MealType: model.MealBreakfast, FoodName: "Oats", Calories: &cal}); err != nil {
		t.Fatalf("CreateDietEntry: %v", err)
	}

	dv, err := c.CalendarDay(ctx, "2024-03-15")
	if err != nil {
		t.Fatalf("CalendarDay: %v", err)
	}
	if dv.DailyStats.TotalCalories != 420 || dv.DailyStats.AppointmentCount != 1 {
		t.Errorf("stats = %+v", dv.DailyStats)
	}

	mv, err := c.CalendarMonth(ctx, "2024-03")
	if err != nil {
		t.Fatalf("CalendarMonth: %v", err)
	}
	if len(mv.Days) != 1 || mv.Days[0].Date != "2024-03-15" {
		t.Errorf("days = %+v", mv.Days)
	}

	rv, err := c.CalendarEvents(ctx, Range{Start: "2024-03-01", End: "2024-03-31"})
	if err != nil {
		t.Fatalf("CalendarEvents: %v", err)
	}
	if len(rv.Appointments) != 1 || rv.Appointments[0].Type != "appointment" {
		t.Errorf("appointments = %+v", rv.Appointments)
	}

	entries, err := c.ListDietEntries(ctx, DietFilter{Range: &Range{Start: "2024-03-16", End: "2024-03-31"}})
	if err != nil {
		t.Fatalf("ListDietEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries outside range = %d", len(entries))
	}
}
