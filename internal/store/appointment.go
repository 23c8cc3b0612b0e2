package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

type AppointmentStore struct {
	rows scoped[model.Appointment]
}

func NewAppointmentStore(db *sql.DB) *AppointmentStore {
	return &AppointmentStore{rows: scoped[model.Appointment]{
		db:         db,
		table:      "appointments",
		cols:       appointmentCols,
		hasUpdated: true,
		scan:       scanAppointment,
	}}
}

const appointmentCols = `id, user_id, title, description, date, location, reminder_minutes, reminder_enabled, created_at, updated_at`

func scanAppointment(scanner rowScanner) (*model.Appointment, error) {
	var a model.Appointment
	var description, location sql.NullString
	var enabled int

	err := scanner.Scan(
		&a.ID, &a.UserID, &a.Title, &description, scanTime(&a.Date), &location,
		&a.ReminderMinutes, &enabled, scanTime(&a.CreatedAt), scanTime(&a.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}

	a.Description = ptrString(description)
	a.Location = ptrString(location)
	a.ReminderEnabled = enabled != 0
	return &a, nil
}

type AppointmentParams struct {
	Title           string
	Description     *string
	Date            time.Time
	Location        *string
	ReminderMinutes *int
	ReminderEnabled *bool
}

type AppointmentUpdate struct {
	Title           model.Optional[string]
	Description     model.Optional[string]
	Date            model.Optional[time.Time]
	Location        model.Optional[string]
	ReminderMinutes model.Optional[int]
	ReminderEnabled model.Optional[bool]
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Create fills the reminder defaults: 15 minutes, enabled unless the caller
// explicitly disabled it.
func (s *AppointmentStore) Create(ctx context.Context, userID string, p AppointmentParams) (*model.Appointment, error) {
	minutes := model.DefaultReminderMinutes
	if p.ReminderMinutes != nil {
		minutes = *p.ReminderMinutes
	}
	enabled := true
	if p.ReminderEnabled != nil {
		enabled = *p.ReminderEnabled
	}
	return s.rows.insert(ctx, s.rows.db, userID,
		[]string{"title", "description", "date", "location", "reminder_minutes", "reminder_enabled"},
		[]any{p.Title, nullString(p.Description), formatTime(p.Date), nullString(p.Location), minutes, boolInt(enabled)},
	)
}

func (s *AppointmentStore) Get(ctx context.Context, userID, id string) (*model.Appointment, error) {
	return s.rows.get(ctx, userID, id)
}

// List returns the caller's appointments. With a range they are ordered by
// date; otherwise in creation order.
func (s *AppointmentStore) List(ctx context.Context, userID string, r *DateRange) ([]model.Appointment, error) {
	var f Filter
	if r != nil {
		f = f.Between("date", *r)
	}
	return s.rows.list(ctx, userID, f)
}

// ListInRange satisfies calendar.AppointmentSource.
func (s *AppointmentStore) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]model.Appointment, error) {
	return s.List(ctx, userID, &DateRange{Start: start, End: end})
}

func (s *AppointmentStore) Update(ctx context.Context, userID, id string, u AppointmentUpdate) (*model.Appointment, error) {
	var p Patch
	if u.Title.Set && !u.Title.Null && u.Title.Value != "" {
		p.Set("title", u.Title.Value)
	}
	p.text("description", u.Description)
	if u.Date.Set && !u.Date.Null {
		p.Set("date", formatTime(u.Date.Value))
	}
	p.text("location", u.Location)
	if u.ReminderMinutes.Set {
		minutes := u.ReminderMinutes.Value
		if u.ReminderMinutes.Null {
			minutes = model.DefaultReminderMinutes
		}
		p.Set("reminder_minutes", minutes)
	}
	if u.ReminderEnabled.Set {
		p.Set("reminder_enabled", boolInt(u.ReminderEnabled.Null || u.ReminderEnabled.Value))
	}
	return s.rows.update(ctx, s.rows.db, userID, id, p)
}

func (s *AppointmentStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.rows.delete(ctx, userID, id)
}

// ListRemindersDue returns appointments of every user whose reminder instant
// falls in (from, to].
func (s *AppointmentStore) ListRemindersDue(ctx context.Context, from, to time.Time) ([]model.Appointment, error) {
	rows, err := s.rows.db.QueryContext(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE reminder_enabled = 1 AND date > ?
		 ORDER BY date ASC`,
		formatTime(from),
	)
	if err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	defer rows.Close()

	var due []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		at := a.ReminderAt()
		if at.After(from) && !at.After(to) {
			due = append(due, *a)
		}
	}
	return due, rows.Err()
}
