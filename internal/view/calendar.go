package view

import (
	"context"
	"errors"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/calendar"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

type CalendarAPI interface {
	CalendarMonth(ctx context.Context, yearMonth string) (*calendar.MonthView, error)
	CalendarDay(ctx context.Context, date string) (*calendar.DayView, error)
	CreateAppointment(ctx context.Context, in client.AppointmentInput) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id string) error
}

// CalendarScreen is a month grid with an optional selected day.
type CalendarScreen struct {
	Month    time.Time
	Days     []calendar.DaySummary
	Selected *calendar.DayView
	Notice   string

	api CalendarAPI
}

func NewCalendarScreen(api CalendarAPI) *CalendarScreen {
	return &CalendarScreen{api: api}
}

// LoadMonth fetches the summaries for the month containing t.
func (s *CalendarScreen) LoadMonth(ctx context.Context, t time.Time) error {
	month := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	mv, err := s.api.CalendarMonth(ctx, month.Format("2006-01"))
	if err != nil {
		s.Notice = "Could not load month: " + errorMessage(err)
		return err
	}
	s.Month = month
	s.Days = mv.Days
	return nil
}

func (s *CalendarScreen) SelectDay(ctx context.Context, t time.Time) error {
	dv, err := s.api.CalendarDay(ctx, calendar.DayKey(t))
	if err != nil {
		s.Notice = "Could not load day: " + errorMessage(err)
		return err
	}
	s.Selected = dv
	return nil
}

// AddAppointment creates an appointment, then refreshes the month and the
// selected day.
func (s *CalendarScreen) AddAppointment(ctx context.Context, in client.AppointmentInput) error {
	a, err := s.api.CreateAppointment(ctx, in)
	if err != nil {
		s.Notice = "Could not add appointment: " + errorMessage(err)
		return err
	}
	if err := s.refresh(ctx, a.Date); err != nil {
		return err
	}
	s.Notice = "Added " + a.Title
	return nil
}

func (s *CalendarScreen) DeleteAppointment(ctx context.Context, id string) error {
	var date time.Time
	if s.Selected != nil {
		for _, a := range s.Selected.Appointments {
			if a.ID == id {
				date = a.Date
			}
		}
	}
	if err := s.api.DeleteAppointment(ctx, id); err != nil {
		s.Notice = "Could not delete appointment: " + errorMessage(err)
		return err
	}
	if err := s.refresh(ctx, date); err != nil {
		return err
	}
	s.Notice = "Appointment deleted"
	return nil
}

// refresh reloads the current month, plus the selected day when date falls
// on it. A zero date refreshes the selected day unconditionally.
func (s *CalendarScreen) refresh(ctx context.Context, date time.Time) error {
	var errs []error
	if !s.Month.IsZero() {
		errs = append(errs, s.LoadMonth(ctx, s.Month))
	}
	if s.Selected != nil && (date.IsZero() || calendar.DayKey(date) == s.Selected.Date) {
		day, _ := calendar.ParseDate(s.Selected.Date)
		errs = append(errs, s.SelectDay(ctx, day))
	}
	return errors.Join(errs...)
}
