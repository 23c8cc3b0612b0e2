// Package calendar merges appointments and diet entries into day, month and
// range views. All calendar arithmetic is in UTC.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidMonth = errors.New("invalid month")
)

type AppointmentSource interface {
	ListInRange(ctx context.Context, userID string, start, end time.Time) ([]model.Appointment, error)
}

type DietSource interface {
	ListInRange(ctx context.Context, userID string, start, end time.Time) ([]model.DietEntry, error)
}

// Meals holds diet entries grouped by meal type. Every group is present.
type Meals struct {
	Breakfast []model.DietEntry `json:"breakfast"`
	Lunch     []model.DietEntry `json:"lunch"`
	Dinner    []model.DietEntry `json:"dinner"`
	Snack     []model.DietEntry `json:"snack"`
}

type DailyStats struct {
	TotalCalories    int `json:"totalCalories"`
	MealCount        int `json:"mealCount"`
	AppointmentCount int `json:"appointmentCount"`
}

type DayView struct {
	Date         string              `json:"date"`
	Appointments []model.Appointment `json:"appointments"`
	DietEntries  Meals               `json:"dietEntries"`
	DailyStats   DailyStats          `json:"dailyStats"`
}

type DaySummary struct {
	Date             string `json:"date"`
	AppointmentCount int    `json:"appointmentCount"`
	TotalCalories    int    `json:"totalCalories"`
	MealCount        int    `json:"mealCount"`
	HasEvents        bool   `json:"hasEvents"`
}

type MonthView struct {
	Month string       `json:"month"`
	Days  []DaySummary `json:"days"`
}

type TaggedAppointment struct {
	model.Appointment
	Type string `json:"type"`
}

type TaggedDietEntry struct {
	model.DietEntry
	Type string `json:"type"`
}

type RangeView struct {
	Appointments []TaggedAppointment `json:"appointments"`
	DietEntries  []TaggedDietEntry   `json:"dietEntries"`
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns midnight UTC of the
// calendar day it names.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseMonth accepts YYYY-MM and returns the first instant of that month.
func ParseMonth(s string) (time.Time, error) {
	if len(s) != len(MonthLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return t, nil
}

// ParseBound parses a range bound. A date-only end bound means the last
// millisecond of that day; RFC3339 bounds are taken as given.
func ParseBound(s string, end bool) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		if end {
			_, last := DayBounds(t)
			return last, nil
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.UTC(), nil
}

// DayBounds returns [00:00:00.000, 23:59:59.999] UTC of t's calendar day.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1).Add(-time.Millisecond)
}

// MonthBounds returns the first and last millisecond of t's month in UTC.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.UTC().Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0).Add(-time.Millisecond)
}

// DayKey is the UTC calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// BucketMeals groups entries by meal type, keeping their order.
func BucketMeals(entries []model.DietEntry) Meals {
	meals := Meals{
		Breakfast: []model.DietEntry{},
		Lunch:     []model.DietEntry{},
		Dinner:    []model.DietEntry{},
		Snack:     []model.DietEntry{},
	}
	for _, e := range entries {
		switch e.MealType {
		case model.MealBreakfast:
			meals.Breakfast = append(meals.Breakfast, e)
		case model.MealLunch:
			meals.Lunch = append(meals.Lunch, e)
		case model.MealDinner:
			meals.Dinner = append(meals.Dinner, e)
		case model.MealSnack:
			meals.Snack = append(meals.Snack, e)
		}
	}
	return meals
}

func totalCalories(entries []model.DietEntry) int {
	total := 0
	for _, e := range entries {
		if e.Calories != nil {
			total += *e.Calories
		}
	}
	return total
}

// RollupDays aggregates both streams per calendar day. Only days with at
// least one item appear, sorted ascending.
func RollupDays(appts []model.Appointment, entries []model.DietEntry) []DaySummary {
	byDay := make(map[string]*DaySummary)
	day := func(t time.Time) *DaySummary {
		key := DayKey(t)
		d, ok := byDay[key]
		if !ok {
			d = &DaySummary{Date: key}
			byDay[key] = d
		}
		return d
	}

	for _, a := range appts {
		day(a.Date).AppointmentCount++
	}
	for _, e := range entries {
		d := day(e.Date)
		d.MealCount++
		if e.Calories != nil {
			d.TotalCalories += *e.Calories
		}
	}

	days := make([]DaySummary, 0, len(byDay))
	for _, d := range byDay {
		d.HasEvents = d.AppointmentCount > 0 || d.MealCount > 0
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool {
		return strings.Compare(days[i].Date, days[j].Date) < 0
	})
	return days
}

type Service struct {
	appointments AppointmentSource
	diet         DietSource
}

func NewService(appointments AppointmentSource, diet DietSource) *Service {
	return &Service{appointments: appointments, diet: diet}
}

func (s *Service) fetch(ctx context.Context, userID string, start, end time.Time) ([]model.Appointment, []model.DietEntry, error) {
	appts, err := s.appointments.ListInRange(ctx, userID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("list appointments: %w", err)
	}
	entries, err := s.diet.ListInRange(ctx, userID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("list diet entries: %w", err)
	}
	return appts, entries, nil
}

func (s *Service) Day(ctx context.Context, userID string, date time.Time) (*DayView, error) {
	start, end := DayBounds(date)
	appts, entries, err := s.fetch(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return &DayView{
		Date:         DayKey(start),
		Appointments: appts,
		DietEntries:  BucketMeals(entries),
		DailyStats: DailyStats{
			TotalCalories:    totalCalories(entries),
			MealCount:        len(entries),
			AppointmentCount: len(appts),
		},
	}, nil
}

func (s *Service) Month(ctx context.Context, userID string, month time.Time) (*MonthView, error) {
	start, end := MonthBounds(month)
	appts, entries, err := s.fetch(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return &MonthView{
		Month: start.Format(MonthLayout),
		Days:  RollupDays(appts, entries),
	}, nil
}

func (s *Service) Range(ctx context.Context, userID string, start, end time.Time) (*RangeView, error) {
	appts, entries, err := s.fetch(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	view := &RangeView{
		Appointments: make([]TaggedAppointment, 0, len(appts)),
		DietEntries:  make([]TaggedDietEntry, 0, len(entries)),
	}
	for _, a := range appts {
		view.Appointments = append(view.Appointments, TaggedAppointment{Appointment: a, Type: "appointment"})
	}
	for _, e := range entries {
		view.DietEntries = append(view.DietEntries, TaggedDietEntry{DietEntry: e, Type: "diet"})
	}
	return view, nil
}
