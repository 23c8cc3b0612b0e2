package view

import (
	"context"
	"slices"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

type DietAPI interface {
	ListDietPlans(ctx context.Context) ([]model.DietPlan, error)
	ActiveDietPlan(ctx context.Context) (*model.DietPlan, error)
	CreateDietPlan(ctx context.Context, in client.DietPlanInput) (*model.DietPlan, error)
	ActivateDietPlan(ctx context.Context, id string) (*model.DietPlan, error)
	ListDietEntries(ctx context.Context, f client.DietFilter) ([]model.DietEntry, error)
	CreateDietEntry(ctx context.Context, in client.DietEntryInput) (*model.DietEntry, error)
	DeleteDietEntry(ctx context.Context, id string) error
}

// DietScreen lists diet plans, the active plan and logged meals.
type DietScreen struct {
	Plans   []model.DietPlan
	Active  *model.DietPlan
	Entries []model.DietEntry
	Notice  string

	// Filter narrows which entries Load fetches.
	Filter client.DietFilter

	api DietAPI
}

func NewDietScreen(api DietAPI) *DietScreen {
	return &DietScreen{api: api}
}

// Load fetches plans, the active plan and entries. State is replaced only
// when all three succeed.
func (s *DietScreen) Load(ctx context.Context) error {
	plans, err := s.api.ListDietPlans(ctx)
	if err != nil {
		s.Notice = "Could not load diet plans: " + errorMessage(err)
		return err
	}
	active, err := s.api.ActiveDietPlan(ctx)
	if err != nil {
		s.Notice = "Could not load active plan: " + errorMessage(err)
		return err
	}
	entries, err := s.api.ListDietEntries(ctx, s.Filter)
	if err != nil {
		s.Notice = "Could not load meals: " + errorMessage(err)
		return err
	}
	s.Plans, s.Active, s.Entries = plans, active, entries
	return nil
}

func (s *DietScreen) LogMeal(ctx context.Context, in client.DietEntryInput) error {
	e, err := s.api.CreateDietEntry(ctx, in)
	if err != nil {
		s.Notice = "Could not log meal: " + errorMessage(err)
		return err
	}
	s.Entries = append(s.Entries, *e)
	slices.SortStableFunc(s.Entries, func(a, b model.DietEntry) int { return a.Date.Compare(b.Date) })
	s.Notice = "Logged " + e.FoodName
	return nil
}

func (s *DietScreen) DeleteEntry(ctx context.Context, id string) error {
	if err := s.api.DeleteDietEntry(ctx, id); err != nil {
		s.Notice = "Could not delete meal: " + errorMessage(err)
		return err
	}
	s.Entries = removeByID(s.Entries, id, func(e model.DietEntry) string { return e.ID })
	s.Notice = "Meal deleted"
	return nil
}

// CreatePlan adds a plan. A new plan is created active, which deactivates
// the others.
func (s *DietScreen) CreatePlan(ctx context.Context, in client.DietPlanInput) error {
	p, err := s.api.CreateDietPlan(ctx, in)
	if err != nil {
		s.Notice = "Could not create plan: " + errorMessage(err)
		return err
	}
	s.Plans = append(s.Plans, *p)
	if p.IsActive {
		s.markActive(*p)
	}
	s.Notice = "Created plan " + p.Name
	return nil
}

func (s *DietScreen) ActivatePlan(ctx context.Context, id string) error {
	p, err := s.api.ActivateDietPlan(ctx, id)
	if err != nil {
		s.Notice = "Could not activate plan: " + errorMessage(err)
		return err
	}
	s.markActive(*p)
	s.Notice = p.Name + " is now active"
	return nil
}

// markActive mirrors the server's single-active-plan rule locally.
func (s *DietScreen) markActive(p model.DietPlan) {
	for i := range s.Plans {
		s.Plans[i].IsActive = s.Plans[i].ID == p.ID
		if s.Plans[i].ID == p.ID {
			s.Plans[i] = p
		}
	}
	s.Active = &p
}
