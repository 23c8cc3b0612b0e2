package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

// DietPlanStore keeps at most one active plan per user. Creating a plan or
// activating one deactivates the rest in the same transaction, and the
// diet_plans_one_active_idx partial index rejects anything that slips past.
type DietPlanStore struct {
	rows scoped[model.DietPlan]
}

func NewDietPlanStore(db *sql.DB) *DietPlanStore {
	return &DietPlanStore{rows: scoped[model.DietPlan]{
		db:         db,
		table:      "diet_plans",
		cols:       dietPlanCols,
		hasUpdated: true,
		scan:       scanDietPlan,
	}}
}

const dietPlanCols = `id, user_id, name, goal, daily_calorie_target, daily_protein_target, daily_water_target, notes, is_active, created_at, updated_at`

func scanDietPlan(scanner rowScanner) (*model.DietPlan, error) {
	var p model.DietPlan
	var calories, protein, water sql.NullInt64
	var notes sql.NullString
	var active int

	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Goal, &calories, &protein, &water, &notes, &active,
		scanTime(&p.CreatedAt), scanTime(&p.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}

	p.DailyCalorieTarget = ptrInt(calories)
	p.DailyProteinTarget = ptrInt(protein)
	p.DailyWaterTarget = ptrInt(water)
	p.Notes = ptrString(notes)
	p.IsActive = active != 0
	return &p, nil
}

type DietPlanParams struct {
	Name               string
	Goal               model.DietGoal
	DailyCalorieTarget *int
	DailyProteinTarget *int
	DailyWaterTarget   *int
	Notes              *string
}

type DietPlanUpdate struct {
	Name               model.Optional[string]
	Goal               model.Optional[model.DietGoal]
	DailyCalorieTarget model.Optional[int]
	DailyProteinTarget model.Optional[int]
	DailyWaterTarget   model.Optional[int]
	Notes              model.Optional[string]
	IsActive           model.Optional[bool]
}

// Create inserts the plan as the caller's active plan.
func (s *DietPlanStore) Create(ctx context.Context, userID string, p DietPlanParams) (*model.DietPlan, error) {
	tx, err := s.rows.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := deactivatePlans(ctx, tx, userID); err != nil {
		return nil, err
	}

	plan, err := s.rows.insert(ctx, tx, userID,
		[]string{"name", "goal", "daily_calorie_target", "daily_protein_target", "daily_water_target", "notes", "is_active"},
		[]any{p.Name, string(p.Goal), nullInt(p.DailyCalorieTarget), nullInt(p.DailyProteinTarget), nullInt(p.DailyWaterTarget), nullString(p.Notes), 1},
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return plan, nil
}

func (s *DietPlanStore) Get(ctx context.Context, userID, id string) (*model.DietPlan, error) {
	return s.rows.get(ctx, userID, id)
}

func (s *DietPlanStore) List(ctx context.Context, userID string) ([]model.DietPlan, error) {
	return s.rows.list(ctx, userID, Filter{})
}

// Active returns the caller's active plan, or nil if there is none.
func (s *DietPlanStore) Active(ctx context.Context, userID string) (*model.DietPlan, error) {
	plans, err := s.rows.list(ctx, userID, Filter{}.Eq("is_active", 1))
	if err != nil {
		return nil, err
	}
	if len(plans) == 0 {
		return nil, nil
	}
	return &plans[0], nil
}

// Update patches the plan. Setting IsActive to true deactivates the caller's
// other plans first.
func (s *DietPlanStore) Update(ctx context.Context, userID, id string, u DietPlanUpdate) (*model.DietPlan, error) {
	tx, err := s.rows.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	existing, err := s.rows.getWith(ctx, tx, userID, id)
	if err != nil || existing == nil {
		return existing, err
	}

	var p Patch
	if u.Name.Set && !u.Name.Null && u.Name.Value != "" {
		p.Set("name", u.Name.Value)
	}
	if u.Goal.Set && !u.Goal.Null && u.Goal.Value != "" {
		p.Set("goal", string(u.Goal.Value))
	}
	p.integer("daily_calorie_target", u.DailyCalorieTarget)
	p.integer("daily_protein_target", u.DailyProteinTarget)
	p.integer("daily_water_target", u.DailyWaterTarget)
	p.text("notes", u.Notes)
	if u.IsActive.Set && !u.IsActive.Null {
		if u.IsActive.Value {
			if err := deactivatePlans(ctx, tx, userID); err != nil {
				return nil, err
			}
		}
		p.Set("is_active", boolInt(u.IsActive.Value))
	}

	plan, err := s.rows.update(ctx, tx, userID, id, p)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return plan, nil
}

// Activate makes id the caller's only active plan.
func (s *DietPlanStore) Activate(ctx context.Context, userID, id string) (*model.DietPlan, error) {
	return s.Update(ctx, userID, id, DietPlanUpdate{IsActive: model.Some(true)})
}

func (s *DietPlanStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.rows.delete(ctx, userID, id)
}

func deactivatePlans(ctx context.Context, q querier, userID string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE diet_plans SET is_active = 0, updated_at = ? WHERE user_id = ? AND is_active = 1`,
		formatTime(now()), userID,
	)
	if err != nil {
		return fmt.Errorf("deactivate diet plans: %w", err)
	}
	return nil
}
