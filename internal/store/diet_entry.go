package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

type DietEntryStore struct {
	rows scoped[model.DietEntry]
}

func NewDietEntryStore(db *sql.DB) *DietEntryStore {
	return &DietEntryStore{rows: scoped[model.DietEntry]{
		db:         db,
		table:      "diet_entries",
		cols:       dietEntryCols,
		hasUpdated: true,
		scan:       scanDietEntry,
	}}
}

const dietEntryCols = `id, user_id, folder_id, date, meal_type, food_name, calories, notes, created_at, updated_at`

func scanDietEntry(scanner rowScanner) (*model.DietEntry, error) {
	var e model.DietEntry
	var folderID, notes sql.NullString
	var calories sql.NullInt64

	err := scanner.Scan(
		&e.ID, &e.UserID, &folderID, scanTime(&e.Date), &e.MealType, &e.FoodName,
		&calories, &notes, scanTime(&e.CreatedAt), scanTime(&e.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}

	e.FolderID = ptrString(folderID)
	e.Calories = ptrInt(calories)
	e.Notes = ptrString(notes)
	return &e, nil
}

type DietEntryParams struct {
	FolderID *string
	Date     time.Time
	MealType model.MealType
	FoodName string
	Calories *int
	Notes    *string
}

type DietEntryUpdate struct {
	FolderID model.Optional[string]
	Date     model.Optional[time.Time]
	MealType model.Optional[model.MealType]
	FoodName model.Optional[string]
	Calories model.Optional[int]
	Notes    model.Optional[string]
}

// DietEntryFilter narrows List. Zero fields do not filter.
type DietEntryFilter struct {
	FolderID string
	Range    *DateRange
}

func (s *DietEntryStore) Create(ctx context.Context, userID string, p DietEntryParams) (*model.DietEntry, error) {
	if p.FolderID != nil && *p.FolderID != "" {
		ok, err := ownsFolder(ctx, s.rows.db, userID, *p.FolderID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrFolderNotFound
		}
	}
	return s.rows.insert(ctx, s.rows.db, userID,
		[]string{"folder_id", "date", "meal_type", "food_name", "calories", "notes"},
		[]any{nullString(p.FolderID), formatTime(p.Date), string(p.MealType), p.FoodName, nullInt(p.Calories), nullString(p.Notes)},
	)
}

func (s *DietEntryStore) Get(ctx context.Context, userID, id string) (*model.DietEntry, error) {
	return s.rows.get(ctx, userID, id)
}

func (s *DietEntryStore) List(ctx context.Context, userID string, df DietEntryFilter) ([]model.DietEntry, error) {
	var f Filter
	if df.FolderID != "" {
		f = f.Eq("folder_id", df.FolderID)
	}
	if df.Range != nil {
		f = f.Between("date", *df.Range)
	}
	return s.rows.list(ctx, userID, f)
}

// ListInRange satisfies calendar.DietSource.
func (s *DietEntryStore) ListInRange(ctx context.Context, userID string, start, end time.Time) ([]model.DietEntry, error) {
	return s.List(ctx, userID, DietEntryFilter{Range: &DateRange{Start: start, End: end}})
}

func (s *DietEntryStore) Update(ctx context.Context, userID, id string, u DietEntryUpdate) (*model.DietEntry, error) {
	existing, err := s.rows.get(ctx, userID, id)
	if err != nil || existing == nil {
		return existing, err
	}
	if u.FolderID.Set && !u.FolderID.Null && u.FolderID.Value != "" {
		ok, err := ownsFolder(ctx, s.rows.db, userID, u.FolderID.Value)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrFolderNotFound
		}
	}

	var p Patch
	p.text("folder_id", u.FolderID)
	if u.Date.Set && !u.Date.Null {
		p.Set("date", formatTime(u.Date.Value))
	}
	if u.MealType.Set && !u.MealType.Null && u.MealType.Value != "" {
		p.Set("meal_type", string(u.MealType.Value))
	}
	if u.FoodName.Set && !u.FoodName.Null && u.FoodName.Value != "" {
		p.Set("food_name", u.FoodName.Value)
	}
	p.integer("calories", u.Calories)
	p.text("notes", u.Notes)
	return s.rows.update(ctx, s.rows.db, userID, id, p)
}

func (s *DietEntryStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.rows.delete(ctx, userID, id)
}
