package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

// timeLayout is fixed width so lexicographic order of stored values equals
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

type timeDest struct {
	t *time.Time
}

func (d timeDest) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*d.t = v.UTC()
		return nil
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*d.t = t.UTC()
	return nil
}

func scanTime(t *time.Time) timeDest {
	return timeDest{t: t}
}

type rowScanner interface {
	Scan(...any) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DateRange is an inclusive [Start, End] bound on a date column.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Filter narrows a scoped list query. Conditions are ANDed.
type Filter struct {
	conds   []string
	args    []any
	orderBy string
}

func (f Filter) Eq(col string, v any) Filter {
	f.conds = append(append([]string(nil), f.conds...), col+" = ?")
	f.args = append(append([]any(nil), f.args...), v)
	return f
}

func (f Filter) Between(col string, r DateRange) Filter {
	f.conds = append(append([]string(nil), f.conds...), col+" >= ?", col+" <= ?")
	f.args = append(append([]any(nil), f.args...), formatTime(r.Start), formatTime(r.End))
	f.orderBy = col + " ASC, rowid ASC"
	return f
}

type (
	optionalString = model.Optional[string]
	optionalInt    = model.Optional[int]
)

// Patch collects column assignments for a partial update.
type Patch struct {
	cols []string
	args []any
}

func (p *Patch) Set(col string, v any) {
	p.cols = append(p.cols, col)
	p.args = append(p.args, v)
}

func (p Patch) Empty() bool {
	return len(p.cols) == 0
}

// text sets an optional text column; empty and null both store NULL.
func (p *Patch) text(col string, o optionalString) {
	if !o.Set {
		return
	}
	if o.Null || o.Value == "" {
		p.Set(col, nil)
		return
	}
	p.Set(col, o.Value)
}

// integer sets an optional integer column; zero and null both store NULL.
func (p *Patch) integer(col string, o optionalInt) {
	if !o.Set {
		return
	}
	if o.Null || o.Value == 0 {
		p.Set(col, nil)
		return
	}
	p.Set(col, o.Value)
}

// scoped is a repository over one table whose rows are owned by a user.
// Every statement it issues is constrained by user_id, so a row belonging to
// another user behaves exactly like a missing row.
type scoped[T any] struct {
	db         *sql.DB
	table      string
	cols       string
	hasUpdated bool
	scan       func(rowScanner) (*T, error)
}

func (s *scoped[T]) get(ctx context.Context, userID, id string) (*T, error) {
	return s.getWith(ctx, s.db, userID, id)
}

func (s *scoped[T]) getWith(ctx context.Context, q querier, userID, id string) (*T, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+s.cols+` FROM `+s.table+` WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	v, err := s.scan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.table, err)
	}
	return v, nil
}

func (s *scoped[T]) list(ctx context.Context, userID string, f Filter) ([]T, error) {
	where := append([]string{"user_id = ?"}, f.conds...)
	args := append([]any{userID}, f.args...)
	orderBy := f.orderBy
	if orderBy == "" {
		orderBy = "rowid ASC"
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+s.cols+` FROM `+s.table+` WHERE `+strings.Join(where, " AND ")+` ORDER BY `+orderBy,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		v, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}

// insert adds id, user_id and timestamps to the given columns, then returns
// the persisted row.
func (s *scoped[T]) insert(ctx context.Context, q querier, userID string, cols []string, args []any) (*T, error) {
	id := uuid.NewString()
	ts := formatTime(now())

	allCols := append([]string{"id", "user_id"}, cols...)
	allArgs := append([]any{id, userID}, args...)
	allCols = append(allCols, "created_at")
	allArgs = append(allArgs, ts)
	if s.hasUpdated {
		allCols = append(allCols, "updated_at")
		allArgs = append(allArgs, ts)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(allCols)), ", ")
	_, err := q.ExecContext(ctx,
		`INSERT INTO `+s.table+` (`+strings.Join(allCols, ", ")+`) VALUES (`+placeholders+`)`,
		allArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", s.table, err)
	}
	return s.getWith(ctx, q, userID, id)
}

// update applies p to the row if the caller owns it. It returns nil, nil when
// the row is missing or foreign.
func (s *scoped[T]) update(ctx context.Context, q querier, userID, id string, p Patch) (*T, error) {
	existing, err := s.getWith(ctx, q, userID, id)
	if err != nil || existing == nil {
		return existing, err
	}
	if p.Empty() && !s.hasUpdated {
		return existing, nil
	}

	sets := make([]string, 0, len(p.cols)+1)
	for _, c := range p.cols {
		sets = append(sets, c+" = ?")
	}
	args := append([]any(nil), p.args...)
	if s.hasUpdated {
		sets = append(sets, "updated_at = ?")
		args = append(args, formatTime(now()))
	}
	args = append(args, id, userID)

	_, err = q.ExecContext(ctx,
		`UPDATE `+s.table+` SET `+strings.Join(sets, ", ")+` WHERE id = ? AND user_id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", s.table, err)
	}
	return s.getWith(ctx, q, userID, id)
}

// delete removes the row if the caller owns it and reports whether it did.
// Child rows go with it through ON DELETE CASCADE.
func (s *scoped[T]) delete(ctx context.Context, userID, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM `+s.table+` WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("delete %s: %w", s.table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func nullString(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func nullInt(n *int) any {
	if n == nil || *n == 0 {
		return nil
	}
	return *n
}

func ptrString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func ptrInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
