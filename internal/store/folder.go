package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

type FolderStore struct {
	rows scoped[model.Folder]
}

func NewFolderStore(db *sql.DB) *FolderStore {
	return &FolderStore{rows: scoped[model.Folder]{
		db:         db,
		table:      "folders",
		cols:       folderCols,
		hasUpdated: true,
		scan:       scanFolder,
	}}
}

const folderCols = `id, user_id, name, type, color, icon, created_at, updated_at`

func scanFolder(scanner rowScanner) (*model.Folder, error) {
	var f model.Folder
	err := scanner.Scan(
		&f.ID, &f.UserID, &f.Name, &f.Type, &f.Color, &f.Icon,
		scanTime(&f.CreatedAt), scanTime(&f.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

type FolderParams struct {
	Name  string
	Type  model.FolderType
	Color string
	Icon  string
}

type FolderUpdate struct {
	Name  model.Optional[string]
	Type  model.Optional[model.FolderType]
	Color model.Optional[string]
	Icon  model.Optional[string]
}

func (s *FolderStore) Create(ctx context.Context, userID string, p FolderParams) (*model.Folder, error) {
	color := p.Color
	if color == "" {
		color = model.DefaultFolderColor
	}
	icon := p.Icon
	if icon == "" {
		icon = model.DefaultFolderIcon
	}
	return s.rows.insert(ctx, s.rows.db, userID,
		[]string{"name", "type", "color", "icon"},
		[]any{p.Name, string(p.Type), color, icon},
	)
}

func (s *FolderStore) Get(ctx context.Context, userID, id string) (*model.Folder, error) {
	return s.rows.get(ctx, userID, id)
}

// List returns the caller's folders, optionally narrowed to one type.
func (s *FolderStore) List(ctx context.Context, userID string, folderType model.FolderType) ([]model.Folder, error) {
	var f Filter
	if folderType != "" {
		f = f.Eq("type", string(folderType))
	}
	return s.rows.list(ctx, userID, f)
}

func (s *FolderStore) Update(ctx context.Context, userID, id string, u FolderUpdate) (*model.Folder, error) {
	var p Patch
	if u.Name.Set && !u.Name.Null && u.Name.Value != "" {
		p.Set("name", u.Name.Value)
	}
	if u.Type.Set && !u.Type.Null && u.Type.Value != "" {
		p.Set("type", string(u.Type.Value))
	}
	if u.Color.Set {
		p.Set("color", orDefault(u.Color, model.DefaultFolderColor))
	}
	if u.Icon.Set {
		p.Set("icon", orDefault(u.Icon, model.DefaultFolderIcon))
	}
	return s.rows.update(ctx, s.rows.db, userID, id, p)
}

func (s *FolderStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.rows.delete(ctx, userID, id)
}

func orDefault(o model.Optional[string], def string) string {
	if o.Null || o.Value == "" {
		return def
	}
	return o.Value
}

// ownsFolder reports whether folderID names a folder of the given user.
func ownsFolder(ctx context.Context, q querier, userID, folderID string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM folders WHERE id = ? AND user_id = ?`,
		folderID, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check folder owner: %w", err)
	}
	return n > 0, nil
}
