package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

type NoteStore struct {
	rows scoped[model.Note]
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{rows: scoped[model.Note]{
		db:         db,
		table:      "notes",
		cols:       noteCols,
		hasUpdated: true,
		scan:       scanNote,
	}}
}

const noteCols = `id, user_id, folder_id, title, content, tags, created_at, updated_at`

func scanNote(scanner rowScanner) (*model.Note, error) {
	var n model.Note
	var folderID, content sql.NullString
	var tags string

	err := scanner.Scan(
		&n.ID, &n.UserID, &folderID, &n.Title, &content, &tags,
		scanTime(&n.CreatedAt), scanTime(&n.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}

	n.FolderID = ptrString(folderID)
	n.Content = ptrString(content)
	if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return &n, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

type NoteParams struct {
	FolderID *string
	Title    string
	Content  *string
	Tags     []string
}

type NoteUpdate struct {
	FolderID model.Optional[string]
	Title    model.Optional[string]
	Content  model.Optional[string]
	Tags     model.Optional[[]string]
}

func (s *NoteStore) Create(ctx context.Context, userID string, p NoteParams) (*model.Note, error) {
	if p.FolderID != nil && *p.FolderID != "" {
		ok, err := ownsFolder(ctx, s.rows.db, userID, *p.FolderID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrFolderNotFound
		}
	}
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return nil, err
	}
	return s.rows.insert(ctx, s.rows.db, userID,
		[]string{"folder_id", "title", "content", "tags"},
		[]any{nullString(p.FolderID), p.Title, nullString(p.Content), tags},
	)
}

func (s *NoteStore) Get(ctx context.Context, userID, id string) (*model.Note, error) {
	return s.rows.get(ctx, userID, id)
}

// List returns the caller's notes, optionally narrowed to one folder.
func (s *NoteStore) List(ctx context.Context, userID, folderID string) ([]model.Note, error) {
	var f Filter
	if folderID != "" {
		f = f.Eq("folder_id", folderID)
	}
	return s.rows.list(ctx, userID, f)
}

func (s *NoteStore) Update(ctx context.Context, userID, id string, u NoteUpdate) (*model.Note, error) {
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
	if u.Title.Set && !u.Title.Null && u.Title.Value != "" {
		p.Set("title", u.Title.Value)
	}
	p.text("content", u.Content)
	if u.Tags.Set {
		tags, err := encodeTags(u.Tags.Value)
		if err != nil {
			return nil, err
		}
		p.Set("tags", tags)
	}
	return s.rows.update(ctx, s.rows.db, userID, id, p)
}

func (s *NoteStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.rows.delete(ctx, userID, id)
}
