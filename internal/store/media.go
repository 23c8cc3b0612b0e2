package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

// MediaStore holds note_media rows. The blobs themselves live in object
// storage; see the media package.
type MediaStore struct {
	rows scoped[model.NoteMedia]
}

func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{rows: scoped[model.NoteMedia]{
		db:    db,
		table: "note_media",
		cols:  mediaCols,
		scan:  scanMedia,
	}}
}

const mediaCols = `id, note_id, user_id, media_key, media_type, filename, file_size, created_at`

func scanMedia(scanner rowScanner) (*model.NoteMedia, error) {
	var m model.NoteMedia
	var size sql.NullInt64
	err := scanner.Scan(
		&m.ID, &m.NoteID, &m.UserID, &m.MediaKey, &m.MediaType, &m.Filename, &size,
		scanTime(&m.CreatedAt),
	)
	if err != nil {
		return nil, err
	}
	if size.Valid {
		m.FileSize = &size.Int64
	}
	return &m, nil
}

type MediaParams struct {
	NoteID    string
	MediaKey  string
	MediaType model.MediaType
	Filename  string
	FileSize  *int64
}

func (s *MediaStore) Create(ctx context.Context, userID string, p MediaParams) (*model.NoteMedia, error) {
	var size any
	if p.FileSize != nil {
		size = *p.FileSize
	}
	return s.rows.insert(ctx, s.rows.db, userID,
		[]string{"note_id", "media_key", "media_type", "filename", "file_size"},
		[]any{p.NoteID, p.MediaKey, string(p.MediaType), p.Filename, size},
	)
}

func (s *MediaStore) Get(ctx context.Context, userID, id string) (*model.NoteMedia, error) {
	return s.rows.get(ctx, userID, id)
}

func (s *MediaStore) ListForNote(ctx context.Context, userID, noteID string) ([]model.NoteMedia, error) {
	return s.rows.list(ctx, userID, Filter{}.Eq("note_id", noteID))
}

func (s *MediaStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	return s.rows.delete(ctx, userID, id)
}

// KeysForNote returns the storage keys attached to a note.
func (s *MediaStore) KeysForNote(ctx context.Context, userID, noteID string) ([]string, error) {
	return s.keys(ctx,
		`SELECT media_key FROM note_media WHERE user_id = ? AND note_id = ?`,
		userID, noteID,
	)
}

// KeysForFolder returns the storage keys attached to every note in a folder.
func (s *MediaStore) KeysForFolder(ctx context.Context, userID, folderID string) ([]string, error) {
	return s.keys(ctx,
		`SELECT m.media_key FROM note_media m
		 JOIN notes n ON n.id = m.note_id
		 WHERE m.user_id = ? AND n.folder_id = ?`,
		userID, folderID,
	)
}

func (s *MediaStore) keys(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.rows.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list media keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan media key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
