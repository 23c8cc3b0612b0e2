// Package media attaches image and video blobs to notes.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/storage"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/store"
)

// MaxUploadSize is the largest accepted media payload.
const MaxUploadSize = 50 << 20

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidType = errors.New("unsupported media type")
	ErrTooLarge    = errors.New("file too large")
)

// NoteLookup resolves a note owned by the caller, or nil.
type NoteLookup interface {
	Get(ctx context.Context, userID, id string) (*model.Note, error)
}

// Upload is one incoming file.
type Upload struct {
	Body     io.Reader
	Size     int64
	MimeType string
	Filename string
}

type Service struct {
	notes  NoteLookup
	media  *store.MediaStore
	blobs  storage.Blob
	urlTTL time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewService(notes NoteLookup, media *store.MediaStore, blobs storage.Blob, urlTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		notes:  notes,
		media:  media,
		blobs:  blobs,
		urlTTL: urlTTL,
		logger: logger.With("component", "media"),
		now:    time.Now,
	}
}

// Classify maps a MIME type to a media type.
func Classify(mimeType string) (model.MediaType, error) {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return model.MediaTypeImage, nil
	case strings.HasPrefix(mt, "video/"):
		return model.MediaTypeVideo, nil
	}
	return "", ErrInvalidType
}

// SanitizeFilename keeps the base name and replaces anything outside
// letters, digits, dot, dash and underscore.
func SanitizeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	clean := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '_'
	}, base)
	clean = strings.TrimLeft(clean, ".")
	if clean == "" {
		return "file"
	}
	return clean
}

// Key is the storage key for a blob uploaded at t.
func Key(userID, noteID string, t time.Time, filename string) string {
	return fmt.Sprintf("media/%s/%s/%d-%s", userID, noteID, t.UnixMilli(), SanitizeFilename(filename))
}

// capReader fails with ErrTooLarge once more than max bytes have been read,
// whatever size the client declared.
type capReader struct {
	r   io.Reader
	n   int64
	max int64
}

func (c *capReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.n > c.max {
		return n, ErrTooLarge
	}
	return n, err
}

func (s *Service) Upload(ctx context.Context, userID, noteID string, up Upload) (*model.MediaWithURL, error) {
	note, err := s.notes.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNotFound
	}

	mediaType, err := Classify(up.MimeType)
	if err != nil {
		return nil, err
	}
	if up.Size > MaxUploadSize {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(&capReader{r: up.Body, max: MaxUploadSize})
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	size := int64(len(data))

	key := Key(userID, noteID, s.now(), up.Filename)
	if err := s.blobs.Put(ctx, key, bytes.NewReader(data), size, up.MimeType); err != nil {
		return nil, err
	}

	row, err := s.media.Create(ctx, userID, store.MediaParams{
		NoteID:    noteID,
		MediaKey:  key,
		MediaType: mediaType,
		Filename:  up.Filename,
		FileSize:  &size,
	})
	if err != nil {
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			s.logger.Warn("orphaned blob after failed insert", "key", key, "error", derr)
		}
		return nil, err
	}

	return s.withURL(ctx, *row)
}

func (s *Service) ListForNote(ctx context.Context, userID, noteID string) ([]model.MediaWithURL, error) {
	note, err := s.notes.Get(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, ErrNotFound
	}

	rows, err := s.media.ListForNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	out := make([]model.MediaWithURL, 0, len(rows))
	for _, row := range rows {
		m, err := s.withURL(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

// Delete removes the blob first. If that fails the row stays so the blob is
// never orphaned.
func (s *Service) Delete(ctx context.Context, userID, mediaID string) error {
	row, err := s.media.Get(ctx, userID, mediaID)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrNotFound
	}

	if err := s.blobs.Delete(ctx, row.MediaKey); err != nil {
		return err
	}
	if _, err := s.media.Delete(ctx, userID, mediaID); err != nil {
		return err
	}
	return nil
}

// PurgeKeys deletes blobs whose rows went away through a cascade. Failures
// are logged and skipped.
func (s *Service) PurgeKeys(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("purge blob failed", "key", key, "error", err)
		}
	}
}

func (s *Service) withURL(ctx context.Context, row model.NoteMedia) (*model.MediaWithURL, error) {
	url, err := s.blobs.PresignGet(ctx, row.MediaKey, s.urlTTL)
	if err != nil {
		return nil, err
	}
	return &model.MediaWithURL{NoteMedia: row, URL: url}, nil
}
