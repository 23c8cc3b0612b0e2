package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/auth"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/media"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/websocket"
)

// multipartOverhead leaves room for boundaries and part headers on top of
// the file itself.
const multipartOverhead = 1 << 20

// uploadTimeout replaces the server-wide deadlines for the upload request.
const uploadTimeout = 5 * time.Minute

type MediaHandler struct {
	service *media.Service
	notifier
	logger *slog.Logger
}

func NewMediaHandler(svc *media.Service, hub *websocket.Hub, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{service: svc, notifier: notifier{hub}, logger: logger}
}

// Upload handles POST /api/notes/{noteId}/media with a multipart "file"
// field. The file part is streamed straight into the media service.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	noteID := r.PathValue("noteId")

	rc := http.NewResponseController(w)
	rc.SetReadDeadline(time.Now().Add(uploadTimeout))
	rc.SetWriteDeadline(time.Now().Add(uploadTimeout))

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+multipartOverhead)
	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart form required")
		return
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			writeError(w, http.StatusBadRequest, "file is required")
			return
		}
		if err != nil {
			h.uploadError(w, err)
			return
		}
		if part.FormName() != "file" || part.FileName() == "" {
			part.Close()
			continue
		}

		item, err := h.service.Upload(r.Context(), userID, noteID, media.Upload{
			Body:     part,
			MimeType: part.Header.Get("Content-Type"),
			Filename: part.FileName(),
		})
		part.Close()
		if err != nil {
			h.uploadError(w, err)
			return
		}

		h.broadcast(userID, "media", "created", item.ID)
		writeJSON(w, http.StatusCreated, item)
		return
	}
}

func (h *MediaHandler) uploadError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, media.ErrNotFound):
		writeError(w, http.StatusNotFound, "note not found")
	case errors.Is(err, media.ErrInvalidType):
		writeError(w, http.StatusBadRequest, "only image and video files are allowed")
	case errors.Is(err, media.ErrTooLarge), errors.As(err, &maxErr):
		writeError(w, http.StatusRequestEntityTooLarge, "file exceeds 50MB limit")
	default:
		h.logger.Error("upload media", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to upload media")
	}
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	items, err := h.service.ListForNote(r.Context(), userID, r.PathValue("noteId"))
	if errors.Is(err, media.ErrNotFound) {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	if err != nil {
		h.logger.Error("list media", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list media")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("mediaId")

	err := h.service.Delete(r.Context(), userID, id)
	if errors.Is(err, media.ErrNotFound) {
		writeError(w, http.StatusNotFound, "media not found")
		return
	}
	if err != nil {
		h.logger.Error("delete media", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete media")
		return
	}

	h.broadcast(userID, "media", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
