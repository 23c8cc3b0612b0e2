package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/auth"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/store"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/websocket"
)

type NoteHandler struct {
	notes  *store.NoteStore
	media  *store.MediaStore
	purger MediaPurger
	notifier
	logger *slog.Logger
}

func NewNoteHandler(ns *store.NoteStore, ms *store.MediaStore, purger MediaPurger, hub *websocket.Hub, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{notes: ns, media: ms, purger: purger, notifier: notifier{hub}, logger: logger}
}

type createNoteRequest struct {
	FolderID *string  `json:"folderId"`
	Title    string   `json:"title" validate:"required"`
	Content  *string  `json:"content"`
	Tags     []string `json:"tags"`
}

type updateNoteRequest struct {
	FolderID model.Optional[string]   `json:"folderId"`
	Title    model.Optional[string]   `json:"title"`
	Content  model.Optional[string]   `json:"content"`
	Tags     model.Optional[[]string] `json:"tags"`
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	notes, err := h.notes.List(r.Context(), userID, r.URL.Query().Get("folderId"))
	if err != nil {
		h.logger.Error("list notes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createNoteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if !check(w, &req) {
		return
	}

	note, err := h.notes.Create(r.Context(), userID, store.NoteParams{
		FolderID: req.FolderID,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
	})
	if errors.Is(err, store.ErrFolderNotFound) {
		writeError(w, http.StatusBadRequest, "folder not found")
		return
	}
	if err != nil {
		h.logger.Error("create note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	h.broadcast(userID, "note", "created", note.ID)
	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	note, err := h.notes.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.logger.Error("get note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get note")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	var req updateNoteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	note, err := h.notes.Update(r.Context(), userID, id, store.NoteUpdate{
		FolderID: req.FolderID,
		Title:    trimOptional(req.Title),
		Content:  req.Content,
		Tags:     req.Tags,
	})
	if errors.Is(err, store.ErrFolderNotFound) {
		writeError(w, http.StatusBadRequest, "folder not found")
		return
	}
	if err != nil {
		h.logger.Error("update note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update note")
		return
	}
	if note == nil {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	h.broadcast(userID, "note", "updated", id)
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	keys, err := h.media.KeysForNote(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("collect note media", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}

	deleted, err := h.notes.Delete(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("delete note", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "note not found")
		return
	}

	if h.purger != nil && len(keys) > 0 {
		h.purger.PurgeKeys(r.Context(), keys)
	}

	h.broadcast(userID, "note", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
