package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/auth"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/store"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/websocket"
)

// MediaPurger deletes blobs whose rows were removed by a cascade.
type MediaPurger interface {
	PurgeKeys(ctx context.Context, keys []string)
}

type FolderHandler struct {
	folders *store.FolderStore
	media   *store.MediaStore
	purger  MediaPurger
	notifier
	logger *slog.Logger
}

// NewFolderHandler creates a FolderHandler. purger may be nil when media
// storage is not configured.
func NewFolderHandler(fs *store.FolderStore, ms *store.MediaStore, purger MediaPurger, hub *websocket.Hub, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: fs, media: ms, purger: purger, notifier: notifier{hub}, logger: logger}
}

var folderTypes = []model.FolderType{model.FolderTypeNotes, model.FolderTypeDiet}

type createFolderRequest struct {
	Name  string           `json:"name" validate:"required"`
	Type  model.FolderType `json:"type" validate:"required,oneof=notes diet"`
	Color string           `json:"color"`
	Icon  string           `json:"icon"`
}

type updateFolderRequest struct {
	Name  model.Optional[string]           `json:"name"`
	Type  model.Optional[model.FolderType] `json:"type"`
	Color model.Optional[string]           `json:"color"`
	Icon  model.Optional[string]           `json:"icon"`
}

func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	folderType := model.FolderType(r.URL.Query().Get("type"))
	if folderType != "" && folderType != model.FolderTypeNotes && folderType != model.FolderTypeDiet {
		writeError(w, http.StatusBadRequest, "type must be one of notes, diet")
		return
	}

	folders, err := h.folders.List(r.Context(), userID, folderType)
	if err != nil {
		h.logger.Error("list folders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list folders")
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createFolderRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if !check(w, &req) {
		return
	}

	folder, err := h.folders.Create(r.Context(), userID, store.FolderParams{
		Name:  req.Name,
		Type:  req.Type,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		h.logger.Error("create folder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create folder")
		return
	}

	h.broadcast(userID, "folder", "created", folder.ID)
	writeJSON(w, http.StatusCreated, folder)
}

func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	folder, err := h.folders.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.logger.Error("get folder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get folder")
		return
	}
	if folder == nil {
		writeError(w, http.StatusNotFound, "folder not found")
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	var req updateFolderRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if invalidEnum(req.Type, folderTypes) {
		writeError(w, http.StatusBadRequest, "type must be one of notes, diet")
		return
	}

	folder, err := h.folders.Update(r.Context(), userID, id, store.FolderUpdate{
		Name:  trimOptional(req.Name),
		Type:  req.Type,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		h.logger.Error("update folder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update folder")
		return
	}
	if folder == nil {
		writeError(w, http.StatusNotFound, "folder not found")
		return
	}

	h.broadcast(userID, "folder", "updated", id)
	writeJSON(w, http.StatusOK, folder)
}

// Delete removes the folder together with its notes and diet entries, then
// purges the blobs of any media those notes carried.
func (h *FolderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	keys, err := h.media.KeysForFolder(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("collect folder media", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete folder")
		return
	}

	deleted, err := h.folders.Delete(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("delete folder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete folder")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "folder not found")
		return
	}

	if h.purger != nil && len(keys) > 0 {
		h.purger.PurgeKeys(r.Context(), keys)
	}

	h.broadcast(userID, "folder", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
