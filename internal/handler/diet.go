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

type DietHandler struct {
	entries *store.DietEntryStore
	notifier
	logger *slog.Logger
}

func NewDietHandler(ds *store.DietEntryStore, hub *websocket.Hub, logger *slog.Logger) *DietHandler {
	return &DietHandler{entries: ds, notifier: notifier{hub}, logger: logger}
}

const mealTypeMessage = "mealType must be one of breakfast, lunch, dinner, snack"

type createDietEntryRequest struct {
	FolderID *string        `json:"folderId"`
	Date     *string        `json:"date" validate:"required"`
	MealType model.MealType `json:"mealType" validate:"required,oneof=breakfast lunch dinner snack"`
	FoodName string         `json:"foodName" validate:"required"`
	Calories *int           `json:"calories" validate:"omitnil,min=0"`
	Notes    *string        `json:"notes"`
}

type updateDietEntryRequest struct {
	FolderID model.Optional[string]         `json:"folderId"`
	Date     model.Optional[string]         `json:"date"`
	MealType model.Optional[model.MealType] `json:"mealType"`
	FoodName model.Optional[string]         `json:"foodName"`
	Calories model.Optional[int]            `json:"calories"`
	Notes    model.Optional[string]         `json:"notes"`
}

// List handles GET /api/diet. startDate and endDate filter together;
// folderId filters on its own.
func (h *DietHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	rng, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.entries.List(r.Context(), userID, store.DietEntryFilter{
		FolderID: r.URL.Query().Get("folderId"),
		Range:    rng,
	})
	if err != nil {
		h.logger.Error("list diet entries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list diet entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *DietHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createDietEntryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.FoodName = strings.TrimSpace(req.FoodName)
	if !check(w, &req) {
		return
	}
	date, ok := parseDate(*req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, dateMessage)
		return
	}

	entry, err := h.entries.Create(r.Context(), userID, store.DietEntryParams{
		FolderID: req.FolderID,
		Date:     date,
		MealType: req.MealType,
		FoodName: req.FoodName,
		Calories: req.Calories,
		Notes:    req.Notes,
	})
	if errors.Is(err, store.ErrFolderNotFound) {
		writeError(w, http.StatusBadRequest, "folder not found")
		return
	}
	if err != nil {
		h.logger.Error("create diet entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create diet entry")
		return
	}

	h.broadcast(userID, "diet_entry", "created", entry.ID)
	writeJSON(w, http.StatusCreated, entry)
}

func (h *DietHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	entry, err := h.entries.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.logger.Error("get diet entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get diet entry")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "diet entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *DietHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	var req updateDietEntryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	date, ok := parseOptionalDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, dateMessage)
		return
	}
	if invalidEnum(req.MealType, model.MealTypes) {
		writeError(w, http.StatusBadRequest, mealTypeMessage)
		return
	}
	if req.Calories.Set && req.Calories.Value < 0 {
		writeError(w, http.StatusBadRequest, "calories must be at least 0")
		return
	}

	entry, err := h.entries.Update(r.Context(), userID, id, store.DietEntryUpdate{
		FolderID: req.FolderID,
		Date:     date,
		MealType: req.MealType,
		FoodName: trimOptional(req.FoodName),
		Calories: req.Calories,
		Notes:    req.Notes,
	})
	if errors.Is(err, store.ErrFolderNotFound) {
		writeError(w, http.StatusBadRequest, "folder not found")
		return
	}
	if err != nil {
		h.logger.Error("update diet entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update diet entry")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "diet entry not found")
		return
	}

	h.broadcast(userID, "diet_entry", "updated", id)
	writeJSON(w, http.StatusOK, entry)
}

func (h *DietHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	deleted, err := h.entries.Delete(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("delete diet entry", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete diet entry")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "diet entry not found")
		return
	}

	h.broadcast(userID, "diet_entry", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
