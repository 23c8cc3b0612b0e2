package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/auth"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/store"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/websocket"
)

type DietPlanHandler struct {
	plans *store.DietPlanStore
	notifier
	logger *slog.Logger
}

func NewDietPlanHandler(ps *store.DietPlanStore, hub *websocket.Hub, logger *slog.Logger) *DietPlanHandler {
	return &DietPlanHandler{plans: ps, notifier: notifier{hub}, logger: logger}
}

type createDietPlanRequest struct {
	Name               string         `json:"name" validate:"required"`
	Goal               model.DietGoal `json:"goal" validate:"required,dietgoal"`
	DailyCalorieTarget *int           `json:"dailyCalorieTarget" validate:"omitnil,min=0"`
	DailyProteinTarget *int           `json:"dailyProteinTarget" validate:"omitnil,min=0"`
	DailyWaterTarget   *int           `json:"dailyWaterTarget" validate:"omitnil,min=0"`
	Notes              *string        `json:"notes"`
}

type updateDietPlanRequest struct {
	Name               model.Optional[string]         `json:"name"`
	Goal               model.Optional[model.DietGoal] `json:"goal"`
	DailyCalorieTarget model.Optional[int]            `json:"dailyCalorieTarget"`
	DailyProteinTarget model.Optional[int]            `json:"dailyProteinTarget"`
	DailyWaterTarget   model.Optional[int]            `json:"dailyWaterTarget"`
	Notes              model.Optional[string]         `json:"notes"`
	IsActive           model.Optional[bool]           `json:"isActive"`
}

func (h *DietPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	plans, err := h.plans.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("list diet plans", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list diet plans")
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// Create stores the plan as the caller's only active plan.
func (h *DietPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createDietPlanRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if !check(w, &req) {
		return
	}

	plan, err := h.plans.Create(r.Context(), userID, store.DietPlanParams{
		Name:               req.Name,
		Goal:               req.Goal,
		DailyCalorieTarget: req.DailyCalorieTarget,
		DailyProteinTarget: req.DailyProteinTarget,
		DailyWaterTarget:   req.DailyWaterTarget,
		Notes:              req.Notes,
	})
	if err != nil {
		h.logger.Error("create diet plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create diet plan")
		return
	}

	h.broadcast(userID, "diet_plan", "created", plan.ID)
	writeJSON(w, http.StatusCreated, plan)
}

// Active handles GET /api/diet-plans/active.
func (h *DietPlanHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	plan, err := h.plans.Active(r.Context(), userID)
	if err != nil {
		h.logger.Error("get active diet plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get active diet plan")
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "no active diet plan")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *DietPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	plan, err := h.plans.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.logger.Error("get diet plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get diet plan")
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "diet plan not found")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// Update applies a partial patch. isActive=true deactivates the caller's
// other plans in the same transaction.
func (h *DietPlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	var req updateDietPlanRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if invalidEnum(req.Goal, model.DietGoals) {
		writeError(w, http.StatusBadRequest, "goal must be one of "+dietGoalList)
		return
	}

	plan, err := h.plans.Update(r.Context(), userID, id, store.DietPlanUpdate{
		Name:               trimOptional(req.Name),
		Goal:               req.Goal,
		DailyCalorieTarget: req.DailyCalorieTarget,
		DailyProteinTarget: req.DailyProteinTarget,
		DailyWaterTarget:   req.DailyWaterTarget,
		Notes:              req.Notes,
		IsActive:           req.IsActive,
	})
	if err != nil {
		h.logger.Error("update diet plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update diet plan")
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "diet plan not found")
		return
	}

	h.broadcast(userID, "diet_plan", "updated", id)
	writeJSON(w, http.StatusOK, plan)
}

func (h *DietPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	deleted, err := h.plans.Delete(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("delete diet plan", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete diet plan")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "diet plan not found")
		return
	}

	h.broadcast(userID, "diet_plan", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
