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

type AppointmentHandler struct {
	appointments *store.AppointmentStore
	notifier
	logger *slog.Logger
}

func NewAppointmentHandler(as *store.AppointmentStore, hub *websocket.Hub, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{appointments: as, notifier: notifier{hub}, logger: logger}
}

type createAppointmentRequest struct {
	Title           string  `json:"title" validate:"required"`
	Description     *string `json:"description"`
	Date            *string `json:"date" validate:"required"`
	Location        *string `json:"location"`
	ReminderMinutes *int    `json:"reminderMinutes" validate:"omitnil,min=0"`
	ReminderEnabled *bool   `json:"reminderEnabled"`
}

type updateAppointmentRequest struct {
	Title           model.Optional[string] `json:"title"`
	Description     model.Optional[string] `json:"description"`
	Date            model.Optional[string] `json:"date"`
	Location        model.Optional[string] `json:"location"`
	ReminderMinutes model.Optional[int]    `json:"reminderMinutes"`
	ReminderEnabled model.Optional[bool]   `json:"reminderEnabled"`
}

// List handles GET /api/appointments. With both startDate and endDate the
// result is limited to that range and ordered by date.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	rng, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	appts, err := h.appointments.List(r.Context(), userID, rng)
	if err != nil {
		h.logger.Error("list appointments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list appointments")
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	var req createAppointmentRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if !check(w, &req) {
		return
	}
	date, ok := parseDate(*req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, dateMessage)
		return
	}

	appt, err := h.appointments.Create(r.Context(), userID, store.AppointmentParams{
		Title:           req.Title,
		Description:     req.Description,
		Date:            date,
		Location:        req.Location,
		ReminderMinutes: req.ReminderMinutes,
		ReminderEnabled: req.ReminderEnabled,
	})
	if err != nil {
		h.logger.Error("create appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create appointment")
		return
	}

	h.broadcast(userID, "appointment", "created", appt.ID)
	writeJSON(w, http.StatusCreated, appt)
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	appt, err := h.appointments.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.logger.Error("get appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get appointment")
		return
	}
	if appt == nil {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	var req updateAppointmentRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	date, ok := parseOptionalDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, dateMessage)
		return
	}
	if req.ReminderMinutes.Set && !req.ReminderMinutes.Null && req.ReminderMinutes.Value < 0 {
		writeError(w, http.StatusBadRequest, "reminderMinutes must be at least 0")
		return
	}

	appt, err := h.appointments.Update(r.Context(), userID, id, store.AppointmentUpdate{
		Title:           trimOptional(req.Title),
		Description:     req.Description,
		Date:            date,
		Location:        req.Location,
		ReminderMinutes: req.ReminderMinutes,
		ReminderEnabled: req.ReminderEnabled,
	})
	if err != nil {
		h.logger.Error("update appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update appointment")
		return
	}
	if appt == nil {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}

	h.broadcast(userID, "appointment", "updated", id)
	writeJSON(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	id := r.PathValue("id")

	deleted, err := h.appointments.Delete(r.Context(), userID, id)
	if err != nil {
		h.logger.Error("delete appointment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete appointment")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}

	h.broadcast(userID, "appointment", "deleted", id)
	w.WriteHeader(http.StatusNoContent)
}
