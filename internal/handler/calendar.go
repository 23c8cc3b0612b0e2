package handler

import (
	"log/slog"
	"net/http"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/auth"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/calendar"
)

type CalendarHandler struct {
	calendar *calendar.Service
	logger   *slog.Logger
}

func NewCalendarHandler(svc *calendar.Service, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{calendar: svc, logger: logger}
}

// Events handles GET /api/calendar/events?startDate=&endDate=.
func (h *CalendarHandler) Events(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	rng, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if rng == nil {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}

	view, err := h.calendar.Range(r.Context(), userID, rng.Start, rng.End)
	if err != nil {
		h.logger.Error("calendar events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load calendar events")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Day handles GET /api/calendar/day/{date}.
func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	date, err := calendar.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date")
		return
	}

	view, err := h.calendar.Day(r.Context(), userID, date)
	if err != nil {
		h.logger.Error("calendar day", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load day")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Month handles GET /api/calendar/month/{yearMonth}.
func (h *CalendarHandler) Month(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	month, err := calendar.ParseMonth(r.PathValue("yearMonth"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	view, err := h.calendar.Month(r.Context(), userID, month)
	if err != nil {
		h.logger.Error("calendar month", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load month")
		return
	}
	writeJSON(w, http.StatusOK, view)
}
