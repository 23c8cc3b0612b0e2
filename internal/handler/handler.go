// Package handler serves the planner's JSON API. Every handler reads the
// caller from the auth context and only touches that user's rows.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/calendar"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/store"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/websocket"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("dietgoal", func(fl validator.FieldLevel) bool {
		return model.ValidDietGoal(fl.Field().String())
	})
	return v
}

var dietGoalList = func() string {
	goals := make([]string, len(model.DietGoals))
	for i, g := range model.DietGoals {
		goals[i] = string(g)
	}
	return strings.Join(goals, ", ")
}()

// validationMessage reports the first failing field by its JSON name.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "dietgoal":
		return fe.Field() + " must be one of " + dietGoalList
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	}
	return fe.Field() + " is invalid"
}

func readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// check validates a decoded request. It writes the 400 itself and reports
// false when the request should stop.
func check(w http.ResponseWriter, v any) bool {
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// dateRange reads the startDate and endDate query parameters. Filtering only
// applies when both are present.
func dateRange(r *http.Request) (*store.DateRange, error) {
	q := r.URL.Query()
	start, end := q.Get("startDate"), q.Get("endDate")
	if start == "" || end == "" {
		return nil, nil
	}
	s, err := calendar.ParseBound(start, false)
	if err != nil {
		return nil, errors.New("invalid startDate")
	}
	e, err := calendar.ParseBound(end, true)
	if err != nil {
		return nil, errors.New("invalid endDate")
	}
	return &store.DateRange{Start: s, End: e}, nil
}

// invalidEnum reports whether a patch value falls outside the allowed set.
// Absent, null and empty values leave the column alone.
const dateMessage = "date must be an ISO-8601 date"

// parseDate accepts YYYY-MM-DD (midnight UTC) or an RFC3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	t, err := calendar.ParseBound(strings.TrimSpace(s), false)
	return t, err == nil
}

// parseOptionalDate converts a partial-update date. Absent and null pass
// through unchanged.
func parseOptionalDate(o model.Optional[string]) (model.Optional[time.Time], bool) {
	switch {
	case !o.Set:
		return model.Optional[time.Time]{}, true
	case o.Null:
		return model.Null[time.Time](), true
	}
	t, ok := parseDate(o.Value)
	if !ok {
		return model.Optional[time.Time]{}, false
	}
	return model.Some(t), true
}

func invalidEnum[T ~string](o model.Optional[T], allowed []T) bool {
	if !o.Set || o.Null || o.Value == "" {
		return false
	}
	for _, a := range allowed {
		if o.Value == a {
			return false
		}
	}
	return true
}

func trimOptional(o model.Optional[string]) model.Optional[string] {
	o.Value = strings.TrimSpace(o.Value)
	return o
}

// notifier broadcasts a change to the acting user's own connections.
type notifier struct {
	hub *websocket.Hub
}

func (n notifier) broadcast(userID, entity, action, id string) {
	if n.hub != nil {
		n.hub.BroadcastToUser(userID, websocket.NewMessage(entity, action, id))
	}
}
