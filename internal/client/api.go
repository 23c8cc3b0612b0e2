package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"path/filepath"
	"time"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/calendar"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

type AuthResult struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Register creates an account and switches the client to its session.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.Post(ctx, "/api/auth/register", body, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

// Login switches the client to a new session.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.Post(ctx, "/api/auth/login", body, &res); err != nil {
		return nil, err
	}
	c.token = res.Token
	return &res, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.Post(ctx, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.Get(ctx, "/api/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Folders

type FolderInput struct {
	Name  string           `json:"name"`
	Type  model.FolderType `json:"type"`
	Color string           `json:"color,omitempty"`
	Icon  string           `json:"icon,omitempty"`
}

type FolderPatch struct {
	Name  model.Optional[string] `json:"name,omitzero"`
	Color model.Optional[string] `json:"color,omitzero"`
	Icon  model.Optional[string] `json:"icon,omitzero"`
}

func (c *Client) ListFolders(ctx context.Context, folderType model.FolderType) ([]model.Folder, error) {
	q := url.Values{}
	if folderType != "" {
		q.Set("type", string(folderType))
	}
	var out []model.Folder
	return out, c.Get(ctx, "/api/folders", q, &out)
}

func (c *Client) CreateFolder(ctx context.Context, in FolderInput) (*model.Folder, error) {
	var f model.Folder
	if err := c.Post(ctx, "/api/folders", in, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) GetFolder(ctx context.Context, id string) (*model.Folder, error) {
	var f model.Folder
	if err := c.Get(ctx, "/api/folders/"+url.PathEscape(id), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) UpdateFolder(ctx context.Context, id string, p FolderPatch) (*model.Folder, error) {
	var f model.Folder
	if err := c.Put(ctx, "/api/folders/"+url.PathEscape(id), p, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) DeleteFolder(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/folders/"+url.PathEscape(id))
}

// Notes

type NoteInput struct {
	FolderID *string  `json:"folderId,omitempty"`
	Title    string   `json:"title"`
	Content  *string  `json:"content,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

type NotePatch struct {
	FolderID model.Optional[string]   `json:"folderId,omitzero"`
	Title    model.Optional[string]   `json:"title,omitzero"`
	Content  model.Optional[string]   `json:"content,omitzero"`
	Tags     model.Optional[[]string] `json:"tags,omitzero"`
}

func (c *Client) ListNotes(ctx context.Context, folderID string) ([]model.Note, error) {
	q := url.Values{}
	if folderID != "" {
		q.Set("folderId", folderID)
	}
	var out []model.Note
	return out, c.Get(ctx, "/api/notes", q, &out)
}

func (c *Client) GetNote(ctx context.Context, id string) (*model.Note, error) {
	var n model.Note
	if err := c.Get(ctx, "/api/notes/"+url.PathEscape(id), nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) CreateNote(ctx context.Context, in NoteInput) (*model.Note, error) {
	var n model.Note
	if err := c.Post(ctx, "/api/notes", in, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) UpdateNote(ctx context.Context, id string, p NotePatch) (*model.Note, error) {
	var n model.Note
	if err := c.Put(ctx, "/api/notes/"+url.PathEscape(id), p, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/notes/"+url.PathEscape(id))
}

// Media

// UploadMedia streams r as the multipart "file" field. An empty contentType
// is guessed from the filename extension.
func (c *Client) UploadMedia(ctx context.Context, noteID, filename, contentType string, r io.Reader) (*model.MediaWithURL, error) {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	var m model.MediaWithURL
	path := "/api/notes/" + url.PathEscape(noteID) + "/media"
	if err := c.do(ctx, "POST", path, mw.FormDataContentType(), pr, &m); err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	return &m, nil
}

func (c *Client) ListMedia(ctx context.Context, noteID string) ([]model.MediaWithURL, error) {
	var out []model.MediaWithURL
	return out, c.Get(ctx, "/api/notes/"+url.PathEscape(noteID)+"/media", nil, &out)
}

func (c *Client) DeleteMedia(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/media/"+url.PathEscape(id))
}

// Appointments

type AppointmentInput struct {
	Title           string    `json:"title"`
	Description     *string   `json:"description,omitempty"`
	Date            time.Time `json:"date"`
	Location        *string   `json:"location,omitempty"`
	ReminderMinutes *int      `json:"reminderMinutes,omitempty"`
	ReminderEnabled *bool     `json:"reminderEnabled,omitempty"`
}

type AppointmentPatch struct {
	Title           model.Optional[string]    `json:"title,omitzero"`
	Description     model.Optional[string]    `json:"description,omitzero"`
	Date            model.Optional[time.Time] `json:"date,omitzero"`
	Location        model.Optional[string]    `json:"location,omitzero"`
	ReminderMinutes model.Optional[int]       `json:"reminderMinutes,omitzero"`
	ReminderEnabled model.Optional[bool]      `json:"reminderEnabled,omitzero"`
}

// Range is a startDate/endDate query. Bounds are YYYY-MM-DD or RFC3339.
type Range struct {
	Start string
	End   string
}

func (r *Range) apply(q url.Values) {
	if r == nil {
		return
	}
	q.Set("startDate", r.Start)
	q.Set("endDate", r.End)
}

func (c *Client) ListAppointments(ctx context.Context, rng *Range) ([]model.Appointment, error) {
	q := url.Values{}
	rng.apply(q)
	var out []model.Appointment
	return out, c.Get(ctx, "/api/appointments", q, &out)
}

func (c *Client) CreateAppointment(ctx context.Context, in AppointmentInput) (*model.Appointment, error) {
	var a model.Appointment
	if err := c.Post(ctx, "/api/appointments", in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, id string, p AppointmentPatch) (*model.Appointment, error) {
	var a model.Appointment
	if err := c.Put(ctx, "/api/appointments/"+url.PathEscape(id), p, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/appointments/"+url.PathEscape(id))
}

// Diet entries

type DietEntryInput struct {
	FolderID *string        `json:"folderId,omitempty"`
	Date     time.Time      `json:"date"`
	MealType model.MealType `json:"mealType"`
	FoodName string         `json:"foodName"`
	Calories *int           `json:"calories,omitempty"`
	Notes    *string        `json:"notes,omitempty"`
}

type DietFilter struct {
	FolderID string
	Range    *Range
}

func (c *Client) ListDietEntries(ctx context.Context, f DietFilter) ([]model.DietEntry, error) {
	q := url.Values{}
	if f.FolderID != "" {
		q.Set("folderId", f.FolderID)
	}
	f.Range.apply(q)
	var out []model.DietEntry
	return out, c.Get(ctx, "/api/diet", q, &out)
}

func (c *Client) CreateDietEntry(ctx context.Context, in DietEntryInput) (*model.DietEntry, error) {
	var e model.DietEntry
	if err := c.Post(ctx, "/api/diet", in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) DeleteDietEntry(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/diet/"+url.PathEscape(id))
}

// Diet plans

type DietPlanInput struct {
	Name               string         `json:"name"`
	Goal               model.DietGoal `json:"goal"`
	DailyCalorieTarget *int           `json:"dailyCalorieTarget,omitempty"`
	DailyProteinTarget *int           `json:"dailyProteinTarget,omitempty"`
	DailyWaterTarget   *int           `json:"dailyWaterTarget,omitempty"`
	Notes              *string        `json:"notes,omitempty"`
}

func (c *Client) ListDietPlans(ctx context.Context) ([]model.DietPlan, error) {
	var out []model.DietPlan
	return out, c.Get(ctx, "/api/diet-plans", nil, &out)
}

func (c *Client) CreateDietPlan(ctx context.Context, in DietPlanInput) (*model.DietPlan, error) {
	var p model.DietPlan
	if err := c.Post(ctx, "/api/diet-plans", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ActiveDietPlan returns the active plan, or nil when there is none.
func (c *Client) ActiveDietPlan(ctx context.Context) (*model.DietPlan, error) {
	var p model.DietPlan
	if err := c.Get(ctx, "/api/diet-plans/active", nil, &p); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsNotFound() {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (c *Client) ActivateDietPlan(ctx context.Context, id string) (*model.DietPlan, error) {
	var p model.DietPlan
	body := map[string]bool{"isActive": true}
	if err := c.Put(ctx, "/api/diet-plans/"+url.PathEscape(id), body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteDietPlan(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/diet-plans/"+url.PathEscape(id))
}

// Calendar

func (c *Client) CalendarDay(ctx context.Context, date string) (*calendar.DayView, error) {
	var v calendar.DayView
	if err := c.Get(ctx, "/api/calendar/day/"+url.PathEscape(date), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) CalendarMonth(ctx context.Context, yearMonth string) (*calendar.MonthView, error) {
	var v calendar.MonthView
	if err := c.Get(ctx, "/api/calendar/month/"+url.PathEscape(yearMonth), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) CalendarEvents(ctx context.Context, rng Range) (*calendar.RangeView, error) {
	q := url.Values{}
	rng.apply(q)
	var v calendar.RangeView
	if err := c.Get(ctx, "/api/calendar/events", q, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
