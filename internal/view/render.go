package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/aipeeri/all-in-one-planner-frchtg/internal/calendar"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/client"
	"github.com/aipeeri/all-in-one-planner-frchtg/internal/model"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

const stampLayout = "2006-01-02 15:04"

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func writeNotice(sb *strings.Builder, notice string) {
	if notice != "" {
		sb.WriteString("\n" + yellow(notice) + "\n")
	}
}

// RenderFolders lists folders with the selected one marked. An empty
// selection marks "All notes".
func RenderFolders(folders []model.Folder, selected string) string {
	var sb strings.Builder

	marker := func(on bool) string {
		if on {
			return cyan(">")
		}
		return " "
	}
	sb.WriteString(bold("Folders") + "\n")
	sb.WriteString(fmt.Sprintf(" %s %s\n", marker(selected == ""), "All notes"))
	for _, f := range folders {
		sb.WriteString(fmt.Sprintf(" %s %s  %s %s\n",
			marker(f.ID == selected), faint(shortID(f.ID)), f.Name, faint("("+f.Color+")")))
	}
	return sb.String()
}

// RenderNotes draws the folder sidebar followed by the note list.
func RenderNotes(s *NotesScreen) string {
	var sb strings.Builder

	sb.WriteString(RenderFolders(s.Folders, s.SelectedFolderID))
	sb.WriteString("\n" + bold("Notes") + "\n")
	if len(s.Notes) == 0 {
		sb.WriteString(faint("  No notes yet") + "\n")
	}
	for _, n := range s.Notes {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", faint(shortID(n.ID)), bold(n.Title)))
		if len(n.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("            %s %s\n", faint("Tags:"), cyan(strings.Join(n.Tags, ", "))))
		}
		sb.WriteString(fmt.Sprintf("            %s %s\n", faint("Updated:"), faint(n.UpdatedAt.Format(stampLayout))))
	}

	writeNotice(&sb, s.Notice)
	return sb.String()
}

// RenderNoteDetail shows a note with its markdown content rendered for the
// terminal, followed by its attachments.
func RenderNoteDetail(n model.Note, media []model.MediaWithURL) string {
	var sb strings.Builder

	sb.WriteString(bold(n.Title) + "\n")
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(n.ID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(n.UpdatedAt.Format(stampLayout))))
	if len(n.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("%s %s\n", faint("Tags:"), cyan(strings.Join(n.Tags, ", "))))
	}
	sb.WriteString(separator())

	if n.Content != nil && *n.Content != "" {
		sb.WriteString(renderMarkdown(*n.Content))
	}

	if len(media) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s\n", bold("Attachments:")))
		for _, m := range media {
			sb.WriteString(fmt.Sprintf("  %s  %s %s\n", faint(shortID(m.ID)), m.Filename, faint("["+string(m.MediaType)+"]")))
			sb.WriteString(fmt.Sprintf("            %s\n", faint(m.URL)))
		}
	}
	return sb.String()
}

// renderMarkdown falls back to the raw text when glamour fails.
func renderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content + "\n"
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content + "\n"
	}
	return out
}

// RenderMonth draws a Sunday-first month grid. Days with events are marked
// with an asterisk and listed underneath.
func RenderMonth(s *CalendarScreen) string {
	var sb strings.Builder

	byDate := make(map[string]calendar.DaySummary, len(s.Days))
	for _, d := range s.Days {
		byDate[d.Date] = d
	}

	sb.WriteString(bold(s.Month.Format("January 2006")) + "\n")
	sb.WriteString(faint(" Su  Mo  Tu  We  Th  Fr  Sa") + "\n")

	first := time.Date(s.Month.Year(), s.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
	sb.WriteString(strings.Repeat("    ", int(first.Weekday())))
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		cell := fmt.Sprintf("%3d", d.Day())
		if sum, ok := byDate[calendar.DayKey(d)]; ok && sum.HasEvents {
			cell = green(cell) + "*"
		} else {
			cell += " "
		}
		sb.WriteString(cell)
		if d.Weekday() == time.Saturday {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")

	if len(s.Days) > 0 {
		sb.WriteString("\n")
	}
	for _, d := range s.Days {
		sb.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			cyan(d.Date),
			plural(d.AppointmentCount, "appointment"),
			faint(fmt.Sprintf("%d meals, %d kcal", d.MealCount, d.TotalCalories))))
	}

	writeNotice(&sb, s.Notice)
	return sb.String()
}

// RenderDay lists a day's appointments, meals by type and totals.
func RenderDay(v *calendar.DayView) string {
	var sb strings.Builder

	sb.WriteString(bold(v.Date) + "\n")
	sb.WriteString(separator())

	sb.WriteString(bold("Appointments") + "\n")
	if len(v.Appointments) == 0 {
		sb.WriteString(faint("  none") + "\n")
	}
	for _, a := range v.Appointments {
		sb.WriteString(fmt.Sprintf("  %s  %s  %s", faint(shortID(a.ID)), cyan(a.Date.Format("15:04")), a.Title))
		if a.Location != nil {
			sb.WriteString(" " + faint("@ "+*a.Location))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n" + bold("Meals") + "\n")
	groups := []struct {
		name    string
		entries []model.DietEntry
	}{
		{"Breakfast", v.DietEntries.Breakfast},
		{"Lunch", v.DietEntries.Lunch},
		{"Dinner", v.DietEntries.Dinner},
		{"Snack", v.DietEntries.Snack},
	}
	for _, g := range groups {
		if len(g.entries) == 0 {
			continue
		}
		sb.WriteString("  " + g.name + "\n")
		for _, e := range g.entries {
			sb.WriteString(fmt.Sprintf("    %s  %s %s\n", faint(shortID(e.ID)), e.FoodName, faint(calories(e.Calories))))
		}
	}

	st := v.DailyStats
	sb.WriteString(fmt.Sprintf("\n%s %d kcal, %s, %s\n",
		faint("Total:"), st.TotalCalories, plural(st.MealCount, "meal"), plural(st.AppointmentCount, "appointment")))
	return sb.String()
}

// RenderDiet shows the active plan, all plans and logged meals.
func RenderDiet(s *DietScreen) string {
	var sb strings.Builder

	sb.WriteString(bold("Active plan") + "\n")
	if s.Active == nil {
		sb.WriteString(faint("  No active diet plan") + "\n")
	} else {
		p := s.Active
		sb.WriteString(fmt.Sprintf("  %s %s\n", bold(p.Name), faint("("+string(p.Goal)+")")))
		if p.DailyCalorieTarget != nil {
			sb.WriteString(fmt.Sprintf("  %s %d kcal\n", faint("Calories:"), *p.DailyCalorieTarget))
		}
		if p.DailyProteinTarget != nil {
			sb.WriteString(fmt.Sprintf("  %s %d g\n", faint("Protein:"), *p.DailyProteinTarget))
		}
		if p.DailyWaterTarget != nil {
			sb.WriteString(fmt.Sprintf("  %s %d ml\n", faint("Water:"), *p.DailyWaterTarget))
		}
	}

	if len(s.Plans) > 0 {
		sb.WriteString("\n" + bold("Plans") + "\n")
		for _, p := range s.Plans {
			mark := " "
			if p.IsActive {
				mark = green("*")
			}
			sb.WriteString(fmt.Sprintf(" %s %s  %s %s\n", mark, faint(shortID(p.ID)), p.Name, faint("("+string(p.Goal)+")")))
		}
	}

	sb.WriteString("\n" + bold("Meals") + "\n")
	if len(s.Entries) == 0 {
		sb.WriteString(faint("  Nothing logged") + "\n")
	}
	total := 0
	for _, e := range s.Entries {
		if e.Calories != nil {
			total += *e.Calories
		}
		sb.WriteString(fmt.Sprintf("  %s  %s  %-9s %s %s\n",
			faint(shortID(e.ID)), cyan(e.Date.Format(stampLayout)), e.MealType, e.FoodName, faint(calories(e.Calories))))
	}
	if len(s.Entries) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s %d kcal\n", faint("Total:"), total))
	}

	writeNotice(&sb, s.Notice)
	return sb.String()
}

func calories(c *int) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("(%d kcal)", *c)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
