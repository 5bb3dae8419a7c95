package task

import (
	"fmt"
	"strings"
	"time"

	"tasktrove/internal/model"
	"tasktrove/internal/schedule"
)

const icsDateLayout = "20060102"

// BuildCalendarICS renders every dated task as an all-day iCalendar
// event. Tasks without a due date are skipped; a recurrence rule that
// parses becomes an RRULE on the event.
func BuildCalendarICS(tasks []model.Task, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//TaskTrove//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	for _, t := range tasks {
		lines = append(lines, taskEventLines(t, now)...)
	}

	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

// BuildTaskCalendarICS builds a single-event calendar for one task.
// A due date is required so the exported event has a concrete start date.
func BuildTaskCalendarICS(t model.Task, now time.Time) (string, error) {
	ev := taskEventLines(t, now)
	if ev == nil {
		return "", fmt.Errorf("task due date required for calendar export")
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//TaskTrove//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	lines = append(lines, ev...)
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n"), nil
}

func taskEventLines(t model.Task, now time.Time) []string {
	dueRaw := ""
	if t.DueDate != nil {
		dueRaw = strings.TrimSpace(*t.DueDate)
	}
	if dueRaw == "" {
		return nil
	}
	due, err := time.ParseInLocation(schedule.DateLayout, dueRaw, time.Local)
	if err != nil {
		return nil
	}
	end := due.AddDate(0, 0, 1)

	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "TaskTrove Task"
	}
	desc := strings.TrimSpace(t.Description)

	uid := fmt.Sprintf("task-%s@tasktrove", strings.TrimSpace(string(t.ID)))
	if strings.TrimSpace(string(t.ID)) == "" {
		uid = fmt.Sprintf("task-export-%d@tasktrove", now.UnixNano())
	}

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(uid),
		"DTSTAMP:" + now.UTC().Format("20060102T150405Z"),
		"SUMMARY:" + escapeICSText(title),
		"DTSTART;VALUE=DATE:" + due.Format(icsDateLayout),
		"DTEND;VALUE=DATE:" + end.Format(icsDateLayout),
	}
	if desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
	}
	if t.Recurrence != nil {
		if rule := schedule.ParseRule(*t.Recurrence); rule != nil {
			lines = append(lines, "RRULE:"+rule.String())
		}
	}
	lines = append(lines, "END:VEVENT")
	return lines
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
