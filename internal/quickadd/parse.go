// Package quickadd parses the quick-add bar's single line of text into
// a task title plus structured attributes: due-date phrases, recurrence
// phrases, #project, @label and p1..p4 priority shorthand.
//
// Parsing never fails: anything unrecognized stays in the title.
package quickadd

import (
	"strconv"
	"strings"
	"time"

	"tasktrove/internal/model"
	"tasktrove/internal/schedule"
)

type Parsed struct {
	Title    string
	DueDate  string // YYYY-MM-DD, empty if no date phrase matched
	Rule     *schedule.Rule
	Project  string // without the leading '#'
	Labels   []string
	Priority model.Priority // 0 when no pN token was present
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var frequencyWords = map[string]schedule.Frequency{
	"day": schedule.Daily, "days": schedule.Daily, "daily": schedule.Daily,
	"week": schedule.Weekly, "weeks": schedule.Weekly, "weekly": schedule.Weekly,
	"month": schedule.Monthly, "months": schedule.Monthly, "monthly": schedule.Monthly,
	"year": schedule.Yearly, "years": schedule.Yearly, "yearly": schedule.Yearly,
}

// Parse extracts structured attributes from a quick-add line.
// now supplies "today" for relative date phrases.
func Parse(input string, now time.Time) Parsed {
	var p Parsed

	tokens := strings.Fields(input)
	title := make([]string, 0, len(tokens))

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		lower := strings.ToLower(tok)

		switch {
		case strings.HasPrefix(tok, "#") && len(tok) > 1:
			p.Project = tok[1:]
			i++
			continue

		case strings.HasPrefix(tok, "@") && len(tok) > 1:
			p.Labels = append(p.Labels, tok[1:])
			i++
			continue

		case len(lower) == 2 && lower[0] == 'p' && lower[1] >= '1' && lower[1] <= '4':
			p.Priority = model.Priority(lower[1] - '0')
			i++
			continue
		}

		if consumed, rule := matchRecurrence(tokens[i:]); consumed > 0 {
			p.Rule = rule
			i += consumed
			continue
		}
		if consumed, due := matchDate(tokens[i:], now); consumed > 0 {
			p.DueDate = due
			i += consumed
			continue
		}

		title = append(title, tok)
		i++
	}

	p.Title = strings.Join(title, " ")

	// A recurrence with no date phrase anchors on today.
	if p.Rule != nil && p.DueDate == "" {
		p.DueDate = now.Format(schedule.DateLayout)
	}
	return p
}

// matchRecurrence recognizes "daily", "every day", "every 3 weeks",
// "every other month" and the like. Returns the number of tokens
// consumed (0 when nothing matched).
func matchRecurrence(tokens []string) (int, *schedule.Rule) {
	first := strings.ToLower(tokens[0])

	switch first {
	case "daily", "weekly", "monthly", "yearly":
		return 1, &schedule.Rule{Freq: frequencyWords[first], Interval: 1}
	}

	if first != "every" || len(tokens) < 2 {
		return 0, nil
	}
	second := strings.ToLower(tokens[1])

	if freq, ok := frequencyWords[second]; ok {
		return 2, &schedule.Rule{Freq: freq, Interval: 1}
	}
	if second == "other" && len(tokens) >= 3 {
		if freq, ok := frequencyWords[strings.ToLower(tokens[2])]; ok {
			return 3, &schedule.Rule{Freq: freq, Interval: 2}
		}
		return 0, nil
	}
	if n, err := strconv.Atoi(second); err == nil && n >= 1 && len(tokens) >= 3 {
		if freq, ok := frequencyWords[strings.ToLower(tokens[2])]; ok {
			return 3, &schedule.Rule{Freq: freq, Interval: n}
		}
	}
	return 0, nil
}

// matchDate recognizes "today", "tomorrow", weekday names, "next
// week/month", "in N days", "<month> <day>" and literal YYYY-MM-DD
// dates. Returns the number of tokens consumed (0 when nothing
// matched) and the formatted date.
func matchDate(tokens []string, now time.Time) (int, string) {
	first := strings.ToLower(tokens[0])

	format := func(t time.Time) string { return t.Format(schedule.DateLayout) }

	if due, err := time.Parse(schedule.DateLayout, tokens[0]); err == nil {
		return 1, format(due)
	}

	switch first {
	case "today", "tod":
		return 1, format(now)
	case "tomorrow", "tmr", "tom":
		return 1, format(now.AddDate(0, 0, 1))
	}

	if wd, ok := weekdays[first]; ok {
		return 1, format(upcomingWeekday(now, wd))
	}

	if first == "next" && len(tokens) >= 2 {
		switch strings.ToLower(tokens[1]) {
		case "week":
			// Next week's Monday.
			monday := upcomingWeekday(now.AddDate(0, 0, 1), time.Monday)
			return 2, format(monday)
		case "month":
			y, m, _ := now.Date()
			return 2, format(time.Date(y, m+1, 1, 0, 0, 0, 0, now.Location()))
		case "year":
			return 2, format(time.Date(now.Year()+1, time.January, 1, 0, 0, 0, 0, now.Location()))
		}
		return 0, ""
	}

	if first == "in" && len(tokens) >= 3 {
		if n, err := strconv.Atoi(tokens[1]); err == nil && n >= 0 {
			switch strings.ToLower(tokens[2]) {
			case "day", "days":
				return 3, format(now.AddDate(0, 0, n))
			case "week", "weeks":
				return 3, format(now.AddDate(0, 0, 7*n))
			case "month", "months":
				return 3, format(now.AddDate(0, n, 0))
			}
		}
		return 0, ""
	}

	if m, ok := months[first]; ok && len(tokens) >= 2 {
		if d, err := strconv.Atoi(strings.TrimSuffix(tokens[1], ",")); err == nil && d >= 1 && d <= 31 {
			due := time.Date(now.Year(), m, d, 0, 0, 0, 0, now.Location())
			// A date already past this year means next year.
			if due.Before(now.AddDate(0, 0, -1)) {
				due = due.AddDate(1, 0, 0)
			}
			return 2, format(due)
		}
	}

	return 0, ""
}

// upcomingWeekday returns the next occurrence of the weekday, counting
// today as a match.
func upcomingWeekday(from time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, days)
}
