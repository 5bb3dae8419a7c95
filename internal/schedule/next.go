package schedule

import "time"

// DateLayout is the calendar-date form tasks store due dates in.
const DateLayout = "2006-01-02"

// NextDueDate computes the next due date for a rule.
//
// When initialAnchor is true (a recurrence was just attached to a task
// with no due date), it returns the first occurrence on/after now.
// Otherwise it advances strictly past reference by one interval of the
// rule's frequency. Monthly and yearly advances preserve the day of
// month where possible and clamp to the last valid day of shorter
// months (Jan 31 + 1 month = Feb 28/29, Feb 29 + 1 year = Feb 28).
//
// Returns ok=false when r is nil (unparseable rule); the caller must
// treat that as "no change".
func NextDueDate(r *Rule, reference time.Time, initialAnchor bool, now time.Time) (time.Time, bool) {
	if r == nil {
		return time.Time{}, false
	}

	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	if initialAnchor {
		if reference.Before(now) {
			return now, true
		}
		return reference, true
	}

	switch r.Freq {
	case Daily:
		return reference.AddDate(0, 0, interval), true
	case Weekly:
		return reference.AddDate(0, 0, 7*interval), true
	case Monthly:
		return addMonthsClamped(reference, interval), true
	case Yearly:
		return addMonthsClamped(reference, 12*interval), true
	}
	return time.Time{}, false
}

// NextDueDateString is NextDueDate over the stored representations:
// the rule string and the YYYY-MM-DD due date. An empty or malformed
// rule, or a malformed reference date, yields ok=false.
func NextDueDateString(ruleText, reference string, initialAnchor bool, now time.Time) (string, bool) {
	r := ParseRule(ruleText)
	if r == nil {
		return "", false
	}

	ref := now
	if reference != "" {
		parsed, err := time.ParseInLocation(DateLayout, reference, now.Location())
		if err != nil {
			return "", false
		}
		ref = parsed
	} else {
		// No anchor yet: the first occurrence lands on today.
		initialAnchor = true
	}

	next, ok := NextDueDate(r, ref, initialAnchor, now)
	if !ok {
		return "", false
	}
	return next.Format(DateLayout), true
}

// addMonthsClamped adds calendar months, clamping the day of month to
// the last valid day of the target month. time.AddDate would normalize
// Jan 31 + 1 month into Mar 2/3, which is not what a recurring schedule
// wants.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	firstOfTarget := time.Date(y, m, 1, hh, mm, ss, t.Nanosecond(), t.Location()).AddDate(0, months, 0)
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); d > last {
		d = last
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
