package schedule

import (
	"testing"
	"time"

	"tasktrove/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDueDate_DailyAdvance(t *testing.T) {
	next, ok := NextDueDate(&Rule{Freq: Daily, Interval: 1}, day(2024, time.January, 15), false, day(2024, time.January, 15))
	if !ok {
		t.Fatal("expected ok")
	}
	if want := day(2024, time.January, 16); !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextDueDate_WeeklyWithInterval(t *testing.T) {
	next, ok := NextDueDate(&Rule{Freq: Weekly, Interval: 2}, day(2024, time.January, 1), false, day(2024, time.January, 1))
	if !ok {
		t.Fatal("expected ok")
	}
	if want := day(2024, time.January, 15); !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextDueDate_MonthlyClampsToShorterMonth(t *testing.T) {
	// 2024 is a leap year: Jan 31 + 1 month clamps to Feb 29.
	next, ok := NextDueDate(&Rule{Freq: Monthly, Interval: 1}, day(2024, time.January, 31), false, day(2024, time.January, 31))
	if !ok {
		t.Fatal("expected ok")
	}
	if want := day(2024, time.February, 29); !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}

	// Non-leap year clamps to Feb 28.
	next, _ = NextDueDate(&Rule{Freq: Monthly, Interval: 1}, day(2023, time.January, 31), false, day(2023, time.January, 31))
	if want := day(2023, time.February, 28); !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextDueDate_MonthlyPreservesDayWherePossible(t *testing.T) {
	next, _ := NextDueDate(&Rule{Freq: Monthly, Interval: 2}, day(2024, time.March, 15), false, day(2024, time.March, 15))
	if want := day(2024, time.May, 15); !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextDueDate_YearlyLeapDayFallback(t *testing.T) {
	next, ok := NextDueDate(&Rule{Freq: Yearly, Interval: 1}, day(2024, time.February, 29), false, day(2024, time.February, 29))
	if !ok {
		t.Fatal("expected ok")
	}
	if want := day(2025, time.February, 28); !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextDueDate_InitialAnchorLandsOnNow(t *testing.T) {
	now := day(2024, time.June, 10)

	next, ok := NextDueDate(&Rule{Freq: Weekly, Interval: 1}, day(2024, time.June, 1), true, now)
	if !ok {
		t.Fatal("expected ok")
	}
	if !next.Equal(now) {
		t.Fatalf("past reference should anchor on now, got %v", next)
	}

	future := day(2024, time.June, 20)
	next, _ = NextDueDate(&Rule{Freq: Weekly, Interval: 1}, future, true, now)
	if !next.Equal(future) {
		t.Fatalf("future reference should be kept, got %v", next)
	}
}

func TestNextDueDate_NilRuleIsInert(t *testing.T) {
	if _, ok := NextDueDate(nil, day(2024, time.January, 1), false, day(2024, time.January, 1)); ok {
		t.Fatal("nil rule must report not-ok")
	}
}

func TestNextDueDateString(t *testing.T) {
	now := day(2024, time.January, 15)

	got, ok := NextDueDateString("FREQ=DAILY;INTERVAL=3", "2024-01-15", false, now)
	if !ok || got != "2024-01-18" {
		t.Fatalf("got %q ok=%v", got, ok)
	}

	// Malformed rule is inert.
	if _, ok := NextDueDateString("FREQ=NOTAREALFREQ", "2024-01-15", false, now); ok {
		t.Fatal("malformed rule must report not-ok")
	}

	// Malformed reference date is inert.
	if _, ok := NextDueDateString("FREQ=DAILY", "someday", false, now); ok {
		t.Fatal("malformed reference must report not-ok")
	}

	// Missing reference anchors on today.
	got, ok = NextDueDateString("FREQ=WEEKLY", "", false, now)
	if !ok || got != "2024-01-15" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestAnchor_Modes(t *testing.T) {
	due := "2024-01-19" // Friday
	completed := day(2024, time.January, 16) // Tuesday, finished early

	// Fixed cadence: anchor stays on the due date.
	got := Anchor(model.RecurringModeDueDate, &due, completed)
	if want := day(2024, time.January, 19); !got.Equal(want) {
		t.Fatalf("due_date anchor = %v, want %v", got, want)
	}

	// Adaptive cadence: anchor moves to the completion instant.
	got = Anchor(model.RecurringModeCompletedAt, &due, completed)
	if !got.Equal(completed) {
		t.Fatalf("completed_at anchor = %v, want %v", got, completed)
	}

	// No due date: only the completion time can anchor.
	got = Anchor(model.RecurringModeDueDate, nil, completed)
	if !got.Equal(completed) {
		t.Fatalf("missing due date anchor = %v, want %v", got, completed)
	}
}
