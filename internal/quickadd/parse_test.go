package quickadd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tasktrove/internal/model"
	"tasktrove/internal/schedule"
)

// Monday.
var now = time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)

func TestParse_PlainTitle(t *testing.T) {
	p := Parse("buy oat milk", now)
	assert.Equal(t, "buy oat milk", p.Title)
	assert.Empty(t, p.DueDate)
	assert.Nil(t, p.Rule)
	assert.Empty(t, p.Project)
	assert.Equal(t, model.Priority(0), p.Priority)
}

func TestParse_ProjectLabelPriority(t *testing.T) {
	p := Parse("write report #work @writing @deep p1", now)
	assert.Equal(t, "write report", p.Title)
	assert.Equal(t, "work", p.Project)
	assert.Equal(t, []string{"writing", "deep"}, p.Labels)
	assert.Equal(t, model.PriorityUrgent, p.Priority)
}

func TestParse_RelativeDates(t *testing.T) {
	p := Parse("water plants today", now)
	assert.Equal(t, "water plants", p.Title)
	assert.Equal(t, "2024-06-10", p.DueDate)

	p = Parse("call mom tomorrow", now)
	assert.Equal(t, "2024-06-11", p.DueDate)

	// "friday" on a Monday is this week's Friday.
	p = Parse("submit invoice friday", now)
	assert.Equal(t, "2024-06-14", p.DueDate)

	// Today's weekday name means today.
	p = Parse("standup notes monday", now)
	assert.Equal(t, "2024-06-10", p.DueDate)

	p = Parse("plan sprint next week", now)
	assert.Equal(t, "plan sprint", p.Title)
	assert.Equal(t, "2024-06-17", p.DueDate)

	p = Parse("renew pass in 3 days", now)
	assert.Equal(t, "renew pass", p.Title)
	assert.Equal(t, "2024-06-13", p.DueDate)
}

func TestParse_LiteralISODate(t *testing.T) {
	p := Parse("renew domain 2024-12-31", now)
	assert.Equal(t, "renew domain", p.Title)
	assert.Equal(t, "2024-12-31", p.DueDate)

	// Literal dates are taken as-is, even in the past.
	p = Parse("backfill log 2023-01-05", now)
	assert.Equal(t, "backfill log", p.Title)
	assert.Equal(t, "2023-01-05", p.DueDate)

	// A malformed date stays in the title.
	p = Parse("ship build 2024-13-40", now)
	assert.Equal(t, "ship build 2024-13-40", p.Title)
	assert.Empty(t, p.DueDate)
}

func TestParse_MonthDay(t *testing.T) {
	p := Parse("book flights sep 5", now)
	assert.Equal(t, "book flights", p.Title)
	assert.Equal(t, "2024-09-05", p.DueDate)

	// Already past this year: rolls to next year.
	p = Parse("tax review jan 15", now)
	assert.Equal(t, "2025-01-15", p.DueDate)
}

func TestParse_Recurrence(t *testing.T) {
	p := Parse("take vitamins daily", now)
	assert.Equal(t, "take vitamins", p.Title)
	if assert.NotNil(t, p.Rule) {
		assert.Equal(t, schedule.Rule{Freq: schedule.Daily, Interval: 1}, *p.Rule)
	}
	// A bare recurrence anchors on today.
	assert.Equal(t, "2024-06-10", p.DueDate)

	p = Parse("water ferns every 3 days", now)
	assert.Equal(t, "water ferns", p.Title)
	if assert.NotNil(t, p.Rule) {
		assert.Equal(t, schedule.Rule{Freq: schedule.Daily, Interval: 3}, *p.Rule)
	}

	p = Parse("deep clean every other week", now)
	if assert.NotNil(t, p.Rule) {
		assert.Equal(t, schedule.Rule{Freq: schedule.Weekly, Interval: 2}, *p.Rule)
	}
}

func TestParse_RecurrenceWithExplicitDate(t *testing.T) {
	p := Parse("pay rent monthly jun 1", now)
	assert.Equal(t, "pay rent", p.Title)
	if assert.NotNil(t, p.Rule) {
		assert.Equal(t, schedule.Monthly, p.Rule.Freq)
	}
	// The explicit date wins over the today-anchor.
	assert.Equal(t, "2025-06-01", p.DueDate)
}

func TestParse_UnrecognizedPhrasesStayInTitle(t *testing.T) {
	p := Parse("meet dana at every corner cafe", now)
	// "every corner" is not a recurrence; nothing is consumed.
	assert.Equal(t, "meet dana at every corner cafe", p.Title)
	assert.Nil(t, p.Rule)

	p = Parse("read in the evening", now)
	assert.Equal(t, "read in the evening", p.Title)
	assert.Empty(t, p.DueDate)
}
