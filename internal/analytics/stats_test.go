package analytics

import (
	"encoding/json"
	"testing"
	"time"
)

func mkEvent(t *testing.T, typ EventType, ts time.Time, meta EventMetadata) Event {
	t.Helper()
	b, err := json.Marshal(meta)
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}
	return Event{ID: "ev", Type: typ, Timestamp: ts, Metadata: string(b)}
}

func TestCalculateStatsCompletions(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -9)

	events := []Event{
		mkEvent(t, EventTaskCompleted, now, EventMetadata{"project_id": "proj_a"}),
		mkEvent(t, EventTaskCompleted, now.AddDate(0, 0, -1), EventMetadata{"project_id": "proj_a"}),
		mkEvent(t, EventTaskCompleted, now.AddDate(0, 0, -2), EventMetadata{"project_id": "proj_b"}),
		mkEvent(t, EventTaskCreated, now, EventMetadata{}),
		mkEvent(t, EventTaskRescheduled, now, EventMetadata{}),
	}

	stats, err := CalculateStats(events, since, now)
	if err != nil {
		t.Fatalf("CalculateStats: %v", err)
	}
	if stats.TaskCompletions != 3 {
		t.Fatalf("TaskCompletions = %d, want 3", stats.TaskCompletions)
	}
	if stats.TasksCreated != 1 {
		t.Fatalf("TasksCreated = %d, want 1", stats.TasksCreated)
	}
	if stats.Reschedules != 1 {
		t.Fatalf("Reschedules = %d, want 1", stats.Reschedules)
	}
	if stats.ByProject["proj_a"] != 2 || stats.ByProject["proj_b"] != 1 {
		t.Fatalf("ByProject = %v", stats.ByProject)
	}
	if stats.CompletionsPerDay != 0.3 {
		t.Fatalf("CompletionsPerDay = %v, want 0.3", stats.CompletionsPerDay)
	}
}

func TestCalculateStatsStreak(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -29)

	// Three consecutive days ending yesterday, nothing today.
	events := []Event{
		mkEvent(t, EventTaskCompleted, now.AddDate(0, 0, -1), EventMetadata{}),
		mkEvent(t, EventTaskCompleted, now.AddDate(0, 0, -2), EventMetadata{}),
		mkEvent(t, EventTaskCompleted, now.AddDate(0, 0, -3), EventMetadata{}),
		// Gap at -4 breaks the streak.
		mkEvent(t, EventTaskCompleted, now.AddDate(0, 0, -5), EventMetadata{}),
	}

	stats, err := CalculateStats(events, since, now)
	if err != nil {
		t.Fatalf("CalculateStats: %v", err)
	}
	if stats.StreakDays != 3 {
		t.Fatalf("StreakDays = %d, want 3", stats.StreakDays)
	}
}

func TestCalculateStatsStreakIncludesToday(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -29)

	events := []Event{
		mkEvent(t, EventTaskCompleted, now, EventMetadata{}),
		mkEvent(t, EventTaskCompleted, now.AddDate(0, 0, -1), EventMetadata{}),
	}

	stats, err := CalculateStats(events, since, now)
	if err != nil {
		t.Fatalf("CalculateStats: %v", err)
	}
	if stats.StreakDays != 2 {
		t.Fatalf("StreakDays = %d, want 2", stats.StreakDays)
	}
}

func TestCalculateStatsFocusMinutes(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -6)

	events := []Event{
		mkEvent(t, EventFocusCompleted, now, EventMetadata{"minutes": 25}),
		mkEvent(t, EventFocusCompleted, now.AddDate(0, 0, -1), EventMetadata{"minutes": 50}),
		mkEvent(t, EventFocusCanceled, now, EventMetadata{"minutes": 5}),
	}

	stats, err := CalculateStats(events, since, now)
	if err != nil {
		t.Fatalf("CalculateStats: %v", err)
	}
	if stats.FocusSessions != 2 {
		t.Fatalf("FocusSessions = %d, want 2", stats.FocusSessions)
	}
	if stats.FocusMinutes != 75 {
		t.Fatalf("FocusMinutes = %d, want 75", stats.FocusMinutes)
	}
}

func TestMemoryRepositoryFilters(t *testing.T) {
	repo := NewMemoryRepository()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{base, base.AddDate(0, 0, 5), base.AddDate(0, 0, 10)}
	i := 0
	repo.now = func() time.Time { t := stamps[i]; i++; return t }

	if err := repo.RecordEvent(EventTaskCreated, EventMetadata{}); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if err := repo.RecordEvent(EventTaskCompleted, EventMetadata{}); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}
	if err := repo.RecordEvent(EventTaskCompleted, EventMetadata{}); err != nil {
		t.Fatalf("RecordEvent: %v", err)
	}

	got, err := repo.GetEvents(base.AddDate(0, 0, 3), []EventType{EventTaskCompleted})
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	for _, e := range got {
		if e.Type != EventTaskCompleted {
			t.Fatalf("unexpected type %q", e.Type)
		}
		if e.ID == "" {
			t.Fatal("event ID empty")
		}
	}
}
