package analytics

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Period            string            `json:"period"`
	EventCounts       map[EventType]int `json:"event_counts"`
	TaskCompletions   int               `json:"task_completions"`
	TasksCreated      int               `json:"tasks_created"`
	Reschedules       int               `json:"reschedules"`
	CompletionsPerDay float64           `json:"completions_per_day"`
	CompletionsByDay  map[string]int    `json:"completions_by_day"`
	ByProject         map[string]int    `json:"by_project"`
	StreakDays        int               `json:"streak_days"`
	FocusSessions     int               `json:"focus_sessions"`
	FocusMinutes      int               `json:"focus_minutes"`
}

// CalculateStats computes productivity stats from events. The streak counts
// consecutive days with at least one completion, ending today or yesterday.
func CalculateStats(events []Event, since, now time.Time) (Stats, error) {
	stats := Stats{
		Period:           since.Format("2006-01-02"),
		EventCounts:      make(map[EventType]int),
		CompletionsByDay: make(map[string]int),
		ByProject:        make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventTaskCreated:
			stats.TasksCreated++
		case EventTaskCompleted:
			stats.TaskCompletions++
			stats.CompletionsByDay[event.Timestamp.Format("2006-01-02")]++
			if projectID, ok := metadata["project_id"].(string); ok && projectID != "" {
				stats.ByProject[projectID]++
			}
		case EventTaskRescheduled:
			stats.Reschedules++
		case EventFocusCompleted:
			stats.FocusSessions++
			if minutes, ok := metadata["minutes"].(float64); ok {
				stats.FocusMinutes += int(minutes)
			}
		}
	}

	days := int(now.Sub(since).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	stats.CompletionsPerDay = float64(stats.TaskCompletions) / float64(days)
	stats.StreakDays = streak(stats.CompletionsByDay, now)

	return stats, nil
}

func streak(completionsByDay map[string]int, now time.Time) int {
	day := now
	// A streak survives today having no completions yet.
	if completionsByDay[day.Format("2006-01-02")] == 0 {
		day = day.AddDate(0, 0, -1)
	}

	n := 0
	for completionsByDay[day.Format("2006-01-02")] > 0 {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}
