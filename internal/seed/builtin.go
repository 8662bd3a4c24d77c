package seed

import (
	"time"

	"github.com/xvierd/kaizen/internal/domain"
)

// Builtin returns the sample dataset a session starts with when no seed file
// is configured. Timestamps are relative to now so the progress indicator has
// something to show on any day.
func Builtin(now time.Time) []*domain.Task {
	today := func(h, m int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	}
	daysAgo := func(d int) time.Time {
		return today(9, 0).AddDate(0, 0, -d)
	}
	stamp := func(t time.Time) *time.Time { return &t }

	return []*domain.Task{
		{
			ID:          "1",
			Title:       "Review pull requests",
			Description: "Go through the open pull requests on the team board and leave feedback.",
			Category:    "work",
			Status:      domain.StatusInProgress,
			CreatedAt:   today(8, 30),
			UpdatedAt:   today(8, 45),
		},
		{
			ID:          "2",
			Title:       "Morning run",
			Description: "5km around the park.",
			Category:    "health",
			Status:      domain.StatusDone,
			CreatedAt:   today(6, 30),
			UpdatedAt:   today(7, 15),
			CompletedAt: stamp(today(7, 15)),
		},
		{
			ID:          "3",
			Title:       "Prepare sprint planning",
			Description: "Collect estimates and draft the goals for next sprint.",
			Category:    "work",
			Status:      domain.StatusTodo,
			CreatedAt:   today(8, 0),
			UpdatedAt:   today(8, 0),
		},
		{
			ID:          "4",
			Title:       "Buy groceries",
			Description: "Milk, eggs, spinach, coffee beans.",
			Category:    "personal",
			Status:      domain.StatusTodo,
			CreatedAt:   daysAgo(1),
			UpdatedAt:   daysAgo(1),
		},
		{
			ID:          "5",
			Title:       "Read chapter 4 of Designing Data-Intensive Applications",
			Description: "Storage and retrieval. Take notes on LSM trees.",
			Category:    "learning",
			Status:      domain.StatusDone,
			CreatedAt:   daysAgo(2),
			UpdatedAt:   today(7, 50),
			CompletedAt: stamp(today(7, 50)),
		},
		{
			ID:          "6",
			Title:       "Call the dentist",
			Description: "Reschedule the check-up.",
			Category:    "personal",
			Status:      domain.StatusDone,
			CreatedAt:   daysAgo(3),
			UpdatedAt:   daysAgo(2),
			CompletedAt: stamp(daysAgo(2)),
		},
	}
}
