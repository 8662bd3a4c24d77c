package domain

import "time"

// DailyProgress aggregates task completion for one calendar day.
//
// TotalToday counts tasks created on the day and CompletedToday counts tasks
// completed on the day, independently of when they were created. Percentage
// is therefore today's completions over today's creations, not a completion
// rate of today's tasks.
type DailyProgress struct {
	Date           time.Time
	CompletedToday int
	TotalToday     int
	Percentage     float64
}

// ComputeProgress derives the daily progress for the calendar day of ref.
func ComputeProgress(tasks []*Task, ref time.Time) DailyProgress {
	p := DailyProgress{Date: StartOfDay(ref)}
	for _, task := range tasks {
		if SameDay(task.CreatedAt, ref) {
			p.TotalToday++
		}
		if task.Status == StatusDone && task.CompletedAt != nil && SameDay(*task.CompletedAt, ref) {
			p.CompletedToday++
		}
	}
	if p.TotalToday > 0 {
		p.Percentage = float64(p.CompletedToday) / float64(p.TotalToday) * 100
	}
	return p
}

// GoalReached reports whether every task created today has a matching
// completion today.
func (p DailyProgress) GoalReached() bool {
	return p.TotalToday > 0 && p.CompletedToday >= p.TotalToday
}

// SameDay reports whether a and b fall on the same calendar date in b's
// location.
func SameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
