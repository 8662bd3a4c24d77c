package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/xvierd/kaizen/internal/domain"
)

const timeLayout = "2006-01-02T15:04:05"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
	busyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F6AD55"))
)

func taskToJSON(task *domain.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"category":    task.Category,
		"status":      string(task.Status),
		"created_at":  task.CreatedAt.Format(timeLayout),
		"updated_at":  task.UpdatedAt.Format(timeLayout),
	}
	if task.CompletedAt != nil {
		data["completed_at"] = task.CompletedAt.Format(timeLayout)
	}
	return data
}

func tasksToJSON(tasks []*domain.Task) map[string]interface{} {
	list := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		list = append(list, taskToJSON(task))
	}
	return map[string]interface{}{
		"tasks": list,
		"count": len(list),
	}
}

func progressToJSON(p domain.DailyProgress) map[string]interface{} {
	return map[string]interface{}{
		"date":            p.Date.Format("2006-01-02"),
		"completed_today": p.CompletedToday,
		"total_today":     p.TotalToday,
		"percentage":      p.Percentage,
		"goal_reached":    p.GoalReached(),
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func getStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusTodo:
		return "○"
	case domain.StatusInProgress:
		return "◐"
	case domain.StatusDone:
		return "●"
	default:
		return "?"
	}
}

func styleForStatus(status domain.TaskStatus) lipgloss.Style {
	switch status {
	case domain.StatusDone:
		return doneStyle
	case domain.StatusInProgress:
		return busyStyle
	default:
		return lipgloss.NewStyle()
	}
}

// writeTasks prints tasks one per line with status icon, short id and category.
func writeTasks(w io.Writer, tasks []*domain.Task) {
	for _, task := range tasks {
		line := fmt.Sprintf("%s %s", getStatusIcon(task.Status), task.Title)
		meta := shortID(task.ID)
		if task.Category != "" {
			meta += " · " + task.Category
		}
		fmt.Fprintf(w, "%s  %s\n", styleForStatus(task.Status).Render(line), dimStyle.Render("("+meta+")"))
	}
}

// shortID trims generated ids for display; seed ids are usually short already.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// progressBar renders a fixed-width text bar for pct in [0, 100].
func progressBar(pct float64, width int) string {
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func formatDate(t time.Time) string {
	return t.Format("Mon Jan 2, 2006")
}
