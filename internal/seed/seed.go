// Package seed supplies the initial task collection of a session, either the
// built-in sample dataset or a TOML seed file.
package seed

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/xvierd/kaizen/internal/domain"
)

// File is the on-disk shape of a seed file.
type File struct {
	Tasks []Entry `toml:"tasks"`
}

// Entry is one [[tasks]] table.
type Entry struct {
	ID          string     `toml:"id,omitempty"`
	Title       string     `toml:"title"`
	Description string     `toml:"description,omitempty"`
	Category    string     `toml:"category,omitempty"`
	Status      string     `toml:"status,omitempty"`
	CreatedAt   time.Time  `toml:"created_at"`
	UpdatedAt   time.Time  `toml:"updated_at"`
	CompletedAt *time.Time `toml:"completed_at,omitempty"`
}

// Load reads and parses a seed file.
func Load(path string) ([]*domain.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	tasks, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tasks, nil
}

// Parse decodes TOML seed data. Statuses are checked here; the remaining
// invariants are enforced when the tasks are seeded.
func Parse(data []byte) ([]*domain.Task, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(f.Tasks))
	for i, e := range f.Tasks {
		task, err := e.toTask()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i+1, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (e Entry) toTask() (*domain.Task, error) {
	task := &domain.Task{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		CompletedAt: e.CompletedAt,
	}
	if e.Status != "" {
		status, err := domain.ParseStatus(e.Status)
		if err != nil {
			return nil, err
		}
		task.Status = status
	}
	return task, nil
}

// Encode renders tasks as a seed file that Parse reads back.
func Encode(tasks []*domain.Task) ([]byte, error) {
	f := File{Tasks: make([]Entry, 0, len(tasks))}
	for _, t := range tasks {
		f.Tasks = append(f.Tasks, Entry{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Category:    t.Category,
			Status:      string(t.Status),
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
			CompletedAt: t.CompletedAt,
		})
	}
	data, err := toml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode seed: %w", err)
	}
	return data, nil
}
