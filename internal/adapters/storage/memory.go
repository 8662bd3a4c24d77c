package storage

import (
	"context"
	"sync"

	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/ports"
)

// memoryStorage implements ports.Storage with an ordered slice.
type memoryStorage struct {
	tasks *memoryTaskRepository
}

// Ensure memoryStorage implements ports.Storage.
var _ ports.Storage = (*memoryStorage)(nil)

// NewMemory creates a new slice-backed storage instance.
func NewMemory() ports.Storage {
	return &memoryStorage{tasks: &memoryTaskRepository{}}
}

// Tasks returns the task repository.
func (s *memoryStorage) Tasks() ports.TaskRepository {
	return s.tasks
}

// Close is a no-op for memory storage.
func (s *memoryStorage) Close() error {
	return nil
}

// memoryTaskRepository keeps tasks most-recent-first.
type memoryTaskRepository struct {
	mu    sync.RWMutex
	tasks []*domain.Task
}

// Insert adds a task at the front of the collection.
func (r *memoryTaskRepository) Insert(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(task.ID) >= 0 {
		return domain.ErrDuplicateTaskID
	}
	r.tasks = append([]*domain.Task{task.Clone()}, r.tasks...)
	return nil
}

// Append adds a task at the back of the collection.
func (r *memoryTaskRepository) Append(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(task.ID) >= 0 {
		return domain.ErrDuplicateTaskID
	}
	r.tasks = append(r.tasks, task.Clone())
	return nil
}

// FindByID retrieves a task by its unique identifier.
func (r *memoryTaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrTaskNotFound
	}
	return r.tasks[i].Clone(), nil
}

// FindAll retrieves all tasks, most recent first.
func (r *memoryTaskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]*domain.Task, len(r.tasks))
	for i, t := range r.tasks {
		tasks[i] = t.Clone()
	}
	return tasks, nil
}

// Replace overwrites an existing task in place.
func (r *memoryTaskRepository) Replace(ctx context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(task.ID)
	if i < 0 {
		return domain.ErrTaskNotFound
	}
	r.tasks[i] = task.Clone()
	return nil
}

// Delete removes a task from the collection.
func (r *memoryTaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil
	}
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return nil
}

// Count returns the number of stored tasks.
func (r *memoryTaskRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks), nil
}

func (r *memoryTaskRepository) indexOf(id string) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
