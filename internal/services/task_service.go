// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/ports"
)

// TaskService owns the task collection. It is the only component that
// creates or mutates tasks. Writes are serialised so a read-merge-write in
// Update never interleaves with another write.
type TaskService struct {
	storage ports.Storage
	clock   ports.Clock
	logger  *zap.Logger

	mu sync.Mutex
}

// NewTaskService creates a new task service.
func NewTaskService(storage ports.Storage, clock ports.Clock, logger *zap.Logger) *TaskService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{
		storage: storage,
		clock:   clock,
		logger:  logger.Named("tasks"),
	}
}

// Now returns the service clock's current time.
func (s *TaskService) Now() time.Time {
	return s.clock.Now()
}

// Create adds a new task at the front of the collection.
func (s *TaskService) Create(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := domain.NewTask(in, domain.NewID(), s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	if err := s.storage.Tasks().Insert(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.logger.Debug("task created",
		zap.String("id", task.ID),
		zap.String("category", task.Category),
		zap.String("status", string(task.Status)),
	)
	return task, nil
}

// Update merges patch into the task with id. The collection is left
// untouched when the task is missing or the merged task is invalid.
func (s *TaskService) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.storage.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	next, err := existing.Apply(patch, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	if err := s.storage.Tasks().Replace(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Debug("task updated",
		zap.String("id", next.ID),
		zap.String("status", string(next.Status)),
		zap.Bool("completed", next.CompletedAt != nil),
	)
	return next, nil
}

// SetStatus changes only the status of a task. It goes through Update so
// the completion stamp follows the same rule as a full edit.
func (s *TaskService) SetStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	return s.Update(ctx, id, domain.TaskPatch{Status: &status})
}

// Delete removes a task. Deleting a task that does not exist is a no-op.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Tasks().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.logger.Debug("task deleted", zap.String("id", id))
	return nil
}

// Get retrieves a single task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.storage.Tasks().FindByID(ctx, id)
}

// List returns every task, most recent first.
func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.storage.Tasks().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Seed loads the initial collection in the given order. Ids and timestamps
// are kept; a missing id is generated and the completion stamp is brought in
// line with the status.
func (s *TaskService) Seed(ctx context.Context, tasks []*domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for _, t := range tasks {
		task := normalizeSeedTask(t, now)
		if err := task.Validate(); err != nil {
			return fmt.Errorf("seed task %q: %w", task.ID, err)
		}
		if err := s.storage.Tasks().Append(ctx, task); err != nil {
			return fmt.Errorf("seed task %q: %w", task.ID, err)
		}
	}
	s.logger.Debug("collection seeded", zap.Int("tasks", len(tasks)))
	return nil
}

func normalizeSeedTask(t *domain.Task, now time.Time) *domain.Task {
	task := t.Clone()
	if task.ID == "" {
		task.ID = domain.NewID()
	}
	if task.Status == "" {
		task.Status = domain.StatusTodo
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.Before(task.CreatedAt) {
		task.UpdatedAt = task.CreatedAt
	}
	switch {
	case task.Status != domain.StatusDone:
		task.CompletedAt = nil
	case task.CompletedAt == nil:
		stamp := task.UpdatedAt
		task.CompletedAt = &stamp
	}
	return task
}

// FindByTitle does a fuzzy search for tasks by title, best match first.
func (s *TaskService) FindByTitle(ctx context.Context, query string) ([]*domain.Task, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks for fuzzy search: %w", err)
	}

	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}

	matches := fuzzy.Find(query, titles)

	result := make([]*domain.Task, 0, len(matches))
	for _, match := range matches {
		result = append(result, tasks[match.Index])
	}
	return result, nil
}

// Categories returns the distinct non-empty categories, sorted.
func (s *TaskService) Categories(ctx context.Context) ([]string, error) {
	tasks, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	categories := []string{}
	for _, task := range tasks {
		if task.Category == "" {
			continue
		}
		if _, ok := seen[task.Category]; ok {
			continue
		}
		seen[task.Category] = struct{}{}
		categories = append(categories, task.Category)
	}
	sort.Strings(categories)
	return categories, nil
}

// IsNotFound reports whether err means the task does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrTaskNotFound)
}

// IsValidation reports whether err is a rejected task field.
func IsValidation(err error) bool {
	var vErr *domain.ValidationError
	return errors.As(err, &vErr)
}
