package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/ports"
)

// WorkspaceService handles user intents for one session: selection, the
// create/edit form, search and category filters. Derived views are
// recomputed from the task collection on every read. Each intent holds mu
// from its first read to its last write, so intents arriving from several
// goroutines apply one after another.
type WorkspaceService struct {
	tasks    *TaskService
	notifier ports.Notifier
	logger   *zap.Logger

	mu sync.Mutex
	ws domain.Workspace
}

// NewWorkspaceService creates a workspace over the given task service.
func NewWorkspaceService(tasks *TaskService, logger *zap.Logger) *WorkspaceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkspaceService{
		tasks:  tasks,
		logger: logger.Named("workspace"),
		ws:     domain.NewWorkspace(),
	}
}

// SetNotifier sets the notifier used when the daily goal is reached.
func (s *WorkspaceService) SetNotifier(n ports.Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Tasks returns the underlying task service.
func (s *WorkspaceService) Tasks() *TaskService {
	return s.tasks
}

// Workspace returns a copy of the current workspace state.
func (s *WorkspaceService) Workspace() domain.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyWorkspace()
}

func (s *WorkspaceService) copyWorkspace() domain.Workspace {
	ws := s.ws
	if s.ws.SelectedTaskID != nil {
		id := *s.ws.SelectedTaskID
		ws.SelectedTaskID = &id
	}
	return ws
}

// Select marks id as the selected task. The id is not checked; a stale id
// reads back as nothing selected.
func (s *WorkspaceService) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectLocked(id)
}

func (s *WorkspaceService) selectLocked(id string) {
	s.ws.SelectedTaskID = &id
}

// ClearSelection deselects any task.
func (s *WorkspaceService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.SelectedTaskID = nil
}

// StartCreate opens the form for a new task.
func (s *WorkspaceService) StartCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.Form = domain.FormSession{Mode: domain.FormCreating}
}

// StartEdit opens the form for the task with id.
func (s *WorkspaceService) StartEdit(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.Form = domain.FormSession{Mode: domain.FormEditing, TaskID: id}
}

// CloseForm closes the form, discarding anything not saved.
func (s *WorkspaceService) CloseForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.Form = domain.ClosedForm()
}

// Save commits the open form. Editing updates the task, creating adds one;
// either way the saved task becomes the selection and the form closes.
// A rejected save leaves the form open.
func (s *WorkspaceService) Save(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	form := s.ws.Form

	var (
		task *domain.Task
		err  error
	)
	switch form.Mode {
	case domain.FormEditing:
		task, err = s.mutate(ctx, func() (*domain.Task, error) {
			return s.tasks.Update(ctx, form.TaskID, domain.PatchFromInput(in))
		})
	case domain.FormCreating:
		task, err = s.mutate(ctx, func() (*domain.Task, error) {
			return s.tasks.Create(ctx, in)
		})
	default:
		return nil, domain.ErrNoActiveForm
	}
	if err != nil {
		return nil, err
	}

	s.selectLocked(task.ID)
	s.ws.Form = domain.ClosedForm()
	return task, nil
}

// CreateTask adds a task without going through the form and selects it.
func (s *WorkspaceService) CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.mutate(ctx, func() (*domain.Task, error) {
		return s.tasks.Create(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	s.selectLocked(task.ID)
	return task, nil
}

// UpdateTask merges patch into a task without going through the form and
// selects it.
func (s *WorkspaceService) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.mutate(ctx, func() (*domain.Task, error) {
		return s.tasks.Update(ctx, id, patch)
	})
	if err != nil {
		return nil, err
	}
	s.selectLocked(task.ID)
	return task, nil
}

// SetStatus changes the status of a task.
func (s *WorkspaceService) SetStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setStatusLocked(ctx, id, status)
}

func (s *WorkspaceService) setStatusLocked(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error) {
	return s.mutate(ctx, func() (*domain.Task, error) {
		return s.tasks.SetStatus(ctx, id, status)
	})
}

// ToggleDone flips a task between done and todo.
func (s *WorkspaceService) ToggleDone(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	next := domain.StatusDone
	if task.IsDone() {
		next = domain.StatusTodo
	}
	return s.setStatusLocked(ctx, id, next)
}

// Delete removes a task. A selection or edit form pointing at it is cleared.
func (s *WorkspaceService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	if s.ws.IsSelected(id) {
		s.ws.SelectedTaskID = nil
	}
	if s.ws.Form.IsEditing(id) {
		s.ws.Form = domain.ClosedForm()
	}
	return nil
}

// DeleteTask implements ports.MCPStateProvider.
func (s *WorkspaceService) DeleteTask(ctx context.Context, id string) error {
	return s.Delete(ctx, id)
}

// SetSearch sets the search term.
func (s *WorkspaceService) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.SearchTerm = term
}

// SetCategory sets the category filter. An empty category means all.
func (s *WorkspaceService) SetCategory(category string) {
	if category == "" {
		category = domain.AllCategories
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ws.Category = category
}

// Visible returns the tasks matching the current search and category.
func (s *WorkspaceService) Visible(ctx context.Context) ([]*domain.Task, error) {
	ws := s.Workspace()
	return s.ListTasks(ctx, ws.SearchTerm, ws.Category)
}

// ListTasks returns the tasks matching search and category without
// touching the workspace filters.
func (s *WorkspaceService) ListTasks(ctx context.Context, search, category string) ([]*domain.Task, error) {
	if category == "" {
		category = domain.AllCategories
	}
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FilterTasks(tasks, search, category), nil
}

// GetTask implements ports.MCPStateProvider.
func (s *WorkspaceService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.Get(ctx, id)
}

// FindTasks implements ports.MCPStateProvider.
func (s *WorkspaceService) FindTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	return s.tasks.FindByTitle(ctx, query)
}

// Categories implements ports.MCPStateProvider.
func (s *WorkspaceService) Categories(ctx context.Context) ([]string, error) {
	return s.tasks.Categories(ctx)
}

// Progress returns today's progress over the whole collection.
func (s *WorkspaceService) Progress(ctx context.Context) (domain.DailyProgress, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return domain.DailyProgress{}, err
	}
	return domain.ComputeProgress(tasks, s.tasks.Now()), nil
}

// Selected returns the selected task, or nil when nothing is selected or
// the selection no longer exists.
func (s *WorkspaceService) Selected(ctx context.Context) (*domain.Task, error) {
	return s.lookup(ctx, s.Workspace().SelectedTaskID)
}

// Editing returns the task the form is editing, or nil.
func (s *WorkspaceService) Editing(ctx context.Context) (*domain.Task, error) {
	form := s.Workspace().Form
	if form.Mode != domain.FormEditing {
		return nil, nil
	}
	return s.lookup(ctx, &form.TaskID)
}

func (s *WorkspaceService) lookup(ctx context.Context, id *string) (*domain.Task, error) {
	if id == nil {
		return nil, nil
	}
	task, err := s.tasks.Get(ctx, *id)
	if IsNotFound(err) {
		return nil, nil
	}
	return task, err
}

// Snapshot reads every derived view in one pass over the collection.
func (s *WorkspaceService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	ws := s.Workspace()
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		Workspace: ws,
		Visible:   domain.FilterTasks(tasks, ws.SearchTerm, ws.Category),
		Progress:  domain.ComputeProgress(tasks, s.tasks.Now()),
	}
	for _, task := range tasks {
		if ws.IsSelected(task.ID) {
			snap.Selected = task
		}
		if ws.Form.IsEditing(task.ID) {
			snap.Editing = task
		}
	}
	return snap, nil
}

// mutate runs fn and notifies when it takes today's progress to the goal.
// The caller holds s.mu, so no other intent lands between the two progress
// reads.
func (s *WorkspaceService) mutate(ctx context.Context, fn func() (*domain.Task, error)) (*domain.Task, error) {
	before, err := s.Progress(ctx)
	if err != nil {
		return nil, err
	}

	task, err := fn()
	if err != nil {
		return nil, err
	}

	if s.notifier == nil {
		return task, nil
	}
	after, err := s.Progress(ctx)
	if err != nil {
		s.logger.Warn("failed to compute progress", zap.Error(err))
		return task, nil
	}
	if !before.GoalReached() && after.GoalReached() {
		if err := s.notifier.NotifyGoalReached(after); err != nil {
			s.logger.Warn("goal notification failed", zap.Error(err))
		}
	}
	return task, nil
}

// Ensure WorkspaceService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*WorkspaceService)(nil)
