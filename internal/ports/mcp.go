package ports

import (
	"context"

	"github.com/xvierd/kaizen/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides session state to the MCP server.
// This is a driven port (implemented by the services layer).
type MCPStateProvider interface {
	// Snapshot returns every derived view of the session.
	Snapshot(ctx context.Context) (*domain.Snapshot, error)

	// ListTasks returns the tasks matching search and category.
	ListTasks(ctx context.Context, search, category string) ([]*domain.Task, error)

	// GetTask returns a single task.
	GetTask(ctx context.Context, id string) (*domain.Task, error)

	// FindTasks fuzzy-matches task titles.
	FindTasks(ctx context.Context, query string) ([]*domain.Task, error)

	// CreateTask adds a task and selects it.
	CreateTask(ctx context.Context, in domain.TaskInput) (*domain.Task, error)

	// UpdateTask merges patch into the task and selects it.
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)

	// SetStatus changes the status of a task.
	SetStatus(ctx context.Context, id string, status domain.TaskStatus) (*domain.Task, error)

	// DeleteTask removes a task and clears a selection pointing at it.
	DeleteTask(ctx context.Context, id string) error

	// Select marks a task as selected.
	Select(id string)

	// Progress returns today's progress.
	Progress(ctx context.Context) (domain.DailyProgress, error)

	// Categories returns the distinct task categories.
	Categories(ctx context.Context) ([]string, error)
}
