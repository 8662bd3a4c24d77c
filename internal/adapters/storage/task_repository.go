package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/ports"
)

const taskColumns = `id, title, description, category, status, created_at, updated_at, completed_at`

// taskRepository implements ports.TaskRepository using SQLite. Ordering is
// kept in the position column: Insert takes a position below the current
// minimum and Append one above the current maximum.
type taskRepository struct {
	db *sql.DB
}

// newTaskRepository creates a new task repository.
func newTaskRepository(db *sql.DB) ports.TaskRepository {
	return &taskRepository{db: db}
}

// Insert adds a task at the front of the collection.
func (r *taskRepository) Insert(ctx context.Context, task *domain.Task) error {
	return r.insertAt(ctx, task, `SELECT COALESCE(MIN(position), 0) - 1 FROM tasks`)
}

// Append adds a task at the back of the collection.
func (r *taskRepository) Append(ctx context.Context, task *domain.Task) error {
	return r.insertAt(ctx, task, `SELECT COALESCE(MAX(position), 0) + 1 FROM tasks`)
}

func (r *taskRepository) insertAt(ctx context.Context, task *domain.Task, positionQuery string) error {
	query := `
		INSERT INTO tasks (id, position, title, description, category, status, created_at, updated_at, completed_at)
		VALUES (?, (` + positionQuery + `), ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Category,
		string(task.Status),
		task.CreatedAt,
		task.UpdatedAt,
		nullTime(task.CompletedAt),
	)
	if isUniqueConstraintError(err) {
		return domain.ErrDuplicateTaskID
	}
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	return nil
}

// FindByID retrieves a task by its unique identifier.
func (r *taskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// FindAll retrieves all tasks, most recent first.
func (r *taskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// Replace overwrites an existing task, keeping its position.
func (r *taskRepository) Replace(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, category = ?, status = ?, updated_at = ?, completed_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.Category,
		string(task.Status),
		task.UpdatedAt,
		nullTime(task.CompletedAt),
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// Delete removes a task. A missing id is not an error.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Count returns the number of stored tasks.
func (r *taskRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans a single task row.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status string
	var completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Category,
		&status,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	return &task, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
