// Package ports defines the interfaces (driven and driving ports)
// for the Kaizen application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/kaizen/internal/domain"
)

// TaskRepository defines the interface for the session's task collection.
// This is a driven port (implemented by adapters).
//
// Implementations own their records: every task passed in is copied and
// every task returned is a copy.
type TaskRepository interface {
	// Insert adds a task at the front of the collection.
	Insert(ctx context.Context, task *domain.Task) error

	// Append adds a task at the back of the collection. Used for seeding.
	Append(ctx context.Context, task *domain.Task) error

	// FindByID retrieves a task by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindAll retrieves all tasks, most recent first.
	FindAll(ctx context.Context) ([]*domain.Task, error)

	// Replace overwrites an existing task in place, keeping its position.
	Replace(ctx context.Context, task *domain.Task) error

	// Delete removes a task. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored tasks.
	Count(ctx context.Context) (int, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Tasks provides access to task operations.
	Tasks() TaskRepository

	// Close releases the storage.
	Close() error
}

// Clock supplies the current time for timestamps and the progress
// reference date.
type Clock interface {
	Now() time.Time
}
