// Package domain contains the core business entities for Kaizen.
// These entities represent the fundamental concepts of the task tracking system
// and are independent of any external frameworks or infrastructure.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrInvalidTaskID        = errors.New("invalid task ID")
	ErrEmptyTaskTitle       = errors.New("task title cannot be empty")
	ErrInvalidStatus        = errors.New("invalid task status")
	ErrTaskNotFound         = errors.New("task not found")
	ErrDuplicateTaskID      = errors.New("duplicate task ID")
	ErrNoActiveForm         = errors.New("no active form session")
	ErrUpdatedBeforeCreated = errors.New("updated before created")
	ErrCompletionMismatch   = errors.New("completion time does not match status")
)

// ValidationError reports a rejected task field. It unwraps to the
// sentinel describing the violation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Statuses lists every valid status in display order.
func Statuses() []TaskStatus {
	return []TaskStatus{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Label returns a human-readable label for the status.
func (s TaskStatus) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Next returns the status that follows s in display order, wrapping around.
func (s TaskStatus) Next() TaskStatus {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// ParseStatus converts user input into a TaskStatus.
func ParseStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToLower(strings.TrimSpace(s)))
	if status == "in-progress" {
		status = StatusInProgress
	}
	if !status.Valid() {
		return "", &ValidationError{Field: "status", Err: fmt.Errorf("%w: %q", ErrInvalidStatus, s)}
	}
	return status, nil
}

// Task represents a unit of work to be tracked.
type Task struct {
	ID          string
	Title       string
	Description string
	Category    string
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// TaskInput holds the user-editable fields of a task.
type TaskInput struct {
	Title       string
	Description string
	Category    string
	Status      TaskStatus
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Category    *string
	Status      *TaskStatus
}

// PatchFromInput builds a patch that overwrites every editable field.
func PatchFromInput(in TaskInput) TaskPatch {
	p := TaskPatch{
		Title:       &in.Title,
		Description: &in.Description,
		Category:    &in.Category,
	}
	if in.Status != "" {
		p.Status = &in.Status
	}
	return p
}

// NewTask creates a new task with the given id and creation time.
func NewTask(in TaskInput, id string, now time.Time) (*Task, error) {
	if id == "" {
		return nil, ErrInvalidTaskID
	}
	if err := validateTaskTitle(in.Title); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = StatusTodo
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	task := &Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.SetStatus(status, now)
	return task, nil
}

// validateTaskTitle ensures the title is not blank.
func validateTaskTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Err: ErrEmptyTaskTitle}
	}
	return nil
}

func validateStatus(s TaskStatus) error {
	if !s.Valid() {
		return &ValidationError{Field: "status", Err: fmt.Errorf("%w: %q", ErrInvalidStatus, s)}
	}
	return nil
}

// Validate checks the task's field and timestamp invariants: a non-empty id
// and title, a known status, UpdatedAt not before CreatedAt, and CompletedAt
// set exactly when the task is done.
func (t *Task) Validate() error {
	if t.ID == "" {
		return ErrInvalidTaskID
	}
	if err := validateTaskTitle(t.Title); err != nil {
		return err
	}
	if err := validateStatus(t.Status); err != nil {
		return err
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return &ValidationError{Field: "updated_at", Err: ErrUpdatedBeforeCreated}
	}
	if (t.Status == StatusDone) != (t.CompletedAt != nil) {
		return &ValidationError{Field: "completed_at", Err: ErrCompletionMismatch}
	}
	return nil
}

// SetStatus moves the task to status. Entering done stamps CompletedAt,
// staying done keeps the original stamp, and any other status clears it.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	switch {
	case status != StatusDone:
		t.CompletedAt = nil
	case t.Status != StatusDone || t.CompletedAt == nil:
		stamp := now
		t.CompletedAt = &stamp
	}
	t.Status = status
	t.UpdatedAt = now
}

// Apply merges p into a copy of t and returns it. The receiver is never
// modified, so a rejected patch leaves the stored task intact.
func (t *Task) Apply(p TaskPatch, now time.Time) (*Task, error) {
	next := t.Clone()
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if err := validateTaskTitle(next.Title); err != nil {
		return nil, err
	}

	status := next.Status
	if p.Status != nil {
		status = *p.Status
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	next.SetStatus(status, now)
	if next.UpdatedAt.Before(next.CreatedAt) {
		next.UpdatedAt = next.CreatedAt
	}
	return next, nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.CompletedAt != nil {
		stamp := *t.CompletedAt
		c.CompletedAt = &stamp
	}
	return &c
}

// IsDone returns true if the task has been completed.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsActive returns true if the task is currently being worked on.
func (t *Task) IsActive() bool {
	return t.Status == StatusInProgress
}
