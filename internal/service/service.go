package service

import "context"

// Service defines the interface for task backend operations.
// Commands only talk to storage through this interface.
type Service interface {
	// Add creates a task with status todo and returns it with its new id.
	Add(ctx context.Context, description string) (Task, error)

	// Update replaces the description of a task.
	// Returns ErrNotFound if no task has the id.
	Update(ctx context.Context, id int, description string) (Task, error)

	// Delete removes a task.
	// Returns ErrNotFound if no task has the id.
	Delete(ctx context.Context, id int) error

	// SetStatus moves a task to the given status.
	// Returns ErrNotFound if no task has the id.
	SetStatus(ctx context.Context, id int, status Status) (Task, error)

	// List returns tasks in insertion order.
	// A nil filter returns every task.
	List(ctx context.Context, filter *Status) ([]Task, error)
}
