package repo

import (
	"context"

	"github.com/agenticai/patterns/internal/model"
)

type TaskBackend interface {
	// CreateTask stores a new task. The ID of the passed model is updated
	// to the newly assigned identifier. Identifiers are never reused.
	CreateTask(context.Context, *model.Task) error

	// GetTask returns a task by it's ID.
	GetTask(ctx context.Context, id int) (*model.Task, error)

	// ListTasks returns all tasks ordered by ID.
	ListTasks(context.Context) ([]*model.Task, error)

	// UpdateTask merges the non-nil fields of update into the task
	// identified by id and returns the result.
	UpdateTask(ctx context.Context, id int, update model.TaskUpdate) (*model.Task, error)

	// DeleteTask deletes a task identified by id.
	DeleteTask(context.Context, int) error
}

type ItemBackend interface {
	// CreateItem stores a new item and assigns the next identifier to it.
	CreateItem(context.Context, *model.Item) error

	GetItem(ctx context.Context, id int) (*model.Item, error)

	// ListItems returns all items ordered by ID.
	ListItems(context.Context) ([]*model.Item, error)

	DeleteItem(context.Context, int) error
}

// Clone returns a shallow copy of v so callers can not modify stored
// records through returned pointers.
func Clone[T any](v *T) *T {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}
