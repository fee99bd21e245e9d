package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/nissyi-gh/prio/internal/model"
)

// ErrNotFound is returned when a task id does not exist.
var ErrNotFound = errors.New("task not found")

// Repository is the task source and sink shared by every persistence adapter.
type Repository interface {
	List(ctx context.Context) ([]model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	Add(ctx context.Context, n model.NewTask) (model.Task, error)
	ToggleComplete(ctx context.Context, id string) (model.Task, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a time-ordered task id.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
