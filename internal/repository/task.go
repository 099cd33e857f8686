package repository

import (
	"context"

	"github.com/hamzanagra-dev/todo-task-app/internal/model"
)

// TaskRepository persists the task collection.
//
// Load never fails because of missing or unreadable backing data; it returns an
// empty collection instead. Update and Delete return sql.ErrNoRows (possibly
// wrapped) when no task has the given id.
type TaskRepository interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
	Insert(ctx context.Context, task model.Task) error
	Update(ctx context.Context, task model.Task) error
	Delete(ctx context.Context, id int) error
}
