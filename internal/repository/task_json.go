package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/hamzanagra-dev/todo-task-app/internal/model"
)

// JSONFileTaskRepository keeps the whole collection in one JSON array and
// rewrites the entire file on every mutation. An advisory lock on
// "<path>.lock" is held for each read-modify-write.
type JSONFileTaskRepository struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

func NewJSONFileTask(path string, logger *slog.Logger) (*JSONFileTaskRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return &JSONFileTaskRepository{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}, nil
}

func (r *JSONFileTaskRepository) Load(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.lock.RLock(); err != nil {
		r.logger.Warn("failed to lock task file, using empty collection", "path", r.path, "error", err)
		return []model.Task{}, nil
	}
	defer r.unlock()

	return r.readLocked(), nil
}

func (r *JSONFileTaskRepository) Save(ctx context.Context, tasks []model.Task) error {
	return r.mutate(ctx, func([]model.Task) ([]model.Task, error) {
		return tasks, nil
	})
}

func (r *JSONFileTaskRepository) Insert(ctx context.Context, task model.Task) error {
	return r.mutate(ctx, func(tasks []model.Task) ([]model.Task, error) {
		if indexOf(tasks, task.ID) >= 0 {
			return nil, fmt.Errorf("failed to insert task %d: id already exists", task.ID)
		}
		return append(tasks, task), nil
	})
}

func (r *JSONFileTaskRepository) Update(ctx context.Context, task model.Task) error {
	return r.mutate(ctx, func(tasks []model.Task) ([]model.Task, error) {
		i := indexOf(tasks, task.ID)
		if i < 0 {
			return nil, fmt.Errorf("task %d: %w", task.ID, sql.ErrNoRows)
		}
		tasks[i] = task
		return tasks, nil
	})
}

func (r *JSONFileTaskRepository) Delete(ctx context.Context, id int) error {
	return r.mutate(ctx, func(tasks []model.Task) ([]model.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, fmt.Errorf("task %d: %w", id, sql.ErrNoRows)
		}
		return append(tasks[:i], tasks[i+1:]...), nil
	})
}

func (r *JSONFileTaskRepository) mutate(ctx context.Context, apply func([]model.Task) ([]model.Task, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := r.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock task file: %w", err)
	}
	defer r.unlock()

	tasks, err := apply(r.readLocked())
	if err != nil {
		return err
	}
	return r.writeLocked(tasks)
}

func (r *JSONFileTaskRepository) readLocked() []model.Task {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("failed to read task file, using empty collection", "path", r.path, "error", err)
		}
		return []model.Task{}
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		r.logger.Warn("malformed task file, using empty collection", "path", r.path, "error", err)
		return []model.Task{}
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks
}

// writeLocked replaces the file through a temp file and rename so a failed
// write never leaves a truncated collection behind.
func (r *JSONFileTaskRepository) writeLocked(tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write tasks: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync tasks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace task file: %w", err)
	}
	return nil
}

func (r *JSONFileTaskRepository) unlock() {
	if err := r.lock.Unlock(); err != nil {
		r.logger.Warn("failed to unlock task file", "path", r.path, "error", err)
	}
}

func indexOf(tasks []model.Task, id int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

var _ TaskRepository = (*JSONFileTaskRepository)(nil)
