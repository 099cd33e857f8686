package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hamzanagra-dev/todo-task-app/internal/model"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT,
		done BOOLEAN NOT NULL CHECK (done IN (0, 1)),
		due_date TEXT,
		completion_date TEXT
	)`

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS tasks (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		priority TEXT,
		done BOOLEAN NOT NULL,
		due_date TEXT,
		completion_date TEXT
	)`

// SQLTaskRepository stores one row per task. Queries are written with "?"
// placeholders and rebound for postgres.
type SQLTaskRepository struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// NewSQLTask creates the tasks table if it does not exist yet.
func NewSQLTask(ctx context.Context, db *sql.DB, driver string, logger *slog.Logger) (*SQLTaskRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}

	schema := sqliteSchema
	if driver == DriverPostgres {
		schema = postgresSchema
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLTaskRepository{db: db, driver: driver, logger: logger}, nil
}

func (r *SQLTaskRepository) Load(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := `
		SELECT id, title, description, priority, done, due_date, completion_date
		FROM tasks
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.logger.Warn("failed to load tasks, using empty collection", "error", err)
		return []model.Task{}, nil
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			r.logger.Warn("failed to read tasks, using empty collection", "error", err)
			return []model.Task{}, nil
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		r.logger.Warn("failed to iterate tasks, using empty collection", "error", err)
		return []model.Task{}, nil
	}

	return tasks, nil
}

func (r *SQLTaskRepository) Save(ctx context.Context, tasks []model.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	for _, task := range tasks {
		if err := r.insert(ctx, tx, task); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tasks: %w", err)
	}
	return nil
}

func (r *SQLTaskRepository) Insert(ctx context.Context, task model.Task) error {
	return r.insert(ctx, r.db, task)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLTaskRepository) insert(ctx context.Context, ex execer, task model.Task) error {
	query := r.rebind(`
		INSERT INTO tasks (id, title, description, priority, done, due_date, completion_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := ex.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, string(task.Priority),
		task.Done, task.DueDate, task.CompletionDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task %d: %w", task.ID, err)
	}
	return nil
}

func (r *SQLTaskRepository) Update(ctx context.Context, task model.Task) error {
	query := r.rebind(`
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, done = ?, due_date = ?, completion_date = ?
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, string(task.Priority),
		task.Done, task.DueDate, task.CompletionDate, task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}

	return checkAffected(result)
}

func (r *SQLTaskRepository) Delete(ctx context.Context, id int) error {
	query := r.rebind(`DELETE FROM tasks WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}

	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// rebind rewrites "?" placeholders to "$n" for postgres.
func (r *SQLTaskRepository) rebind(query string) string {
	if r.driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTask(row scannable) (model.Task, error) {
	var (
		t                                           model.Task
		description, priority, dueDate, completedOn sql.NullString
	)
	err := row.Scan(
		&t.ID, &t.Title, &description, &priority,
		&t.Done, &dueDate, &completedOn,
	)
	if err != nil {
		return model.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	t.Description = description.String
	t.Priority = model.Priority(priority.String)
	t.DueDate = dueDate.String
	t.CompletionDate = completedOn.String
	return t, nil
}

// ensure compile-time interface compliance
var _ TaskRepository = (*SQLTaskRepository)(nil)
