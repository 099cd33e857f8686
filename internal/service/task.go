package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hamzanagra-dev/todo-task-app/internal/model"
	"github.com/hamzanagra-dev/todo-task-app/internal/repository"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

// UpdateTaskInput fields left blank keep the current value.
type UpdateTaskInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
}

// Result carries the collection after a mutation together with the affected task.
type Result struct {
	Tasks []model.Task
	Task  model.Task
}

type Options struct {
	// DefaultPriority is used when a task is created without a valid priority.
	// Empty means Medium.
	DefaultPriority model.Priority
	// RefreshAfterWrite reloads the collection from the store after each write
	// instead of returning the locally updated copy.
	RefreshAfterWrite bool
	Now               func() time.Time
}

type TaskService struct {
	repo            repository.TaskRepository
	defaultPriority model.Priority
	refresh         bool
	now             func() time.Time
}

func NewTaskService(repo repository.TaskRepository, opts Options) *TaskService {
	s := &TaskService{
		repo:            repo,
		defaultPriority: opts.DefaultPriority,
		refresh:         opts.RefreshAfterWrite,
		now:             opts.Now,
	}
	if !s.defaultPriority.IsValid() {
		s.defaultPriority = model.PriorityMedium
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// NextID returns one more than the largest id in tasks, or 1 for an empty collection.
func NextID(tasks []model.Task) int {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

func FindByID(tasks []model.Task, id int) (model.Task, bool) {
	i := indexOf(tasks, id)
	if i < 0 {
		return model.Task{}, false
	}
	return tasks[i], true
}

// ParseID parses a caller-supplied task id.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid task id %q", ErrValidation, s)
	}
	return id, nil
}

// List filters tasks by completion state and orders pending tasks before
// completed ones, keeping the original order within each group.
func List(tasks []model.Task, filter model.StatusFilter) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		switch {
		case filter == model.StatusDone && !t.Done:
		case filter == model.StatusNotDone && t.Done:
		default:
			out = append(out, t)
		}
	}

	slices.SortStableFunc(out, func(a, b model.Task) int {
		switch {
		case a.Done == b.Done:
			return 0
		case !a.Done:
			return -1
		default:
			return 1
		}
	})
	return out
}

// Search returns tasks whose title or description contains keyword, ignoring case.
func Search(tasks []model.Task, keyword string) ([]model.Task, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, fmt.Errorf("%w: search keyword cannot be empty", ErrValidation)
	}

	needle := strings.ToLower(keyword)
	out := []model.Task{}
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TaskService) Load(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, tasks []model.Task, input CreateTaskInput) (Result, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return Result{}, fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	}

	priority, ok := model.ParsePriority(input.Priority)
	if !ok {
		priority = s.defaultPriority
	}

	now := s.now()
	task := model.Task{
		ID:          NextID(tasks),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Priority:    priority,
		DueDate:     strings.TrimSpace(input.DueDate),
		CreatedAt:   now.Format(model.CreatedAtLayout),
	}

	if err := s.repo.Insert(ctx, task); err != nil {
		return Result{}, fmt.Errorf("failed to create task: %w", err)
	}

	next := append(slices.Clone(tasks), task)
	return s.result(ctx, next, task)
}

func (s *TaskService) ToggleStatus(ctx context.Context, tasks []model.Task, id int) (Result, error) {
	i := indexOf(tasks, id)
	if i < 0 {
		return Result{}, notFound(id)
	}

	task := tasks[i]
	task.Done = !task.Done
	if task.Done {
		task.CompletionDate = s.now().Format(model.CompletionDateLayout)
	} else {
		task.CompletionDate = ""
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return Result{}, mapRepoError(err, id, "toggle")
	}

	next := slices.Clone(tasks)
	next[i] = task
	return s.result(ctx, next, task)
}

func (s *TaskService) Update(ctx context.Context, tasks []model.Task, id int, input UpdateTaskInput) (Result, error) {
	i := indexOf(tasks, id)
	if i < 0 {
		return Result{}, notFound(id)
	}

	task := tasks[i]
	if v := strings.TrimSpace(input.Title); v != "" {
		task.Title = v
	}
	if v := strings.TrimSpace(input.Description); v != "" {
		task.Description = v
	}
	if v := strings.TrimSpace(input.DueDate); v != "" {
		task.DueDate = v
	}
	if p, ok := model.ParsePriority(input.Priority); ok {
		task.Priority = p
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return Result{}, mapRepoError(err, id, "update")
	}

	next := slices.Clone(tasks)
	next[i] = task
	return s.result(ctx, next, task)
}

func (s *TaskService) Delete(ctx context.Context, tasks []model.Task, id int) (Result, error) {
	i := indexOf(tasks, id)
	if i < 0 {
		return Result{}, notFound(id)
	}

	removed := tasks[i]
	if err := s.repo.Delete(ctx, id); err != nil {
		return Result{}, mapRepoError(err, id, "delete")
	}

	next := slices.Delete(slices.Clone(tasks), i, i+1)
	return s.result(ctx, next, removed)
}

// Import replaces the stored collection with tasks.
func (s *TaskService) Import(ctx context.Context, tasks []model.Task) ([]model.Task, error) {
	seen := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		if t.ID <= 0 {
			return nil, fmt.Errorf("%w: invalid task id %d", ErrValidation, t.ID)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: duplicate task id %d", ErrValidation, t.ID)
		}
		if strings.TrimSpace(t.Title) == "" {
			return nil, fmt.Errorf("%w: task %d has an empty title", ErrValidation, t.ID)
		}
		seen[t.ID] = true
	}

	if err := s.repo.Save(ctx, tasks); err != nil {
		return nil, fmt.Errorf("failed to import tasks: %w", err)
	}

	if s.refresh {
		return s.Load(ctx)
	}
	return slices.Clone(tasks), nil
}

func (s *TaskService) result(ctx context.Context, next []model.Task, task model.Task) (Result, error) {
	if !s.refresh {
		return Result{Tasks: next, Task: task}, nil
	}

	fresh, err := s.Load(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Tasks: fresh, Task: task}, nil
}

func indexOf(tasks []model.Task, id int) int {
	return slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == id })
}

func notFound(id int) error {
	return fmt.Errorf("%w: task %d", ErrNotFound, id)
}

// mapRepoError reports a row that vanished from the store as ErrNotFound.
func mapRepoError(err error, id int, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(id)
	}
	return fmt.Errorf("failed to %s task: %w", op, err)
}
