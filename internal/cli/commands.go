package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hamzanagra-dev/todo-task-app/internal/model"
	"github.com/hamzanagra-dev/todo-task-app/internal/service"
)

func (a *App) addCmd() *cobra.Command {
	var input service.CreateTaskInput

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tasks, err := a.svc.Load(ctx)
			if err != nil {
				return err
			}

			input.Title = strings.Join(args, " ")
			res, err := a.svc.Create(ctx, tasks, input)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Added task %d: %s\n", res.Task.ID, res.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&input.Priority, "priority", "p", "", "Priority (Low, Medium, High)")
	cmd.Flags().StringVar(&input.DueDate, "due", "", "Due date, free text")
	return cmd
}

func (a *App) listCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, pending first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, ok := model.ParseStatusFilter(status)
			if !ok {
				return fmt.Errorf("%w: status must be all, done or not_done", service.ErrValidation)
			}

			tasks, err := a.svc.Load(cmd.Context())
			if err != nil {
				return err
			}

			return renderTasks(a.out, service.List(tasks, filter))
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "all", "Filter: all, done, not_done (or pending)")
	return cmd
}

func (a *App) searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search titles and descriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.svc.Load(cmd.Context())
			if err != nil {
				return err
			}

			found, err := service.Search(tasks, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return renderTasks(a.out, service.List(found, model.StatusAll))
		},
	}
}

func (a *App) toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task complete or incomplete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := service.ParseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			tasks, err := a.svc.Load(ctx)
			if err != nil {
				return err
			}

			res, err := a.svc.ToggleStatus(ctx, tasks, id)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Task %d marked as %s\n", res.Task.ID, statusLabel(res.Task))
			return nil
		},
	}
}

func (a *App) updateCmd() *cobra.Command {
	var input service.UpdateTaskInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task; omitted or blank fields keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := service.ParseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			tasks, err := a.svc.Load(ctx)
			if err != nil {
				return err
			}

			res, err := a.svc.Update(ctx, tasks, id, input)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Task %d updated\n", res.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input.Title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&input.Description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&input.Priority, "priority", "p", "", "New priority (Low, Medium, High)")
	cmd.Flags().StringVar(&input.DueDate, "due", "", "New due date")
	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := service.ParseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			tasks, err := a.svc.Load(ctx)
			if err != nil {
				return err
			}

			res, err := a.svc.Delete(ctx, tasks, id)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Deleted task %d: %s\n", res.Task.ID, res.Task.Title)
			return nil
		},
	}
}

func (a *App) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace all stored tasks with the contents of a JSON task file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var tasks []model.Task
			if err := json.Unmarshal(data, &tasks); err != nil {
				return fmt.Errorf("%w: %s is not a task file: %v", service.ErrValidation, args[0], err)
			}

			imported, err := a.svc.Import(cmd.Context(), tasks)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Imported %d task(s)\n", len(imported))
			return nil
		},
	}
}
