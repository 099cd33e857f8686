package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/hamzanagra-dev/todo-task-app/internal/service"
)

type App struct {
	svc *service.TaskService
	out io.Writer
}

func NewApp(svc *service.TaskService, out io.Writer) *App {
	return &App{svc: svc, out: out}
}

// NewRootCommand builds the command tree. Commands only parse input, call the
// task service and render what it returns.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "todo",
		Short:         "Track tasks from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.out)

	root.AddCommand(
		app.addCmd(),
		app.listCmd(),
		app.searchCmd(),
		app.toggleCmd(),
		app.updateCmd(),
		app.deleteCmd(),
		app.importCmd(),
	)
	return root
}
