package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/hamzanagra-dev/todo-task-app/internal/model"
)

func renderTasks(w io.Writer, tasks []model.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRIORITY\tTITLE\tDATE\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, statusLabel(t), t.Priority, t.Title, dateInfo(t), t.Description)
	}
	return tw.Flush()
}

func statusLabel(t model.Task) string {
	if t.Done {
		return "Done"
	}
	return "Not Done"
}

// dateInfo shows when a finished task was completed, or when a pending one is due.
func dateInfo(t model.Task) string {
	switch {
	case t.Done && t.CompletionDate != "":
		return "on " + t.CompletionDate
	case !t.Done && t.DueDate != "":
		return "due " + t.DueDate
	default:
		return ""
	}
}
