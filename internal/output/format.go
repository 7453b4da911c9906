// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskcli/internal/service"
)

// NoTasks is printed when a listing is empty.
const NoTasks = "No tasks found."

// FormatTask writes a task block:
//
//	ID: 1
//	  Description: buy milk
//	  Status: todo
//	  Created At: 2026-10-19T09:30:00
//	  Updated At: 2026-10-19T09:30:00
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "ID: %d\n", task.ID)
	fmt.Fprintf(w, "  Description: %s\n", normalizeDescription(task.Description))
	fmt.Fprintf(w, "  Status: %s\n", task.Status)
	fmt.Fprintf(w, "  Created At: %s\n", task.CreatedAt)
	fmt.Fprintf(w, "  Updated At: %s\n", task.UpdatedAt)
}

// FormatTasks writes every task in order, or NoTasks if there are none and
// quiet is false.
func FormatTasks(w io.Writer, tasks []service.Task, quiet bool) {
	if len(tasks) == 0 {
		if !quiet {
			fmt.Fprintln(w, NoTasks)
		}
		return
	}
	for _, t := range tasks {
		FormatTask(w, t)
	}
}

// FormatAdded writes the confirmation for a new task.
func FormatAdded(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "Task added successfully (ID: %d)\n", task.ID)
}

// FormatUpdated writes the confirmation for a description change.
func FormatUpdated(w io.Writer) {
	fmt.Fprintln(w, "Task updated successfully.")
}

// FormatDeleted writes the confirmation for a removed task.
func FormatDeleted(w io.Writer) {
	fmt.Fprintln(w, "Task deleted successfully.")
}

// FormatMarked writes the confirmation for a status change.
func FormatMarked(w io.Writer, status service.Status) {
	fmt.Fprintf(w, "Task marked as %s.\n", status)
}

// normalizeDescription flattens line breaks so each field stays on one line.
// Empty or whitespace-only descriptions become "(empty)".
func normalizeDescription(desc string) string {
	desc = strings.ReplaceAll(desc, "\r\n", " ")
	desc = strings.ReplaceAll(desc, "\r", " ")
	desc = strings.ReplaceAll(desc, "\n", " ")

	if strings.TrimSpace(desc) == "" {
		return "(empty)"
	}
	return desc
}
