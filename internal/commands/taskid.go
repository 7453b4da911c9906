package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"taskcli/internal/exitcode"
	"taskcli/internal/service"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the task id from the first positional argument.
// Ids are positive base-10 integers.
func ParseTaskID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}

	raw := strings.TrimSpace(args[0])
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}

// joinDescription joins positional args into a single description.
func joinDescription(args []string) (string, bool) {
	desc := strings.Join(args, " ")
	if strings.TrimSpace(desc) == "" {
		return "", false
	}
	return desc, true
}

// reportIDError prints a ParseTaskID failure and returns the exit code.
func reportIDError(errOut io.Writer, err error) int {
	if errors.Is(err, ErrTaskIDRequired) {
		fmt.Fprintln(errOut, "error: task id required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

// reportStoreError prints a service failure and returns the exit code.
func reportStoreError(errOut io.Writer, id int, err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	case errors.Is(err, service.ErrInvalidStatus):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.StoreError
	default:
		fmt.Fprintf(errOut, "error: store error: %v\n", err)
		return exitcode.StoreError
	}
}
