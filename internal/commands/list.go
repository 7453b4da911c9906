package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/output"
	"taskcli/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct{}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "task-cli list [todo|in-progress|done]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	filter, err := parseFilter(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks, err := svc.List(ctx, filter)
	if err != nil {
		return reportStoreError(errOut, 0, err)
	}

	output.FormatTasks(out, tasks, cfg.Quiet)
	return exitcode.Success
}

// parseFilter returns nil for no filter, or the requested status.
func parseFilter(args []string) (*service.Status, error) {
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
		st, err := service.ParseStatus(args[0])
		if err != nil {
			if errors.Is(err, service.ErrInvalidStatus) {
				return nil, fmt.Errorf("unknown status filter: %s", args[0])
			}
			return nil, err
		}
		return &st, nil
	default:
		return nil, errors.New("too many arguments (usage: task-cli list [todo|in-progress|done])")
	}
}
