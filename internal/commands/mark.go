package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/output"
	"taskcli/internal/service"
)

func init() {
	Register(NewMarkCmd(service.StatusTodo))
	Register(NewMarkCmd(service.StatusInProgress))
	Register(NewMarkCmd(service.StatusDone))
}

// MarkCmd implements the mark-<status> commands.
type MarkCmd struct {
	status service.Status
}

// NewMarkCmd returns the command that moves a task to status.
func NewMarkCmd(status service.Status) *MarkCmd {
	return &MarkCmd{status: status}
}

func (c *MarkCmd) Name() string      { return "mark-" + string(c.status) }
func (c *MarkCmd) Aliases() []string { return nil }
func (c *MarkCmd) Synopsis() string  { return fmt.Sprintf("Mark a task %s", c.status) }
func (c *MarkCmd) Usage() string     { return fmt.Sprintf("task-cli %s <id>", c.Name()) }
func (c *MarkCmd) NeedsStore() bool  { return true }

func (c *MarkCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MarkCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportIDError(errOut, err)
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	if _, err := svc.SetStatus(ctx, id, c.status); err != nil {
		return reportStoreError(errOut, id, err)
	}

	if !cfg.Quiet {
		output.FormatMarked(out, c.status)
	}
	return exitcode.Success
}
