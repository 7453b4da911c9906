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
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command.
type UpdateCmd struct{}

func (c *UpdateCmd) Name() string      { return "update" }
func (c *UpdateCmd) Aliases() []string { return nil }
func (c *UpdateCmd) Synopsis() string  { return "Change a task's description" }
func (c *UpdateCmd) Usage() string     { return "task-cli update <id> <description...>" }
func (c *UpdateCmd) NeedsStore() bool  { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportIDError(errOut, err)
	}

	desc, ok := joinDescription(args[1:])
	if !ok {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}

	if _, err := svc.Update(ctx, id, desc); err != nil {
		return reportStoreError(errOut, id, err)
	}

	if !cfg.Quiet {
		output.FormatUpdated(out)
	}
	return exitcode.Success
}
