// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"taskcli/internal/commands"
	"taskcli/internal/config"
	"taskcli/internal/exitcode"
	"taskcli/internal/logging"
	"taskcli/internal/service"
	"taskcli/internal/store/jsonfile"
)

// StoreFactory opens the task store described by cfg.
// Used to inject the backend during dispatch.
type StoreFactory func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Service, error)

// OpenJSONFile is the production StoreFactory.
func OpenJSONFile(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.Service, error) {
	return jsonfile.New(cfg.TasksPath(), jsonfile.WithLogger(logger))
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
}

// NewDispatcher creates a new dispatcher with the given registry and store
// factory. A nil factory opens the JSON file store.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	if factory == nil {
		factory = OpenJSONFile
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		return d.usageError(errOut, "command required")
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		return d.usageError(errOut, "unknown command: "+cmdName)
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		return d.usageError(errOut, "unknown command: "+cmdName)
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

// usageError prints msg followed by the usage summary.
func (d *Dispatcher) usageError(errOut io.Writer, msg string) int {
	fmt.Fprintf(errOut, "error: %s\n", msg)
	commands.PrintUsage(errOut, d.registry)
	return exitcode.UserError
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var file string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&file, "file", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		if strings.HasPrefix(errStr, "flag needs an argument:") {
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
			return exitcode.UserError
		}

		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// A leading "-" after parsing is a stray flag unless "--" ended the flags
	positionalArgs := fs.Args()
	if !endedByTerminator(args, positionalArgs) {
		if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
			return exitcode.UserError
		}
		// flag stops at the first positional, so later flags would be
		// swallowed into the arguments.
		if stray, ok := misplacedFlag(fs, positionalArgs); ok {
			fmt.Fprintf(errOut, "error: flags must come before arguments: %s\n", stray)
			return exitcode.UserError
		}
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if file != "" {
		cfg.File = file
	}
	cfg.Quiet = cfg.Quiet || quiet
	cfg.Debug = debug

	logger := logging.New(errOut, cfg.Debug)
	defer func() { _ = logger.Sync() }()

	logger.Debug("dispatch",
		zap.String("command", cmd.Name()),
		zap.Strings("args", positionalArgs),
		zap.String("config_dir", cfg.Dir),
		zap.String("file", cfg.TasksPath()),
	)

	var svc service.Service
	if cmd.NeedsStore() {
		svc, err = d.factory(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: store error: %s\n", err)
			return exitcode.StoreError
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// misplacedFlag returns the first positional argument that names a flag
// registered on fs.
func misplacedFlag(fs *flag.FlagSet, positional []string) (string, bool) {
	for _, arg := range positional {
		if arg == "--" {
			return "", false
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		if i := strings.IndexByte(name, '='); i >= 0 {
			name = name[:i]
		}
		if name != "" && fs.Lookup(name) != nil {
			return arg, true
		}
	}
	return "", false
}

// endedByTerminator reports whether flag parsing stopped at "--".
func endedByTerminator(args, positional []string) bool {
	i := len(args) - len(positional) - 1
	return i >= 0 && args[i] == "--"
}
