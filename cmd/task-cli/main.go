// Package main is the entry point for the task-cli CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskcli/internal/cli"
	"taskcli/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.OpenJSONFile)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
