// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown command, task not found).
	UserError = 1

	// StoreError indicates the tasks file could not be read, parsed or written.
	// It shares the generic failure code so scripts only need to test for 0/1.
	StoreError = 1
)
