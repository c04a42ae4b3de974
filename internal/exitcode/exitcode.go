// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by every command.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, validation).
	UserError = 1

	// AuthError indicates a missing session or insufficient role.
	AuthError = 2

	// BackendError indicates a failed or rejected API request.
	BackendError = 3
)
