// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"github.com/rs/zerolog"

	"taskdash/internal/config"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

// Access is the session a command requires.
type Access int

const (
	// Public commands run without a session (help, version, login, logout).
	Public Access = iota

	// Authenticated commands need an unexpired session of any role.
	Authenticated

	// ManagerOnly commands need a session with the project manager role.
	ManagerOnly
)

// Env is what a command runs against.
type Env struct {
	Config  *config.Config
	Session *session.Service
	Service service.Service
	Log     zerolog.Logger

	// Stdin is read for prompts (login password). Nil means no input.
	Stdin io.Reader
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// Access returns the session the command requires.
	// The dispatcher refuses to run the command without it.
	Access() Access

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// env is always provided; env.Service and env.Session are nil only in tests
	// of commands that do not use them.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
