// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/logging"
	"taskdash/internal/service"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = "mine"

// EnvFactory builds the command environment from config.
// The returned cleanup runs after the command finishes.
type EnvFactory func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*commands.Env, func(), error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  EnvFactory
}

// NewDispatcher creates a new dispatcher with the given registry and env factory.
func NewDispatcher(registry *commands.Registry, factory EnvFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> the signed-in user's tasks
	if len(args) == 0 {
		return d.dispatch(ctx, DefaultCommand, nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var apiURL string
	var timeout time.Duration
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.StringVar(&apiURL, "api-url", "", "")
	fs.DurationVar(&timeout, "timeout", 0, "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}

	log := logging.New(errOut, debug, quiet)

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return exitcode.BackendError
	}
	env, cleanup, err := d.factory(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.BackendError
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Screens behind a session
	switch cmd.Access() {
	case commands.Authenticated, commands.ManagerOnly:
		if _, ok := env.Session.CurrentSession(ctx); !ok {
			fmt.Fprintln(errOut, "error: not logged in (run: taskdash login)")
			return exitcode.AuthError
		}
		if cmd.Access() == commands.ManagerOnly && !env.Session.HasRole(ctx, service.RoleManager) {
			fmt.Fprintf(errOut, "error: %s requires the project manager role\n", cmd.Name())
			return exitcode.AuthError
		}
	}

	log.Debug().Str("command", cmd.Name()).Str("api_url", cfg.APIURL).Msg("dispatch")
	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// reportFlagError prints a flag parse error in the CLI's own wording.
func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Check for missing flag value
	if strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		flagPart := strings.TrimSpace(parts[len(parts)-1])
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
		return exitcode.UserError
	}

	// Check for unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
