package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskdash help" }
func (c *HelpCmd) Access() Access    { return Public }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)

	if env == nil || env.Session == nil {
		return exitcode.Success
	}
	sess, ok := env.Session.CurrentSession(ctx)
	if !ok {
		return exitcode.Success
	}

	manager := env.Session.HasRole(ctx, service.RoleManager)
	fmt.Fprintf(out, "\nSigned in as %s (%s). Available commands:\n", sess.Subject, sess.Role)
	for _, cmd := range DefaultRegistry.Available(true, manager) {
		fmt.Fprintf(out, "  %-10s  %s\n", cmd.Name(), cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  taskdash                                           List your tasks
  taskdash register [common flags] --name <name> --email <email> [--contact <contact>]
                    [--password <password>] [--manager]
  taskdash login [common flags] --email <email> [--password <password>]
  taskdash logout [common flags]
  taskdash whoami [common flags]

Your tasks:
  taskdash mine [common flags] [--status <status>]
  taskdash show [common flags] <id>
  taskdash pending [common flags]
  taskdash progress [common flags]
  taskdash completed [common flags]
  taskdash status [common flags] [--view all|pending|progress|completed] <id> <status>
  taskdash profile [common flags] [--name <name>] [--email <email>] [--contact <contact>]
                   [--password <password>] [--delete --yes]

Project managers:
  taskdash tasks [common flags] [--status <status>]
  taskdash assign [common flags] --name <name> --description <text> --assignee <user-id>
                  --project <project-id> [--priority <priority>] [--status <status>]
  taskdash edit [common flags] [--name ..] [--description ..] [--priority ..] [--status ..]
                [--assignee ..] [--project ..] <id>
  taskdash rm [common flags] <id>
  taskdash users [common flags]
  taskdash projects [common flags]

  taskdash help
  taskdash version

Priorities: Low, Medium, High
Statuses:   Pending, "In Progress" (in-progress), Completed

Common flags:
  --config <dir>    Override config directory
  --api-url <url>   Override the task service URL
  --timeout <dur>   Per-request timeout (default 10s)
  --quiet           Suppress informational output
  --debug           Print debug logs to stderr
`
