package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
	"taskdash/internal/tasklist"
	"taskdash/internal/transport"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints every field of one task. Members only see their own tasks.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"get"} }
func (c *ShowCmd) Synopsis() string  { return "Show one task" }
func (c *ShowCmd) Usage() string     { return "taskdash show <id>" }
func (c *ShowCmd) Access() Access    { return Authenticated }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	id, err := tasklist.ParseID("taskid", args[0])
	if err != nil {
		return reportError(errOut, err)
	}

	task, err := env.Service.GetTask(ctx, id)
	if transport.IsNotFound(err) {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}
	if err != nil {
		return reportError(errOut, err)
	}

	if !env.Session.HasRole(ctx, service.RoleManager) {
		me, err := currentUserID(ctx, env)
		if err != nil {
			return reportError(errOut, err)
		}
		// Same answer as a missing task
		if task.AssignedTo != me {
			fmt.Fprintf(errOut, "error: task not found: %d\n", id)
			return exitcode.UserError
		}
	}

	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
