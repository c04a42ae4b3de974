package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/exitcode"
	"taskdash/internal/tasklist"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskdash rm <id>" }
func (c *RmCmd) Access() Access    { return ManagerOnly }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: task id required")
		return exitcode.UserError
	}
	id, err := tasklist.ParseID("taskid", args[0])
	if err != nil {
		return reportError(errOut, err)
	}

	view := tasklist.NewView(env.Service, tasklist.All(), tasklist.WithLogger(env.Log))
	defer view.Close()

	if _, err := view.Load(ctx); err != nil {
		return reportError(errOut, err)
	}
	if _, ok := view.Find(id); !ok {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}

	if err := view.DeleteRecord(ctx, id); err != nil {
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
