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
)

func init() {
	Register(&TasksCmd{})
	Register(&MineCmd{})
	Register(&StatusViewCmd{name: "pending", status: service.StatusPending, synopsis: "List your pending tasks"})
	Register(&StatusViewCmd{name: "progress", aliases: []string{"inprogress"}, status: service.StatusInProgress, synopsis: "List your tasks in progress"})
	Register(&StatusViewCmd{name: "completed", aliases: []string{"done"}, status: service.StatusCompleted, synopsis: "List your completed tasks"})
}

// TasksCmd lists every task. The status filter is applied by the server.
type TasksCmd struct {
	status string
}

// SetStatus sets the status filter (for testing).
func (c *TasksCmd) SetStatus(status string) {
	c.status = status
}

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return []string{"all"} }
func (c *TasksCmd) Synopsis() string  { return "List all tasks" }
func (c *TasksCmd) Usage() string     { return "taskdash tasks [--status <status>]" }
func (c *TasksCmd) Access() Access    { return ManagerOnly }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *TasksCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	scope := tasklist.All()
	if c.status != "" {
		st, err := service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		scope = tasklist.StatusEquals(st)
	}

	return listView(ctx, env, scope, out, errOut)
}

// MineCmd lists the signed-in user's tasks grouped by status.
// The status filter is applied after the fetch.
type MineCmd struct {
	status string
}

// SetStatus sets the status filter (for testing).
func (c *MineCmd) SetStatus(status string) {
	c.status = status
}

func (c *MineCmd) Name() string      { return "mine" }
func (c *MineCmd) Aliases() []string { return []string{"list", "ls"} }
func (c *MineCmd) Synopsis() string  { return "List your tasks" }
func (c *MineCmd) Usage() string     { return "taskdash mine [--status <status>]" }
func (c *MineCmd) Access() Access    { return Authenticated }

func (c *MineCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.status, "s", "", "")
}

func (c *MineCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	var status service.Status
	if c.status != "" {
		st, err := service.ParseStatus(c.status)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		status = st
	}

	me, err := currentUserID(ctx, env)
	if err != nil {
		return reportError(errOut, err)
	}

	scope := tasklist.OwnedBy(me).WithStatus(status).Using(tasklist.ClientSide)
	if status != "" {
		return listView(ctx, env, scope, out, errOut)
	}

	view := tasklist.NewView(env.Service, scope, tasklist.WithLogger(env.Log))
	defer view.Close()

	tasks, err := view.Load(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	// One section per status, empty sections skipped
	for _, st := range service.Statuses {
		var section []service.Task
		for _, t := range tasks {
			if t.Status == st {
				section = append(section, t)
			}
		}
		if len(section) == 0 {
			continue
		}
		output.FormatSectionHeader(out, string(st))
		for _, t := range section {
			output.FormatTaskIndented(out, t)
		}
	}

	if len(tasks) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

// StatusViewCmd lists the signed-in user's tasks in one status.
type StatusViewCmd struct {
	name     string
	aliases  []string
	status   service.Status
	synopsis string
}

// NewStatusViewCmd creates an unregistered status view (for testing).
func NewStatusViewCmd(name string, status service.Status) *StatusViewCmd {
	return &StatusViewCmd{name: name, status: status}
}

func (c *StatusViewCmd) Name() string      { return c.name }
func (c *StatusViewCmd) Aliases() []string { return c.aliases }
func (c *StatusViewCmd) Synopsis() string  { return c.synopsis }
func (c *StatusViewCmd) Usage() string     { return "taskdash " + c.name }
func (c *StatusViewCmd) Access() Access    { return Authenticated }

func (c *StatusViewCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusViewCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	me, err := currentUserID(ctx, env)
	if err != nil {
		return reportError(errOut, err)
	}
	return listView(ctx, env, tasklist.OwnedBy(me).WithStatus(c.status), out, errOut)
}

// listView loads scope and prints one line per task.
func listView(ctx context.Context, env *Env, scope tasklist.Scope, out, errOut io.Writer) int {
	view := tasklist.NewView(env.Service, scope, tasklist.WithLogger(env.Log))
	defer view.Close()

	tasks, err := view.Load(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	for _, t := range tasks {
		output.FormatTask(out, t)
	}
	if len(tasks) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
