package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdash/internal/exitcode"
	"taskdash/internal/service"
	"taskdash/internal/tasklist"
)

func init() {
	Register(&StatusCmd{})
}

// views maps --view names onto the status a screen shows. "all" has none.
var views = map[string]service.Status{
	"all":       "",
	"pending":   service.StatusPending,
	"progress":  service.StatusInProgress,
	"completed": service.StatusCompleted,
}

// StatusCmd changes the status of one of the signed-in user's tasks.
type StatusCmd struct {
	view string
}

// SetView sets the screen the change is made from (for testing).
func (c *StatusCmd) SetView(view string) {
	c.view = view
}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return []string{"mv"} }
func (c *StatusCmd) Synopsis() string  { return "Change the status of your task" }
func (c *StatusCmd) Usage() string {
	return "taskdash status [--view all|pending|progress|completed] <id> <status>"
}
func (c *StatusCmd) Access() Access { return Authenticated }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.view, "view", "all", "")
}

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: task id and status required")
		return exitcode.UserError
	}
	id, err := tasklist.ParseID("taskid", args[0])
	if err != nil {
		return reportError(errOut, err)
	}

	viewName := strings.ToLower(c.view)
	if viewName == "" {
		viewName = "all"
	}
	viewStatus, ok := views[viewName]
	if !ok {
		fmt.Fprintf(errOut, "error: unknown view: %s\n", c.view)
		return exitcode.UserError
	}

	// "In Progress" may arrive as two arguments.
	status := service.Status(strings.Join(args[1:], " "))

	me, err := currentUserID(ctx, env)
	if err != nil {
		return reportError(errOut, err)
	}

	view := tasklist.NewView(env.Service, tasklist.OwnedBy(me).WithStatus(viewStatus), tasklist.WithLogger(env.Log))
	defer view.Close()

	if _, err := view.Load(ctx); err != nil {
		return reportError(errOut, err)
	}
	if err := view.ApplyStatusChange(ctx, id, status); err != nil {
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		if _, still := view.Find(id); still || viewName == "all" {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintf(out, "ok (task %d left the %s view)\n", id, viewName)
		}
	}
	return exitcode.Success
}
