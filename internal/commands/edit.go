package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/tasklist"
)

func init() {
	Register(&EditCmd{})
}

// optString is a string flag that remembers whether it was given.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *optString) apply(dst *string) bool {
	if o.set {
		*dst = o.value
	}
	return o.set
}

// EditCmd updates fields of an existing task.
type EditCmd struct {
	name        optString
	description optString
	priority    optString
	status      optString
	assignee    optString
	project     optString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "taskdash edit [--name ..] [--description ..] [--priority ..] [--status ..] [--assignee ..] [--project ..] <id>"
}
func (c *EditCmd) Access() Access { return ManagerOnly }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = EditCmd{}
	fs.Var(&c.name, "name", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.assignee, "assignee", "")
	fs.Var(&c.assignee, "a", "")
	fs.Var(&c.project, "project", "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
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

	ws, err := tasklist.LoadWorkspace(ctx, env.Service, view)
	if err != nil {
		return reportError(errOut, err)
	}

	if _, ok := view.Find(id); !ok {
		fmt.Fprintf(errOut, "error: task not found: %d\n", id)
		return exitcode.UserError
	}

	// The form starts from the server's current record; only given flags change it.
	task, err := env.Service.GetTask(ctx, id)
	if err != nil {
		return reportError(errOut, err)
	}
	draft := tasklist.DraftFromTask(task)
	changed := false
	changed = c.name.apply(&draft.Name) || changed
	changed = c.description.apply(&draft.Description) || changed
	changed = c.priority.apply(&draft.Priority) || changed
	changed = c.status.apply(&draft.Status) || changed
	changed = c.assignee.apply(&draft.AssignedTo) || changed
	changed = c.project.apply(&draft.ProjectID) || changed
	if !changed {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	in, err := draft.Validate()
	if err != nil {
		return reportError(errOut, err)
	}
	if err := checkReferences(ws, in); err != nil {
		return reportError(errOut, err)
	}

	if err := view.SubmitRecord(ctx, draft, id); err != nil {
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		if updated, ok := view.Find(id); ok {
			output.FormatTask(out, updated)
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
