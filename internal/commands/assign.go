package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"taskdash/internal/exitcode"
	"taskdash/internal/service"
	"taskdash/internal/tasklist"
)

func init() {
	Register(&AssignCmd{})
}

// AssignCmd creates a task assigned to a team member.
type AssignCmd struct {
	draft tasklist.Draft
}

// SetDraft sets the form input (for testing).
func (c *AssignCmd) SetDraft(d tasklist.Draft) {
	c.draft = d
}

func (c *AssignCmd) Name() string      { return "assign" }
func (c *AssignCmd) Aliases() []string { return []string{"add", "create"} }
func (c *AssignCmd) Synopsis() string  { return "Create and assign a task" }
func (c *AssignCmd) Usage() string {
	return "taskdash assign --name <name> --description <text> --assignee <user-id> --project <project-id> [--priority <priority>] [--status <status>]"
}
func (c *AssignCmd) Access() Access { return ManagerOnly }

func (c *AssignCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.draft.Name, "name", "", "")
	fs.StringVar(&c.draft.Description, "description", "", "")
	fs.StringVar(&c.draft.Description, "d", "", "")
	fs.StringVar(&c.draft.Priority, "priority", "", "")
	fs.StringVar(&c.draft.Priority, "p", "", "")
	fs.StringVar(&c.draft.Status, "status", "", "")
	fs.StringVar(&c.draft.AssignedTo, "assignee", "", "")
	fs.StringVar(&c.draft.AssignedTo, "a", "", "")
	fs.StringVar(&c.draft.ProjectID, "project", "", "")
}

func (c *AssignCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Reject bad input before any request is sent.
	in, err := c.draft.Validate()
	if err != nil {
		return reportError(errOut, err)
	}

	view := tasklist.NewView(env.Service, tasklist.All(), tasklist.WithLogger(env.Log))
	defer view.Close()

	ws, err := tasklist.LoadWorkspace(ctx, env.Service, view)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := checkReferences(ws, in); err != nil {
		return reportError(errOut, err)
	}

	if err := view.SubmitRecord(ctx, c.draft, 0); err != nil {
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// checkReferences verifies that the assignee and project exist in the workspace.
func checkReferences(ws tasklist.Workspace, in service.TaskInput) error {
	found := false
	for _, u := range ws.Users {
		if u.ID == in.AssignedTo {
			found = true
			break
		}
	}
	if !found {
		return &tasklist.ValidationError{Field: "assignedto", Value: strconv.FormatInt(in.AssignedTo, 10), Message: "is not a known user"}
	}

	for _, p := range ws.Projects {
		if p.ID == in.ProjectID {
			return nil
		}
	}
	return &tasklist.ValidationError{Field: "projectid", Value: strconv.FormatInt(in.ProjectID, 10), Message: "is not a known project"}
}
