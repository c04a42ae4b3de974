package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/exitcode"
	"taskdash/internal/output"
)

func init() {
	Register(&UsersCmd{})
	Register(&ProjectsCmd{})
}

// UsersCmd lists the accounts tasks can be assigned to.
type UsersCmd struct{}

func (c *UsersCmd) Name() string      { return "users" }
func (c *UsersCmd) Aliases() []string { return []string{"members"} }
func (c *UsersCmd) Synopsis() string  { return "Print all users" }
func (c *UsersCmd) Usage() string     { return "taskdash users [common flags]" }
func (c *UsersCmd) Access() Access    { return ManagerOnly }

func (c *UsersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UsersCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	users, err := env.Service.ListUsers(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	for _, u := range users {
		output.FormatUser(out, u)
	}
	if len(users) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no users found")
	}
	return exitcode.Success
}

// ProjectsCmd lists the projects tasks can belong to.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string      { return "projects" }
func (c *ProjectsCmd) Aliases() []string { return nil }
func (c *ProjectsCmd) Synopsis() string  { return "Print all projects" }
func (c *ProjectsCmd) Usage() string     { return "taskdash projects [common flags]" }
func (c *ProjectsCmd) Access() Access    { return ManagerOnly }

func (c *ProjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectsCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	projects, err := env.Service.ListProjects(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	for _, p := range projects {
		output.FormatProject(out, p)
	}
	if len(projects) == 0 && !env.Config.Quiet {
		fmt.Fprintln(out, "no projects found")
	}
	return exitcode.Success
}
