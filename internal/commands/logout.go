package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/exitcode"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return []string{"signout"} }
func (c *LogoutCmd) Synopsis() string  { return "Remove the stored session" }
func (c *LogoutCmd) Usage() string     { return "taskdash logout [common flags]" }
func (c *LogoutCmd) Access() Access    { return Public }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	_, hadSession := env.Session.CurrentSession(ctx)

	// An expired or malformed token is still cleared.
	if err := env.Session.Logout(ctx); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove session: %v\n", err)
		return exitcode.AuthError
	}

	if !env.Config.Quiet {
		if hadSession {
			fmt.Fprintln(out, "ok")
		} else {
			fmt.Fprintln(out, "not logged in")
		}
	}
	return exitcode.Success
}
