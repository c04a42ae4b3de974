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
	Register(&WhoamiCmd{})
}

// WhoamiCmd prints the current session.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Print the signed-in user and role" }
func (c *WhoamiCmd) Usage() string     { return "taskdash whoami" }
func (c *WhoamiCmd) Access() Access    { return Authenticated }

func (c *WhoamiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	sess, ok := env.Session.CurrentSession(ctx)
	if !ok {
		fmt.Fprintf(errOut, "error: %v\n", errNotLoggedIn)
		return exitcode.AuthError
	}
	output.FormatSession(out, sess, env.Session.Now())
	return exitcode.Success
}
