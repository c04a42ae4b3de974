package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdash/internal/exitcode"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the client version, plus the resolved backend with --debug.
type VersionCmd struct{}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "taskdash version" }
func (c *VersionCmd) Access() Access    { return Public }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "taskdash %s\n", Version)
	if env != nil && env.Config != nil && env.Config.Debug {
		fmt.Fprintf(out, "api:     %s\nsession: %s\n", env.Config.APIURL, env.Config.SessionBackend)
	}
	return exitcode.Success
}
