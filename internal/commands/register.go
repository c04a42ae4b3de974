package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd creates an account. It does not log in.
type RegisterCmd struct {
	account service.NewAccount
	manager bool
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskdash register --name <name> --email <email> [--contact <contact>] [--password <password>] [--manager]"
}
func (c *RegisterCmd) Access() Access { return Public }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	*c = RegisterCmd{}
	fs.StringVar(&c.account.Name, "name", "", "")
	fs.StringVar(&c.account.Email, "email", "", "")
	fs.StringVar(&c.account.Email, "e", "", "")
	fs.StringVar(&c.account.Contact, "contact", "", "")
	fs.StringVar(&c.account.Password, "password", "", "")
	fs.BoolVar(&c.manager, "manager", false, "")
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	in := c.account
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Contact = strings.TrimSpace(in.Contact)
	if in.Name == "" || in.Email == "" {
		fmt.Fprintln(errOut, "error: name and email required (--name, --email)")
		return exitcode.UserError
	}

	if in.Password == "" {
		var err error
		in.Password, err = readPassword(env.Stdin)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if err := env.Service.Register(ctx, in, c.manager); err != nil {
		if errors.Is(err, service.ErrAccountExists) {
			fmt.Fprintf(errOut, "error: account already exists: %s\n", in.Email)
			return exitcode.UserError
		}
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "ok (run: taskdash login --email %s)\n", in.Email)
	}
	return exitcode.Success
}
