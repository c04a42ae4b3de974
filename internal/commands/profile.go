package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdash/internal/exitcode"
	"taskdash/internal/output"
	"taskdash/internal/service"
)

func init() {
	Register(&ProfileCmd{})
}

// ProfileCmd shows, updates or deletes the signed-in account.
type ProfileCmd struct {
	update  service.UserUpdate
	delete  bool
	confirm bool
}

// SetUpdate sets the fields to change (for testing).
func (c *ProfileCmd) SetUpdate(u service.UserUpdate) {
	c.update = u
}

// SetDelete requests account deletion (for testing).
func (c *ProfileCmd) SetDelete(del, confirm bool) {
	c.delete = del
	c.confirm = confirm
}

func (c *ProfileCmd) Name() string      { return "profile" }
func (c *ProfileCmd) Aliases() []string { return []string{"me"} }
func (c *ProfileCmd) Synopsis() string  { return "Show or change your account" }
func (c *ProfileCmd) Usage() string {
	return "taskdash profile [--name <name>] [--email <email>] [--contact <contact>] [--password <password>] [--delete --yes]"
}
func (c *ProfileCmd) Access() Access { return Authenticated }

func (c *ProfileCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.update.Name, "name", "", "")
	fs.StringVar(&c.update.Email, "email", "", "")
	fs.StringVar(&c.update.Contact, "contact", "", "")
	fs.StringVar(&c.update.Password, "password", "", "")
	fs.BoolVar(&c.delete, "delete", false, "")
	fs.BoolVar(&c.confirm, "yes", false, "")
	fs.BoolVar(&c.confirm, "y", false, "")
}

func (c *ProfileCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.delete && c.update != (service.UserUpdate{}) {
		fmt.Fprintln(errOut, "error: cannot combine --delete with changes")
		return exitcode.UserError
	}
	if c.delete && !c.confirm {
		fmt.Fprintln(errOut, "error: refusing to delete account without --yes")
		return exitcode.UserError
	}

	me, err := env.Service.CurrentUserID(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	if c.delete {
		if err := env.Service.DeleteUser(ctx, me); err != nil {
			return reportError(errOut, err)
		}
		// The account is gone, so is the session.
		if err := env.Session.Logout(ctx); err != nil {
			fmt.Fprintf(errOut, "error: account deleted but failed to remove session: %v\n", err)
			return exitcode.AuthError
		}
		if !env.Config.Quiet {
			fmt.Fprintln(out, "account deleted")
		}
		return exitcode.Success
	}

	if c.update != (service.UserUpdate{}) {
		if err := env.Service.UpdateUser(ctx, me, c.update); err != nil {
			return reportError(errOut, err)
		}
		if subject, ok := env.Session.CurrentSubject(ctx); ok && c.update.Email != "" && !strings.EqualFold(subject, c.update.Email) {
			env.Log.Warn().Str("email", c.update.Email).Msg("email changed; log in again with the new address")
		}
	}

	user, err := env.Service.GetUser(ctx, me)
	if err != nil {
		return reportError(errOut, err)
	}
	if !env.Config.Quiet || c.update == (service.UserUpdate{}) {
		output.FormatProfile(out, user)
	}
	return exitcode.Success
}
