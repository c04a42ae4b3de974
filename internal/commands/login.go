package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdash/internal/exitcode"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return []string{"signin"} }
func (c *LoginCmd) Synopsis() string  { return "Sign in to the task service" }
func (c *LoginCmd) Usage() string     { return "taskdash login --email <email> [--password <password>]" }
func (c *LoginCmd) Access() Access    { return Public }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.email, "e", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	email := strings.TrimSpace(c.email)
	if email == "" && len(args) == 1 {
		email = strings.TrimSpace(args[0])
	}
	if email == "" {
		fmt.Fprintln(errOut, "error: email required (--email)")
		return exitcode.UserError
	}

	if sess, ok := env.Session.CurrentSession(ctx); ok && strings.EqualFold(sess.Subject, email) {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	password := c.password
	if password == "" {
		var err error
		password, err = readPassword(env.Stdin)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if err := env.Session.Login(ctx, email, password); err != nil {
		return reportError(errOut, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// readPassword reads one line from r.
func readPassword(r io.Reader) (string, error) {
	if r == nil {
		return "", errors.New("password required (--password or stdin)")
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password required (--password or stdin)")
	}
	return line, nil
}
