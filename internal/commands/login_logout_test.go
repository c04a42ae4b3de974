package commands_test

import (
	"context"
	"strings"
	"testing"

	"taskdash/internal/commands"
	"taskdash/internal/exitcode"
	"taskdash/internal/service"
)

func TestLoginCommand_Success(t *testing.T) {
	f := newFixture(t, "", "")
	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, f.env, "--email", "ada@x.com", "--password", "pw")

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	subject, ok := f.env.Session.CurrentSubject(context.Background())
	if !ok || subject != "ada@x.com" {
		t.Errorf("expected session for ada@x.com, got %q (%v)", subject, ok)
	}
}

func TestLoginCommand_PasswordFromStdin(t *testing.T) {
	f := newFixture(t, "", "")
	f.env.Stdin = strings.NewReader("pw\n")

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, f.env, "--email", "ada@x.com")
	expectCode(t, code, exitcode.Success, stderr)
	if !f.env.Session.HasRole(context.Background(), service.RoleMember) {
		t.Error("expected member session after login")
	}
}

func TestLoginCommand_InvalidCredentials(t *testing.T) {
	f := newFixture(t, "", "")
	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, f.env, "--email", "ada@x.com", "--password", "nope")

	expectCode(t, code, exitcode.AuthError, stderr)
	if stderr != "error: invalid email or password\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if _, err := f.store.Get(context.Background()); err == nil {
		t.Error("store should stay empty after a failed login")
	}
}

func TestLoginCommand_MissingInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no email", nil, "error: email required (--email)\n"},
		{"no password", []string{"--email", "ada@x.com"}, "error: password required (--password or stdin)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", "")
			_, stderr, code := runCommand(t, &commands.LoginCmd{}, f.env, tt.args...)

			expectCode(t, code, exitcode.UserError, stderr)
			if stderr != tt.want {
				t.Errorf("expected %q, got %q", tt.want, stderr)
			}
			if f.auth.calls != 0 {
				t.Errorf("expected no authentication attempt, got %d", f.auth.calls)
			}
		})
	}
}

func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	f := newFixture(t, "ada@x.com", service.RoleMember)
	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, f.env, "--email", "ADA@x.com", "--password", "pw")

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "already logged in\n" {
		t.Errorf("expected 'already logged in', got %q", stdout)
	}
	if f.auth.calls != 0 {
		t.Errorf("expected no authentication attempt, got %d", f.auth.calls)
	}
}

func TestLogoutCommand(t *testing.T) {
	f := newFixture(t, "ada@x.com", service.RoleMember)
	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, f.env)

	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if _, ok := f.env.Session.CurrentSession(context.Background()); ok {
		t.Error("session should be gone after logout")
	}

	// Logging out twice is the same as once.
	stdout, stderr, code = runCommand(t, &commands.LogoutCmd{}, f.env)
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in', got %q", stdout)
	}
}

func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	f := newFixture(t, "", "")
	f.env.Config.Quiet = true

	stdout, stderr, code := runCommand(t, &commands.LogoutCmd{}, f.env)
	expectCode(t, code, exitcode.Success, stderr)
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
}
