package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"taskdash/internal/exitcode"
	"taskdash/internal/session"
	"taskdash/internal/tasklist"
	"taskdash/internal/transport"
)

// errNotLoggedIn is returned when the session disappears mid-command.
var errNotLoggedIn = errors.New("not logged in (run: taskdash login)")

// reportError prints err and maps it onto an exit code.
func reportError(errOut io.Writer, err error) int {
	var verr *tasklist.ValidationError
	var aerr *session.AuthError
	var terr *transport.TransportError

	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(errOut, "error: %v\n", verr)
		return exitcode.UserError
	case errors.Is(err, errNotLoggedIn):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.AuthError
	case errors.As(err, &aerr):
		fmt.Fprintf(errOut, "error: %v\n", aerr)
		return exitcode.AuthError
	case errors.As(err, &terr) && (terr.Status == http.StatusUnauthorized || terr.Status == http.StatusForbidden):
		fmt.Fprintf(errOut, "error: %v\n", terr)
		return exitcode.AuthError
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

// currentUserID resolves the user ID behind the session subject.
func currentUserID(ctx context.Context, env *Env) (int64, error) {
	subject, ok := env.Session.CurrentSubject(ctx)
	if !ok {
		return 0, errNotLoggedIn
	}
	id, err := env.Service.ResolveUserID(ctx, subject)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve user %s: %w", subject, err)
	}
	return id, nil
}
