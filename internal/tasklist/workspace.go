package tasklist

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"taskdash/internal/service"
)

// Workspace is everything a task form needs: the view's tasks and the
// collaborators a task can point at.
type Workspace struct {
	Tasks    []service.Task
	Users    []service.User
	Projects []service.Project
}

// LoadWorkspace loads the view, the users and the projects concurrently.
// It succeeds only when all three do; otherwise the view is left in LoadError.
func LoadWorkspace(ctx context.Context, svc service.Service, view *View) (Workspace, error) {
	var ws Workspace
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tasks, err := view.Load(gctx)
		ws.Tasks = tasks
		return err
	})
	g.Go(func() error {
		users, err := svc.ListUsers(gctx)
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}
		ws.Users = users
		return nil
	})
	g.Go(func() error {
		projects, err := svc.ListProjects(gctx)
		if err != nil {
			return fmt.Errorf("failed to load projects: %w", err)
		}
		ws.Projects = projects
		return nil
	})

	if err := g.Wait(); err != nil {
		view.fail(err)
		return Workspace{}, err
	}
	return ws, nil
}
