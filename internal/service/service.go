// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All remote API calls go through this interface.
// Commands and views never build HTTP requests directly.
type Service interface {
	// ListTasks returns tasks in server order, scoped by q.
	ListTasks(ctx context.Context, q TaskQuery) ([]Task, error)

	// GetTask returns a single task by ID.
	GetTask(ctx context.Context, id int64) (Task, error)

	// CreateTask creates a new task.
	CreateTask(ctx context.Context, in TaskInput) error

	// UpdateTask partially updates the mutable fields of a task.
	UpdateTask(ctx context.Context, id int64, in TaskInput) error

	// UpdateTaskStatus changes only the status of a task.
	UpdateTaskStatus(ctx context.Context, id int64, status Status) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int64) error

	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]User, error)

	// ListProjects returns all projects.
	ListProjects(ctx context.Context) ([]Project, error)

	// ResolveUserID maps an email address (the session subject) to a user ID.
	ResolveUserID(ctx context.Context, email string) (int64, error)

	// CurrentUserID returns the ID of the account the bearer token belongs to.
	CurrentUserID(ctx context.Context) (int64, error)

	// GetUser returns a user by ID.
	GetUser(ctx context.Context, id int64) (User, error)

	// UpdateUser partially updates an account.
	UpdateUser(ctx context.Context, id int64, in UserUpdate) error

	// DeleteUser deletes an account.
	DeleteUser(ctx context.Context, id int64) error

	// Register creates an account without a session. manager selects the
	// project manager role; otherwise the account is a team member.
	Register(ctx context.Context, in NewAccount, manager bool) error
}
