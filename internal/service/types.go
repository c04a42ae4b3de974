// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAccountExists is returned by Register when the email is already taken.
var ErrAccountExists = errors.New("account already exists")

// Priority is a task priority as the server spells it.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every valid priority in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Status is a task status as the server spells it.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every valid status in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Roles carried in the session token.
const (
	RoleManager = "PROJECTMANAGER"
	RoleMember  = "TEAMMEMBER"
)

// ParsePriority matches s case-insensitively against the known priorities.
func ParsePriority(s string) (Priority, error) {
	s = strings.TrimSpace(s)
	for _, p := range Priorities {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority: %q", s)
}

// ParseStatus matches s case-insensitively against the known statuses.
// Hyphen and underscore spellings ("in-progress") are accepted.
func ParseStatus(s string) (Status, error) {
	norm := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(s))
	for _, st := range Statuses {
		if strings.EqualFold(norm, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status: %q", s)
}

// Task represents a single task record owned by the server.
type Task struct {
	ID          int64    `json:"taskid"`
	Name        string   `json:"taskname"`
	Description string   `json:"taskdescription"`
	Priority    Priority `json:"taskpriority"`
	Status      Status   `json:"taskstatus"`
	AssignedTo  int64    `json:"assignedto"`
	ProjectID   int64    `json:"projectid"`

	// Joined by the server; never synthesized on the client.
	Member  *User    `json:"member,omitempty"`
	Project *Project `json:"project,omitempty"`
}

// AssigneeName returns the server-joined member name, or "" when absent.
func (t Task) AssigneeName() string {
	if t.Member == nil {
		return ""
	}
	return t.Member.Name
}

// ProjectName returns the server-joined project name, or "" when absent.
func (t Task) ProjectName() string {
	if t.Project == nil {
		return ""
	}
	return t.Project.Name
}

// TaskInput is the create/update payload: exactly the mutable task fields.
type TaskInput struct {
	Name        string   `json:"taskname"`
	Description string   `json:"taskdescription"`
	Priority    Priority `json:"taskpriority"`
	Status      Status   `json:"taskstatus"`
	AssignedTo  int64    `json:"assignedto"`
	ProjectID   int64    `json:"projectid"`
}

// TaskQuery scopes a task listing on the server side.
// Zero values mean "no constraint".
type TaskQuery struct {
	AssigneeID int64
	Status     Status
}

// User represents an account known to the server.
type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact,omitempty"`
	Role    string `json:"role,omitempty"`
}

// UserUpdate is a partial account update. Empty fields are omitted.
type UserUpdate struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Password string `json:"password,omitempty"`
}

// NewAccount is a registration request.
type NewAccount struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Contact  string `json:"contact,omitempty"`
}

// Project represents a project tasks can belong to.
type Project struct {
	ID   int64  `json:"projectid"`
	Name string `json:"projectname"`
}
