// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"taskdash/internal/service"
	"taskdash/internal/transport"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
// Listed tasks carry server-joined member and project names, like the real API.
type FakeService struct {
	mu       sync.RWMutex
	tasks    []service.Task
	users    []service.User
	projects []service.Project
	nextID   int64
	calls    int

	// CurrentID is returned by CurrentUserID.
	CurrentID int64

	// LastInput is the payload of the most recent CreateTask or UpdateTask.
	LastInput service.TaskInput

	// LastQuery is the query of the most recent ListTasks.
	LastQuery service.TaskQuery

	// BeforeListTasks, when set, runs at the start of every ListTasks call.
	BeforeListTasks func(ctx context.Context, q service.TaskQuery)

	// Error injection for testing
	ListTasksErr        error
	GetTaskErr          error
	CreateTaskErr       error
	UpdateTaskErr       error
	UpdateTaskStatusErr error
	DeleteTaskErr       error
	ListUsersErr        error
	ListProjectsErr     error
	ResolveUserIDErr    error
	GetUserErr          error
	UpdateUserErr       error
	DeleteUserErr       error
	RegisterErr         error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddUser adds an account.
func (f *FakeService) AddUser(u service.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, u)
}

// AddProject adds a project.
func (f *FakeService) AddProject(id int64, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects = append(f.projects, service.Project{ID: id, Name: name})
}

// AddTask stores a task as-is and returns its ID. A zero ID is assigned.
func (f *FakeService) AddTask(t service.Task) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if t.ID == 0 {
		t.ID = f.nextID
	}
	if t.ID >= f.nextID {
		f.nextID = t.ID + 1
	}
	t.Member, t.Project = nil, nil
	f.tasks = append(f.tasks, t)
	return t.ID
}

// Task returns the stored copy of a task.
func (f *FakeService) Task(id int64) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, t := range f.tasks {
		if t.ID == id {
			return f.joinLocked(t), true
		}
	}
	return service.Task{}, false
}

// Calls returns the number of service calls made so far.
func (f *FakeService) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls
}

func (f *FakeService) count() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *FakeService) joinLocked(t service.Task) service.Task {
	for _, u := range f.users {
		if u.ID == t.AssignedTo {
			m := u
			t.Member = &m
			break
		}
	}
	for _, p := range f.projects {
		if p.ID == t.ProjectID {
			pr := p
			t.Project = &pr
			break
		}
	}
	return t
}

func (f *FakeService) indexLocked(id int64) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, q service.TaskQuery) ([]service.Task, error) {
	f.count()
	if f.BeforeListTasks != nil {
		f.BeforeListTasks(ctx, q)
	}
	f.mu.Lock()
	f.LastQuery = q
	f.mu.Unlock()

	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []service.Task
	for _, t := range f.tasks {
		if q.AssigneeID != 0 && t.AssignedTo != q.AssigneeID {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		out = append(out, f.joinLocked(t))
	}
	return out, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id int64) (service.Task, error) {
	f.count()
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	if t, ok := f.Task(id); ok {
		return t, nil
	}
	// The real API answers an unknown id with 404
	return service.Task{}, &transport.TransportError{
		Method: http.MethodGet,
		Path:   "/tasks/" + strconv.FormatInt(id, 10),
		Status: http.StatusNotFound,
		Err:    ErrNotFound,
	}
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) error {
	f.count()
	f.mu.Lock()
	defer f.mu.Unlock()

	f.LastInput = in
	if f.CreateTaskErr != nil {
		return f.CreateTaskErr
	}

	f.tasks = append(f.tasks, service.Task{
		ID:          f.nextID,
		Name:        in.Name,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		AssignedTo:  in.AssignedTo,
		ProjectID:   in.ProjectID,
	})
	f.nextID++
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, in service.TaskInput) error {
	f.count()
	f.mu.Lock()
	defer f.mu.Unlock()

	f.LastInput = in
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}

	i := f.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	t := &f.tasks[i]
	t.Name = in.Name
	t.Description = in.Description
	t.Priority = in.Priority
	t.Status = in.Status
	t.AssignedTo = in.AssignedTo
	t.ProjectID = in.ProjectID
	return nil
}

// UpdateTaskStatus implements service.Service.
func (f *FakeService) UpdateTaskStatus(ctx context.Context, id int64, status service.Status) error {
	f.count()
	if f.UpdateTaskStatusErr != nil {
		return f.UpdateTaskStatusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	f.tasks[i].Status = status
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.count()
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// ListUsers implements service.Service.
func (f *FakeService) ListUsers(ctx context.Context) ([]service.User, error) {
	f.count()
	if f.ListUsersErr != nil {
		return nil, f.ListUsersErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.User(nil), f.users...), nil
}

// ListProjects implements service.Service.
func (f *FakeService) ListProjects(ctx context.Context) ([]service.Project, error) {
	f.count()
	if f.ListProjectsErr != nil {
		return nil, f.ListProjectsErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Project(nil), f.projects...), nil
}

// ResolveUserID implements service.Service.
func (f *FakeService) ResolveUserID(ctx context.Context, email string) (int64, error) {
	f.count()
	if f.ResolveUserIDErr != nil {
		return 0, f.ResolveUserIDErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u.ID, nil
		}
	}
	return 0, ErrNotFound
}

// CurrentUserID implements service.Service.
func (f *FakeService) CurrentUserID(ctx context.Context) (int64, error) {
	f.count()
	if f.CurrentID == 0 {
		return 0, ErrNotFound
	}
	return f.CurrentID, nil
}

// GetUser implements service.Service.
func (f *FakeService) GetUser(ctx context.Context, id int64) (service.User, error) {
	f.count()
	if f.GetUserErr != nil {
		return service.User{}, f.GetUserErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return service.User{}, ErrNotFound
}

// UpdateUser implements service.Service.
func (f *FakeService) UpdateUser(ctx context.Context, id int64, in service.UserUpdate) error {
	f.count()
	if f.UpdateUserErr != nil {
		return f.UpdateUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.users {
		if f.users[i].ID != id {
			continue
		}
		u := &f.users[i]
		if in.Name != "" {
			u.Name = in.Name
		}
		if in.Email != "" {
			u.Email = in.Email
		}
		if in.Contact != "" {
			u.Contact = in.Contact
		}
		return nil
	}
	return ErrNotFound
}

// DeleteUser implements service.Service.
func (f *FakeService) DeleteUser(ctx context.Context, id int64) error {
	f.count()
	if f.DeleteUserErr != nil {
		return f.DeleteUserErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Register implements service.Service. New accounts get the next free user ID.
func (f *FakeService) Register(ctx context.Context, in service.NewAccount, manager bool) error {
	f.count()
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var next int64 = 1
	for _, u := range f.users {
		if strings.EqualFold(u.Email, in.Email) {
			return service.ErrAccountExists
		}
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	role := service.RoleMember
	if manager {
		role = service.RoleManager
	}
	f.users = append(f.users, service.User{ID: next, Name: in.Name, Email: in.Email, Contact: in.Contact, Role: role})
	return nil
}
