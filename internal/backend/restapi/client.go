// Package restapi implements the service.Service interface over the task service REST API.
package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"taskdash/internal/service"
	"taskdash/internal/transport"
)

const (
	loginPath     = "/users/auth/login"
	registerPath  = "/users/auth/register"
	registerPM    = "/users/auth/register/pm"
	usersPath     = "/users/auth/findAll"
	userByMail    = "/users/auth/mail"
	userByIDPath  = "/users/auth/findById/"
	userPatchPath = "/users/auth/updateSpecific/"
	userDelPath   = "/users/auth/delete/"
	currentIDPath = "/users/auth/current-id"

	tasksPath     = "/tasks"
	userTasksPath = "/tasks/user/"
	projectsPath  = "/projects"
)

// Client implements service.Service and session.Authenticator.
type Client struct {
	http *transport.Client
}

// New creates a REST API client over an HTTP transport.
func New(tc *transport.Client) *Client {
	return &Client{http: tc}
}

// Authenticate exchanges credentials for a bearer token.
// The server answers with a bare token, a JSON string, or {"token": "..."}.
func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	resp, err := c.http.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   loginPath,
		Body:   map[string]string{"email": email, "password": password},
		Public: true,
	})
	if err != nil {
		return "", err
	}
	token := parseToken(resp.Data)
	if token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return token, nil
}

// parseToken extracts the token from the supported login response shapes.
func parseToken(data []byte) string {
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return ""
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal([]byte(raw), &s); err == nil {
			return strings.TrimSpace(s)
		}
	case '{':
		var obj struct {
			Token       string `json:"token"`
			AccessToken string `json:"accessToken"`
		}
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			if obj.Token != "" {
				return obj.Token
			}
			return obj.AccessToken
		}
		return ""
	}
	return raw
}

// ListTasks returns tasks in server order. An assignee scopes the request path;
// a status travels as a query parameter.
func (c *Client) ListTasks(ctx context.Context, q service.TaskQuery) ([]service.Task, error) {
	path := tasksPath
	if q.AssigneeID != 0 {
		path = userTasksPath + strconv.FormatInt(q.AssigneeID, 10)
	}

	var query url.Values
	if q.Status != "" {
		query = url.Values{"status": {string(q.Status)}}
	}

	resp, err := c.http.Do(ctx, transport.Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return nil, err
	}

	var tasks []service.Task
	if err := resp.Decode(&tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a single task by ID.
func (c *Client) GetTask(ctx context.Context, id int64) (service.Task, error) {
	resp, err := c.http.Get(ctx, taskPath(id))
	if err != nil {
		return service.Task{}, err
	}

	var task service.Task
	if err := resp.Decode(&task); err != nil {
		return service.Task{}, err
	}
	return task, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) error {
	_, err := c.http.Post(ctx, tasksPath, in)
	return err
}

// UpdateTask partially updates the mutable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, in service.TaskInput) error {
	_, err := c.http.Patch(ctx, taskPath(id), in)
	return err
}

// UpdateTaskStatus changes only the status of a task.
func (c *Client) UpdateTaskStatus(ctx context.Context, id int64, status service.Status) error {
	body := map[string]service.Status{"taskstatus": status}
	_, err := c.http.Patch(ctx, userTasksPath+strconv.FormatInt(id, 10), body)
	return err
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	_, err := c.http.Delete(ctx, taskPath(id))
	return err
}

// ListUsers returns all users.
func (c *Client) ListUsers(ctx context.Context) ([]service.User, error) {
	resp, err := c.http.Get(ctx, usersPath)
	if err != nil {
		return nil, err
	}

	var users []service.User
	if err := resp.Decode(&users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListProjects returns all projects.
func (c *Client) ListProjects(ctx context.Context) ([]service.Project, error) {
	resp, err := c.http.Get(ctx, projectsPath)
	if err != nil {
		return nil, err
	}

	var projects []service.Project
	if err := resp.Decode(&projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ResolveUserID maps an email address to a user ID.
func (c *Client) ResolveUserID(ctx context.Context, email string) (int64, error) {
	resp, err := c.http.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   userByMail,
		Query:  url.Values{"email": {email}},
	})
	if err != nil {
		return 0, err
	}
	return decodeID(resp)
}

// CurrentUserID asks the server which user the bearer token belongs to.
func (c *Client) CurrentUserID(ctx context.Context) (int64, error) {
	resp, err := c.http.Get(ctx, currentIDPath)
	if err != nil {
		return 0, err
	}
	return decodeID(resp)
}

// GetUser returns a user by ID.
func (c *Client) GetUser(ctx context.Context, id int64) (service.User, error) {
	resp, err := c.http.Get(ctx, userByIDPath+strconv.FormatInt(id, 10))
	if err != nil {
		return service.User{}, err
	}

	var user service.User
	if err := resp.Decode(&user); err != nil {
		return service.User{}, err
	}
	return user, nil
}

// UpdateUser partially updates an account.
func (c *Client) UpdateUser(ctx context.Context, id int64, in service.UserUpdate) error {
	_, err := c.http.Patch(ctx, userPatchPath+strconv.FormatInt(id, 10), in)
	return err
}

// DeleteUser deletes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	_, err := c.http.Delete(ctx, userDelPath+strconv.FormatInt(id, 10))
	return err
}

// Register creates an account. The server answers 200 with a message in both
// the created and the already-taken case, so the message decides.
func (c *Client) Register(ctx context.Context, in service.NewAccount, manager bool) error {
	path := registerPath
	if manager {
		path = registerPM
	}
	resp, err := c.http.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   in,
		Public: true,
	})
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(string(resp.Data)), "already exists") {
		return fmt.Errorf("%w: %s", service.ErrAccountExists, in.Email)
	}
	return nil
}

func taskPath(id int64) string {
	return tasksPath + "/" + strconv.FormatInt(id, 10)
}

// decodeID reads a bare numeric response body.
func decodeID(resp *transport.Response) (int64, error) {
	raw := strings.Trim(strings.TrimSpace(string(resp.Data)), `"`)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id in response: %q", raw)
	}
	return id, nil
}
