package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"taskdash/internal/service"
)

// FakeAPI is an in-memory task REST API served over httptest.
// Login mints HS256 tokens; every other route requires a bearer token.
type FakeAPI struct {
	Server *httptest.Server

	// TokenTTL is the lifetime of tokens minted by login.
	TokenTTL time.Duration

	mu        sync.Mutex
	tasks     []service.Task
	users     []fakeAccount
	projects  []service.Project
	nextID    int64
	requests  int
	lastBody  []byte
	lastAuth  string
	failures  map[string]int
	loginBody string
}

type fakeAccount struct {
	service.User
	password string
}

// NewFakeAPI starts a fake API that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &FakeAPI{
		TokenTTL: time.Hour,
		nextID:   1,
		failures: make(map[string]int),
	}

	r := gin.New()
	r.Use(api.record)

	r.POST("/users/auth/login", api.login)
	r.POST("/users/auth/register", api.register(service.RoleMember))
	r.POST("/users/auth/register/pm", api.register(service.RoleManager))

	authed := r.Group("/", api.requireBearer)
	authed.GET("/tasks", api.listTasks)
	authed.POST("/tasks", api.createTask)
	authed.GET("/tasks/:id", api.getTask)
	authed.PATCH("/tasks/:id", api.updateTask)
	authed.DELETE("/tasks/:id", api.deleteTask)
	authed.GET("/tasks/user/:id", api.listTasks)
	authed.PATCH("/tasks/user/:id", api.updateStatus)
	authed.GET("/projects", api.listProjects)
	authed.GET("/users/auth/findAll", api.listUsers)
	authed.GET("/users/auth/mail", api.userByMail)
	authed.GET("/users/auth/current-id", api.currentID)
	authed.GET("/users/auth/findById/:id", api.getUser)
	authed.PATCH("/users/auth/updateSpecific/:id", api.updateUser)
	authed.DELETE("/users/auth/delete/:id", api.deleteUser)

	api.Server = httptest.NewServer(r)
	t.Cleanup(api.Server.Close)
	return api
}

// URL returns the base URL of the fake API.
func (a *FakeAPI) URL() string {
	return a.Server.URL
}

// AddUser adds an account that can log in with password.
func (a *FakeAPI) AddUser(u service.User, password string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users = append(a.users, fakeAccount{User: u, password: password})
}

// AddProject adds a project.
func (a *FakeAPI) AddProject(id int64, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.projects = append(a.projects, service.Project{ID: id, Name: name})
}

// AddTask stores a task and returns its ID. A zero ID is assigned.
func (a *FakeAPI) AddTask(t service.Task) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if t.ID == 0 {
		t.ID = a.nextID
	}
	if t.ID >= a.nextID {
		a.nextID = t.ID + 1
	}
	t.Member, t.Project = nil, nil
	a.tasks = append(a.tasks, t)
	return t.ID
}

// Fail makes every request to route answer with status.
// route is the method and the registered path, e.g. "PATCH /tasks/:id".
func (a *FakeAPI) Fail(route string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[route] = status
}

// Requests returns the number of requests received.
func (a *FakeAPI) Requests() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests
}

// LastBody returns the raw body of the most recent request.
func (a *FakeAPI) LastBody() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]byte(nil), a.lastBody...)
}

// LastAuthorization returns the Authorization header of the most recent request.
func (a *FakeAPI) LastAuthorization() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastAuth
}

// SetLoginResponse replaces the login response body (for malformed-token tests).
func (a *FakeAPI) SetLoginResponse(body string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loginBody = body
}

func (a *FakeAPI) record(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(strings.NewReader(string(body)))

	a.mu.Lock()
	a.requests++
	a.lastBody = body
	a.lastAuth = c.GetHeader("Authorization")
	status, fail := a.failures[c.Request.Method+" "+c.FullPath()]
	a.mu.Unlock()

	if fail {
		c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": status, "message": "injected failure"}})
		return
	}
	c.Next()
}

// requireBearer rejects requests without a well-formed, unexpired token.
func (a *FakeAPI) requireBearer(c *gin.Context) {
	raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if exp, err := claims.GetExpirationTime(); err != nil || exp == nil || !time.Now().Before(exp.Time) {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Next()
}

func (a *FakeAPI) login(c *gin.Context) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, u := range a.users {
		if !strings.EqualFold(u.Email, creds.Email) || u.password != creds.Password {
			continue
		}
		if a.loginBody != "" {
			c.String(http.StatusOK, a.loginBody)
			return
		}
		token, err := signToken(u.Email, u.Role, time.Now().Add(a.TokenTTL))
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, token)
		return
	}
	c.Status(http.StatusUnauthorized)
}

func (a *FakeAPI) joinLocked(t service.Task) service.Task {
	for _, u := range a.users {
		if u.ID == t.AssignedTo {
			m := u.User
			t.Member = &m
			break
		}
	}
	for _, p := range a.projects {
		if p.ID == t.ProjectID {
			pr := p
			t.Project = &pr
			break
		}
	}
	return t
}

func (a *FakeAPI) taskIndexLocked(c *gin.Context) int {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return -1
	}
	for i, t := range a.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (a *FakeAPI) userIndexLocked(c *gin.Context) int {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return -1
	}
	for i, u := range a.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (a *FakeAPI) listTasks(c *gin.Context) {
	var owner int64
	if raw := c.Param("id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		owner = id
	}
	status := service.Status(c.Query("status"))

	a.mu.Lock()
	defer a.mu.Unlock()

	out := []service.Task{}
	for _, t := range a.tasks {
		if owner != 0 && t.AssignedTo != owner {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, a.joinLocked(t))
	}
	c.JSON(http.StatusOK, out)
}

func (a *FakeAPI) getTask(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.taskIndexLocked(c)
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, a.joinLocked(a.tasks[i]))
}

func (a *FakeAPI) createTask(c *gin.Context) {
	var in service.TaskInput
	if err := json.Unmarshal(a.LastBody(), &in); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	t := service.Task{
		ID:          a.nextID,
		Name:        in.Name,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      in.Status,
		AssignedTo:  in.AssignedTo,
		ProjectID:   in.ProjectID,
	}
	a.nextID++
	a.tasks = append(a.tasks, t)
	c.JSON(http.StatusCreated, a.joinLocked(t))
}

func (a *FakeAPI) updateTask(c *gin.Context) {
	var in service.TaskInput
	if err := json.Unmarshal(a.LastBody(), &in); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.taskIndexLocked(c)
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	t := &a.tasks[i]
	t.Name = in.Name
	t.Description = in.Description
	t.Priority = in.Priority
	t.Status = in.Status
	t.AssignedTo = in.AssignedTo
	t.ProjectID = in.ProjectID
	c.JSON(http.StatusOK, a.joinLocked(*t))
}

func (a *FakeAPI) updateStatus(c *gin.Context) {
	var in struct {
		Status service.Status `json:"taskstatus"`
	}
	if err := json.Unmarshal(a.LastBody(), &in); err != nil || in.Status == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.taskIndexLocked(c)
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	a.tasks[i].Status = in.Status
	c.JSON(http.StatusOK, a.joinLocked(a.tasks[i]))
}

func (a *FakeAPI) deleteTask(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.taskIndexLocked(c)
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	a.tasks = append(a.tasks[:i], a.tasks[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (a *FakeAPI) listProjects(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c.JSON(http.StatusOK, append([]service.Project{}, a.projects...))
}

func (a *FakeAPI) listUsers(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]service.User, 0, len(a.users))
	for _, u := range a.users {
		out = append(out, u.User)
	}
	c.JSON(http.StatusOK, out)
}

func (a *FakeAPI) userByMail(c *gin.Context) {
	a.userIDWhere(c, c.Query("email"))
}

// currentID resolves the bearer token's subject without verifying it.
func (a *FakeAPI) currentID(c *gin.Context) {
	raw := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}
	sub, _ := claims.GetSubject()
	a.userIDWhere(c, sub)
}

func (a *FakeAPI) userIDWhere(c *gin.Context, email string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, u := range a.users {
		if strings.EqualFold(u.Email, email) {
			c.JSON(http.StatusOK, u.ID)
			return
		}
	}
	c.Status(http.StatusNotFound)
}

func (a *FakeAPI) getUser(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.userIndexLocked(c)
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, a.users[i].User)
}

func (a *FakeAPI) updateUser(c *gin.Context) {
	var in service.UserUpdate
	if err := json.Unmarshal(a.LastBody(), &in); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.userIndexLocked(c)
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	u := &a.users[i]
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Contact != "" {
		u.Contact = in.Contact
	}
	if in.Password != "" {
		u.password = in.Password
	}
	c.JSON(http.StatusOK, u.User)
}

func (a *FakeAPI) deleteUser(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.userIndexLocked(c)
	if i < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	a.users = append(a.users[:i], a.users[i+1:]...)
	c.Status(http.StatusNoContent)
}

// register answers like the real service: 200 with a message, also for a taken email.
func (a *FakeAPI) register(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in service.NewAccount
		if err := c.ShouldBindJSON(&in); err != nil || in.Email == "" {
			c.Status(http.StatusBadRequest)
			return
		}

		a.mu.Lock()
		defer a.mu.Unlock()

		var next int64 = 1
		for _, u := range a.users {
			if strings.EqualFold(u.Email, in.Email) {
				c.String(http.StatusOK, "User already exists with email id "+in.Email)
				return
			}
			if u.ID >= next {
				next = u.ID + 1
			}
		}
		a.users = append(a.users, fakeAccount{
			User:     service.User{ID: next, Name: in.Name, Email: in.Email, Contact: in.Contact, Role: role},
			password: in.Password,
		})
		if role == service.RoleManager {
			c.String(http.StatusOK, "Project Manager registered successfully")
			return
		}
		c.String(http.StatusOK, "Team Member registered successfully")
	}
}
