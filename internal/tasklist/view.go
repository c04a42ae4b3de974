// Package tasklist keeps one screen's task collection in sync with the server.
//
// A View owns an ordered collection of tasks selected by a Scope. Mutations go
// to the server first; a status change patches the local copy only after the
// server accepts it, while creates, edits and deletes invalidate the view and
// refetch it. Responses that arrive after the view was closed, or after a newer
// load started, are discarded.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"taskdash/internal/service"
)

// State is the lifecycle state of a View.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	LoadError
	Mutating
	MutateError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadError:
		return "load error"
	case Mutating:
		return "mutating"
	case MutateError:
		return "mutate error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrClosed is returned for responses that arrive after Close.
	ErrClosed = errors.New("view closed")

	// ErrSuperseded is returned by a load that finished after a newer one started.
	ErrSuperseded = errors.New("load superseded by a newer load")

	// ErrNotReady is returned when a mutation is attempted before a successful load.
	ErrNotReady = errors.New("tasks are not loaded")

	// ErrBusy is returned when a mutation is attempted while another request is in flight.
	ErrBusy = errors.New("another request is in progress")
)

// View is the task collection of one screen.
type View struct {
	svc   service.Service
	scope Scope
	log   zerolog.Logger

	mu     sync.Mutex
	state  State
	tasks  []service.Task
	err    error
	gen    uint64
	closed bool
}

// Option configures a View.
type Option func(*View)

// WithLogger sets the logger used for failed loads and mutations.
func WithLogger(log zerolog.Logger) Option {
	return func(v *View) { v.log = log }
}

// NewView creates an idle view over svc.
func NewView(svc service.Service, scope Scope, opts ...Option) *View {
	v := &View{
		svc:   svc,
		scope: scope,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Scope returns the view's scope.
func (v *View) Scope() Scope {
	return v.scope
}

// State returns the current state.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Err returns the error of the last failed load or mutation, if the view is in an error state.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Tasks returns a copy of the collection in server order.
func (v *View) Tasks() []service.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]service.Task(nil), v.tasks...)
}

// Find returns the task with id if it is in the view.
func (v *View) Find(id int64) (service.Task, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i := v.indexLocked(id); i >= 0 {
		return v.tasks[i], true
	}
	return service.Task{}, false
}

// Close detaches the view from its screen. Later responses are discarded.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

// Load fetches the scoped collection. On failure the last loaded collection
// is kept and the view moves to LoadError.
func (v *View) Load(ctx context.Context) ([]service.Task, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, ErrClosed
	}
	v.gen++
	gen := v.gen
	v.state = Loading
	v.mu.Unlock()

	tasks, err := v.svc.ListTasks(ctx, v.scope.Query())

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return nil, ErrClosed
	}
	if gen != v.gen {
		return nil, ErrSuperseded
	}
	if err != nil {
		v.state = LoadError
		v.err = err
		v.log.Warn().Err(err).Str("scope", v.scope.String()).Msg("failed to load tasks")
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	filtered := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if v.scope.Matches(t) {
			filtered = append(filtered, t)
		}
	}
	v.tasks = filtered
	v.state = Loaded
	v.err = nil
	return append([]service.Task(nil), filtered...), nil
}

// fail moves the view to LoadError after a load it took part in failed
// elsewhere. The collection is kept, but mutations are refused until the next
// successful Load.
func (v *View) fail(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.state = LoadError
	v.err = err
}

// Invalidate marks the collection stale and refetches it.
func (v *View) Invalidate(ctx context.Context) error {
	_, err := v.Load(ctx)
	return err
}

// ApplyStatusChange sets the status of a task in the view. The local copy is
// patched only after the server accepts the change, and the task leaves the
// view when it no longer matches the scope.
func (v *View) ApplyStatusChange(ctx context.Context, id int64, status service.Status) error {
	st, err := service.ParseStatus(string(status))
	if err != nil {
		return &ValidationError{Field: "taskstatus", Value: string(status), Message: "must be one of Pending, In Progress, Completed"}
	}

	v.mu.Lock()
	if err := v.readyLocked(); err != nil {
		v.mu.Unlock()
		return err
	}
	if v.indexLocked(id) < 0 {
		v.mu.Unlock()
		return &ValidationError{Field: "taskid", Value: fmt.Sprint(id), Message: "is not in this view"}
	}
	v.state = Mutating
	v.mu.Unlock()

	err = v.svc.UpdateTaskStatus(ctx, id, st)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return ErrClosed
	}
	if err != nil {
		return v.failMutationLocked("update status", err)
	}

	if i := v.indexLocked(id); i >= 0 {
		v.tasks[i].Status = st
		if !v.scope.Matches(v.tasks[i]) {
			v.tasks = append(v.tasks[:i:i], v.tasks[i+1:]...)
		}
	}
	v.state = Loaded
	v.err = nil
	return nil
}

// SubmitRecord validates d and creates a task, or updates task existingID when
// it is non-zero. On success the view is refetched from the server.
func (v *View) SubmitRecord(ctx context.Context, d Draft, existingID int64) error {
	in, err := d.Validate()
	if err != nil {
		return err
	}

	return v.mutate(ctx, "submit task", func(ctx context.Context) error {
		if existingID != 0 {
			return v.svc.UpdateTask(ctx, existingID, in)
		}
		return v.svc.CreateTask(ctx, in)
	})
}

// DeleteRecord deletes a task and refetches the view.
func (v *View) DeleteRecord(ctx context.Context, id int64) error {
	return v.mutate(ctx, "delete task", func(ctx context.Context) error {
		return v.svc.DeleteTask(ctx, id)
	})
}

// mutate runs call and, on success, invalidates the view. A failed refetch
// after an accepted call is reported as such, not as a failed mutation.
func (v *View) mutate(ctx context.Context, op string, call func(context.Context) error) error {
	v.mu.Lock()
	if err := v.readyLocked(); err != nil {
		v.mu.Unlock()
		return err
	}
	v.state = Mutating
	v.mu.Unlock()

	err := call(ctx)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		err = v.failMutationLocked(op, err)
		v.mu.Unlock()
		return err
	}
	v.mu.Unlock()

	if err := v.Invalidate(ctx); err != nil {
		return fmt.Errorf("%s applied; refresh failed: %w", op, err)
	}
	return nil
}

// readyLocked reports whether a mutation may start.
func (v *View) readyLocked() error {
	if v.closed {
		return ErrClosed
	}
	switch v.state {
	case Loaded, MutateError:
		return nil
	case Loading, Mutating:
		return ErrBusy
	default:
		return ErrNotReady
	}
}

func (v *View) failMutationLocked(op string, err error) error {
	v.state = MutateError
	v.err = err
	v.log.Warn().Err(err).Str("scope", v.scope.String()).Msgf("failed to %s", op)
	return fmt.Errorf("failed to %s: %w", op, err)
}

func (v *View) indexLocked(id int64) int {
	for i, t := range v.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
