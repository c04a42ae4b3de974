package tasklist_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"taskdash/internal/service"
	"taskdash/internal/tasklist"
	"taskdash/internal/testutil"
)

var errBackend = errors.New("backend unavailable")

func newFake() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddUser(service.User{ID: 3, Name: "Ada", Email: "ada@x.com"})
	svc.AddUser(service.User{ID: 4, Name: "Bob", Email: "bob@x.com"})
	svc.AddProject(5, "Apollo")
	svc.AddTask(service.Task{ID: 7, Name: "Draft", Description: "d", Priority: service.PriorityHigh, Status: service.StatusInProgress, AssignedTo: 3, ProjectID: 5})
	svc.AddTask(service.Task{ID: 8, Name: "Review", Description: "r", Priority: service.PriorityLow, Status: service.StatusPending, AssignedTo: 3, ProjectID: 5})
	svc.AddTask(service.Task{ID: 9, Name: "Ship", Description: "s", Priority: service.PriorityMedium, Status: service.StatusInProgress, AssignedTo: 4, ProjectID: 5})
	return svc
}

func ids(tasks []service.Task) []int64 {
	var out []int64
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func loaded(t *testing.T, svc service.Service, scope tasklist.Scope) *tasklist.View {
	t.Helper()
	v := tasklist.NewView(svc, scope)
	if _, err := v.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return v
}

func TestLoad_States(t *testing.T) {
	svc := newFake()
	v := tasklist.NewView(svc, tasklist.All())

	if v.State() != tasklist.Idle {
		t.Fatalf("expected idle, got %s", v.State())
	}

	tasks, err := v.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.State() != tasklist.Loaded {
		t.Errorf("expected loaded, got %s", v.State())
	}
	if got := ids(tasks); !reflect.DeepEqual(got, []int64{7, 8, 9}) {
		t.Errorf("expected server order [7 8 9], got %v", got)
	}
	if tasks[0].AssigneeName() != "Ada" {
		t.Errorf("expected server-joined assignee name, got %q", tasks[0].AssigneeName())
	}
}

func TestLoad_ScopeStrategies(t *testing.T) {
	tests := []struct {
		name      string
		scope     tasklist.Scope
		wantIDs   []int64
		wantQuery service.TaskQuery
	}{
		{
			name:      "server-side status",
			scope:     tasklist.StatusEquals(service.StatusInProgress),
			wantIDs:   []int64{7, 9},
			wantQuery: service.TaskQuery{Status: service.StatusInProgress},
		},
		{
			name:      "client-side status",
			scope:     tasklist.StatusEquals(service.StatusInProgress).Using(tasklist.ClientSide),
			wantIDs:   []int64{7, 9},
			wantQuery: service.TaskQuery{},
		},
		{
			name:      "owner",
			scope:     tasklist.OwnedBy(3),
			wantIDs:   []int64{7, 8},
			wantQuery: service.TaskQuery{AssigneeID: 3},
		},
		{
			name:      "owner with client-side status",
			scope:     tasklist.OwnedBy(3).WithStatus(service.StatusPending).Using(tasklist.ClientSide),
			wantIDs:   []int64{8},
			wantQuery: service.TaskQuery{AssigneeID: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFake()
			v := loaded(t, svc, tt.scope)

			if got := ids(v.Tasks()); !reflect.DeepEqual(got, tt.wantIDs) {
				t.Errorf("expected %v, got %v", tt.wantIDs, got)
			}
			if svc.LastQuery != tt.wantQuery {
				t.Errorf("expected query %+v, got %+v", tt.wantQuery, svc.LastQuery)
			}
		})
	}
}

func TestLoad_FailureKeepsLastKnownGood(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())
	before := v.Tasks()

	svc.ListTasksErr = errBackend
	if _, err := v.Load(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}

	if v.State() != tasklist.LoadError {
		t.Errorf("expected load error state, got %s", v.State())
	}
	if !errors.Is(v.Err(), errBackend) {
		t.Errorf("expected Err to report backend error, got %v", v.Err())
	}
	if !reflect.DeepEqual(v.Tasks(), before) {
		t.Errorf("expected last loaded collection to be kept")
	}
}

func TestApplyStatusChange_PatchesLocalCopy(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())
	calls := svc.Calls()

	if err := v.ApplyStatusChange(context.Background(), 8, service.StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	task, ok := v.Find(8)
	if !ok || task.Status != service.StatusCompleted {
		t.Errorf("expected task 8 completed in view, got %+v", task)
	}
	if task.AssigneeName() != "Ada" {
		t.Errorf("expected joined names to survive the patch")
	}
	if svc.Calls() != calls+1 {
		t.Errorf("expected exactly one call (no refetch), got %d", svc.Calls()-calls)
	}
	if v.State() != tasklist.Loaded {
		t.Errorf("expected loaded, got %s", v.State())
	}
}

func TestApplyStatusChange_LeavesScope(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.StatusEquals(service.StatusInProgress))

	if err := v.ApplyStatusChange(context.Background(), 7, service.StatusCompleted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.Find(7); ok {
		t.Error("expected task 7 to leave the In Progress view")
	}
	if got := ids(v.Tasks()); !reflect.DeepEqual(got, []int64{9}) {
		t.Errorf("expected [9], got %v", got)
	}
	if task, _ := svc.Task(7); task.Status != service.StatusCompleted {
		t.Errorf("expected server copy completed, got %q", task.Status)
	}
}

func TestApplyStatusChange_FailureLeavesCollection(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())
	before := v.Tasks()

	svc.UpdateTaskStatusErr = errBackend
	err := v.ApplyStatusChange(context.Background(), 7, service.StatusCompleted)
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if !reflect.DeepEqual(v.Tasks(), before) {
		t.Errorf("collection changed after failed mutation")
	}
	if v.State() != tasklist.MutateError {
		t.Errorf("expected mutate error, got %s", v.State())
	}

	// A mutate error keeps the collection usable.
	svc.UpdateTaskStatusErr = nil
	if err := v.ApplyStatusChange(context.Background(), 7, service.StatusCompleted); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if v.State() != tasklist.Loaded || v.Err() != nil {
		t.Errorf("expected loaded without error, got %s / %v", v.State(), v.Err())
	}
}

func TestApplyStatusChange_Rejected(t *testing.T) {
	svc := newFake()

	idle := tasklist.NewView(svc, tasklist.All())
	if err := idle.ApplyStatusChange(context.Background(), 7, service.StatusCompleted); !errors.Is(err, tasklist.ErrNotReady) {
		t.Errorf("expected ErrNotReady before load, got %v", err)
	}

	v := loaded(t, svc, tasklist.OwnedBy(3))
	calls := svc.Calls()

	var verr *tasklist.ValidationError
	if err := v.ApplyStatusChange(context.Background(), 7, "Done"); !errors.As(err, &verr) || verr.Field != "taskstatus" {
		t.Errorf("expected taskstatus validation error, got %v", err)
	}
	if err := v.ApplyStatusChange(context.Background(), 9, service.StatusCompleted); !errors.As(err, &verr) || verr.Field != "taskid" {
		t.Errorf("expected taskid validation error for task outside the view, got %v", err)
	}
	if svc.Calls() != calls {
		t.Errorf("expected no calls for rejected changes, got %d", svc.Calls()-calls)
	}
	if v.State() != tasklist.Loaded {
		t.Errorf("expected state unchanged, got %s", v.State())
	}
}

func TestSubmitRecord_CreateRefetches(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())

	d := tasklist.Draft{Name: "T", Description: "new", Priority: "medium", AssignedTo: "3", ProjectID: "5"}
	if err := v.SubmitRecord(context.Background(), d, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := service.TaskInput{Name: "T", Description: "new", Priority: service.PriorityMedium, Status: service.StatusPending, AssignedTo: 3, ProjectID: 5}
	if svc.LastInput != want {
		t.Errorf("expected payload %+v, got %+v", want, svc.LastInput)
	}

	tasks := v.Tasks()
	if len(tasks) != 4 {
		t.Fatalf("expected refetched collection of 4, got %d", len(tasks))
	}
	created := tasks[3]
	if created.Name != "T" || created.ProjectName() != "Apollo" {
		t.Errorf("expected server record with joined names, got %+v", created)
	}
}

func TestSubmitRecord_UpdateRefetchesServerRecord(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())

	task, _ := v.Find(7)
	d := tasklist.DraftFromTask(task)
	d.AssignedTo = "4"
	if err := v.SubmitRecord(context.Background(), d, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := v.Find(7)
	if !ok {
		t.Fatal("expected task 7 after refetch")
	}
	// The name comes from the server join, so the view was refetched rather than spliced.
	if got.AssigneeName() != "Bob" {
		t.Errorf("expected refetched assignee Bob, got %q", got.AssigneeName())
	}
	if got.Name != "Draft" || got.Priority != service.PriorityHigh {
		t.Errorf("expected unchanged fields to be preserved, got %+v", got)
	}
}

func TestSubmitRecord_RefreshFailureAfterCreate(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())
	svc.ListTasksErr = errBackend

	d := tasklist.Draft{Name: "T", Description: "new", AssignedTo: "3", ProjectID: "5"}
	err := v.SubmitRecord(context.Background(), d, 0)
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if !strings.Contains(err.Error(), "submit task applied; refresh failed") {
		t.Errorf("expected the error to say the change was applied, got %q", err)
	}
	if _, ok := svc.Task(10); !ok {
		t.Error("expected the task to exist on the server")
	}
	if v.State() != tasklist.LoadError {
		t.Errorf("expected load error after failed refresh, got %s", v.State())
	}
}

func TestDeleteRecord_RefreshFailure(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())
	svc.ListTasksErr = errBackend

	err := v.DeleteRecord(context.Background(), 8)
	if err == nil || !strings.Contains(err.Error(), "delete task applied; refresh failed") {
		t.Fatalf("expected applied-then-refresh-failed error, got %v", err)
	}
	if _, ok := svc.Task(8); ok {
		t.Error("expected task 8 deleted on the server")
	}
}

func TestSubmitRecord_ValidationSendsNothing(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())
	calls := svc.Calls()

	d := tasklist.Draft{Name: "T", Description: "x", AssignedTo: "three", ProjectID: "5"}
	err := v.SubmitRecord(context.Background(), d, 0)

	var verr *tasklist.ValidationError
	if !errors.As(err, &verr) || verr.Field != "assignedto" {
		t.Fatalf("expected assignedto validation error, got %v", err)
	}
	if svc.Calls() != calls {
		t.Errorf("expected zero calls, got %d", svc.Calls()-calls)
	}
	if v.State() != tasklist.Loaded {
		t.Errorf("expected state unchanged, got %s", v.State())
	}
}

func TestSubmitRecord_Failure(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())
	before := v.Tasks()
	svc.CreateTaskErr = errBackend

	d := tasklist.Draft{Name: "T", Description: "x", AssignedTo: "3", ProjectID: "5"}
	if err := v.SubmitRecord(context.Background(), d, 0); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if v.State() != tasklist.MutateError {
		t.Errorf("expected mutate error, got %s", v.State())
	}
	if !reflect.DeepEqual(v.Tasks(), before) {
		t.Error("collection changed after failed submit")
	}
}

func TestDeleteRecord(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())

	if err := v.DeleteRecord(context.Background(), 8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(v.Tasks()); !reflect.DeepEqual(got, []int64{7, 9}) {
		t.Errorf("expected [7 9], got %v", got)
	}

	svc.DeleteTaskErr = errBackend
	if err := v.DeleteRecord(context.Background(), 9); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if got := ids(v.Tasks()); !reflect.DeepEqual(got, []int64{7, 9}) {
		t.Errorf("expected collection unchanged after failed delete, got %v", got)
	}
}

func TestInvalidate_PicksUpServerChanges(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())

	svc.AddTask(service.Task{ID: 10, Name: "New", Status: service.StatusPending, AssignedTo: 4})
	if err := v.Invalidate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.Find(10); !ok {
		t.Error("expected task created elsewhere after invalidate")
	}
}

func TestClose_DiscardsLateResponse(t *testing.T) {
	svc := newFake()
	entered := make(chan struct{})
	release := make(chan struct{})
	svc.BeforeListTasks = func(ctx context.Context, q service.TaskQuery) {
		close(entered)
		<-release
	}

	v := tasklist.NewView(svc, tasklist.All())
	done := make(chan error, 1)
	go func() {
		_, err := v.Load(context.Background())
		done <- err
	}()

	<-entered
	v.Close()
	close(release)

	if err := <-done; !errors.Is(err, tasklist.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if len(v.Tasks()) != 0 {
		t.Error("late response must not populate a closed view")
	}
	if _, err := v.Load(context.Background()); !errors.Is(err, tasklist.ErrClosed) {
		t.Errorf("expected ErrClosed for load after close, got %v", err)
	}
}

func TestLoad_SupersededResponseDiscarded(t *testing.T) {
	svc := newFake()
	var calls atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	svc.BeforeListTasks = func(ctx context.Context, q service.TaskQuery) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
	}

	v := tasklist.NewView(svc, tasklist.All())
	done := make(chan error, 1)
	go func() {
		_, err := v.Load(context.Background())
		done <- err
	}()

	<-entered
	if _, err := v.Load(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	svc.ListTasksErr = errBackend
	close(release)

	// The older load fails, but its result is stale and must not flip the state.
	if err := <-done; !errors.Is(err, tasklist.ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	if v.State() != tasklist.Loaded {
		t.Errorf("expected loaded, got %s", v.State())
	}
	if len(v.Tasks()) != 3 {
		t.Errorf("expected the newer collection, got %v", ids(v.Tasks()))
	}
}

func TestMutation_BusyWhileLoading(t *testing.T) {
	svc := newFake()
	v := loaded(t, svc, tasklist.All())

	entered := make(chan struct{})
	release := make(chan struct{})
	svc.BeforeListTasks = func(ctx context.Context, q service.TaskQuery) {
		close(entered)
		<-release
	}
	done := make(chan error, 1)
	go func() { done <- v.Invalidate(context.Background()) }()

	<-entered
	if err := v.DeleteRecord(context.Background(), 7); !errors.Is(err, tasklist.ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("invalidate: %v", err)
	}
}
