package tasklist_test

import (
	"testing"

	"taskdash/internal/service"
	"taskdash/internal/tasklist"
)

func TestScope_Matches(t *testing.T) {
	task := service.Task{ID: 7, Status: service.StatusInProgress, AssignedTo: 3}

	tests := []struct {
		name  string
		scope tasklist.Scope
		want  bool
	}{
		{"all", tasklist.All(), true},
		{"same status", tasklist.StatusEquals(service.StatusInProgress), true},
		{"other status", tasklist.StatusEquals(service.StatusCompleted), false},
		{"owner", tasklist.OwnedBy(3), true},
		{"other owner", tasklist.OwnedBy(4), false},
		{"owner and status", tasklist.OwnedBy(3).WithStatus(service.StatusInProgress), true},
		{"owner and other status", tasklist.OwnedBy(3).WithStatus(service.StatusPending), false},
		{"client-side strategy still filters", tasklist.StatusEquals(service.StatusPending).Using(tasklist.ClientSide), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Matches(task); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScope_Query(t *testing.T) {
	tests := []struct {
		name  string
		scope tasklist.Scope
		want  service.TaskQuery
	}{
		{"all", tasklist.All(), service.TaskQuery{}},
		{"server status", tasklist.StatusEquals(service.StatusCompleted), service.TaskQuery{Status: service.StatusCompleted}},
		{"client status", tasklist.StatusEquals(service.StatusCompleted).Using(tasklist.ClientSide), service.TaskQuery{}},
		{"owner always in path", tasklist.OwnedBy(3).Using(tasklist.ClientSide), service.TaskQuery{AssigneeID: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Query(); got != tt.want {
				t.Errorf("Query() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScope_String(t *testing.T) {
	tests := []struct {
		scope tasklist.Scope
		want  string
	}{
		{tasklist.All(), "all"},
		{tasklist.OwnedBy(3), "owner=3"},
		{tasklist.OwnedBy(3).WithStatus(service.StatusPending).Using(tasklist.ClientSide), `owner=3 status="Pending" (client)`},
		{tasklist.StatusEquals(service.StatusCompleted), `status="Completed" (server)`},
	}

	for _, tt := range tests {
		if got := tt.scope.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
