package service_test

import (
	"testing"

	"taskdash/internal/service"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    service.Status
		wantErr bool
	}{
		{in: "Pending", want: service.StatusPending},
		{in: "pending", want: service.StatusPending},
		{in: "In Progress", want: service.StatusInProgress},
		{in: "in-progress", want: service.StatusInProgress},
		{in: "IN_PROGRESS", want: service.StatusInProgress},
		{in: " completed ", want: service.StatusCompleted},
		{in: "done", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := service.ParseStatus(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	if got, err := service.ParsePriority("high"); err != nil || got != service.PriorityHigh {
		t.Errorf("expected High, got %q (err %v)", got, err)
	}
	if _, err := service.ParsePriority("urgent"); err == nil {
		t.Error("expected error for unknown priority")
	}
}

func TestTask_JoinedNames(t *testing.T) {
	task := service.Task{ID: 1}
	if task.AssigneeName() != "" || task.ProjectName() != "" {
		t.Error("expected empty names when server did not join them")
	}

	task.Member = &service.User{ID: 3, Name: "Ada"}
	task.Project = &service.Project{ID: 5, Name: "Apollo"}
	if task.AssigneeName() != "Ada" {
		t.Errorf("expected Ada, got %q", task.AssigneeName())
	}
	if task.ProjectName() != "Apollo" {
		t.Errorf("expected Apollo, got %q", task.ProjectName())
	}
}
