package output_test

import (
	"bytes"
	"testing"
	"time"

	"taskdash/internal/output"
	"taskdash/internal/service"
	"taskdash/internal/session"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		task service.Task
		want string
	}{
		{
			name: "joined names",
			task: service.Task{
				ID: 7, Name: "Draft", Priority: service.PriorityHigh, Status: service.StatusInProgress,
				Member:  &service.User{ID: 3, Name: "Ada"},
				Project: &service.Project{ID: 5, Name: "Apollo"},
			},
			want: "   7  In Progress  High    Draft  (Ada / Apollo)\n",
		},
		{
			name: "assignee only",
			task: service.Task{ID: 12, Name: "Review", Priority: service.PriorityLow, Status: service.StatusPending, Member: &service.User{Name: "Bob"}},
			want: "  12  Pending      Low     Review  (Bob)\n",
		},
		{
			name: "no joins",
			task: service.Task{ID: 1000, Name: "Ship", Priority: service.PriorityMedium, Status: service.StatusCompleted},
			want: "1000  Completed    Medium  Ship\n",
		},
		{
			name: "empty name",
			task: service.Task{ID: 1, Name: "  ", Priority: service.PriorityLow, Status: service.StatusPending},
			want: "   1  Pending      Low     (untitled)\n",
		},
		{
			name: "newline in name",
			task: service.Task{ID: 2, Name: "a\nb", Priority: service.PriorityLow, Status: service.StatusPending},
			want: "   2  Pending      Low     a b\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			output.FormatTask(&buf, tt.task)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestFormatTaskIndented(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskIndented(&buf, service.Task{ID: 7, Name: "Draft", Priority: service.PriorityHigh, Status: service.StatusInProgress})

	want := "       7  In Progress  High    Draft\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatSectionHeader(t *testing.T) {
	var buf bytes.Buffer
	output.FormatSectionHeader(&buf, "Pending")

	want := "------------\nPending\n------------\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatTaskDetail(t *testing.T) {
	var buf bytes.Buffer
	output.FormatTaskDetail(&buf, service.Task{
		ID: 7, Name: "Draft", Description: "first\nsecond", Priority: service.PriorityHigh, Status: service.StatusInProgress,
		AssignedTo: 3, ProjectID: 5,
		Member: &service.User{ID: 3, Name: "Ada"},
	})

	want := "id:          7\n" +
		"name:        Draft\n" +
		"description: first second\n" +
		"priority:    High\n" +
		"status:      In Progress\n" +
		"assignee:    Ada (#3)\n" +
		"project:     #5\n"
	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestFormatUserAndProject(t *testing.T) {
	var buf bytes.Buffer
	output.FormatUser(&buf, service.User{ID: 3, Name: "Ada", Email: "ada@x.com", Role: service.RoleMember})
	output.FormatUser(&buf, service.User{ID: 4, Name: "Bob", Email: "bob@x.com"})
	output.FormatProject(&buf, service.Project{ID: 5, Name: "Apollo"})

	want := "   3  Ada                   ada@x.com  TEAMMEMBER\n" +
		"   4  Bob                   bob@x.com\n" +
		"   5  Apollo\n"
	if buf.String() != want {
		t.Errorf("expected:\n%q\ngot:\n%q", want, buf.String())
	}
}

func TestFormatProfile(t *testing.T) {
	var buf bytes.Buffer
	output.FormatProfile(&buf, service.User{ID: 3, Name: "Ada", Email: "ada@x.com"})

	want := "id:      3\nname:    Ada\nemail:   ada@x.com\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestFormatSession(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := session.Session{Subject: "a@x.com", Role: service.RoleManager, ExpiresAt: now.Add(90*time.Minute + 20*time.Second)}

	var buf bytes.Buffer
	output.FormatSession(&buf, s, now)

	want := "subject: a@x.com\n" +
		"role:    PROJECTMANAGER\n" +
		"expires: 2026-03-01T13:30:20Z (in 1h30m0s)\n"
	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}
