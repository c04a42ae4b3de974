package tasklist

import (
	"fmt"
	"strconv"
	"strings"

	"taskdash/internal/service"
)

// ValidationError reports a draft field that cannot be submitted.
// It is raised before any network call.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q %s", e.Field, e.Value, e.Message)
}

// Draft is the staging copy of a task form. Every field holds the raw input.
type Draft struct {
	Name        string
	Description string
	Priority    string
	Status      string
	AssignedTo  string
	ProjectID   string
}

// DraftFromTask seeds a draft from the server copy of a task.
func DraftFromTask(t service.Task) Draft {
	d := Draft{
		Name:        t.Name,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
	}
	if t.AssignedTo != 0 {
		d.AssignedTo = strconv.FormatInt(t.AssignedTo, 10)
	}
	if t.ProjectID != 0 {
		d.ProjectID = strconv.FormatInt(t.ProjectID, 10)
	}
	return d
}

// Validate converts the draft into a request payload.
// Empty priority and status default to Low and Pending.
func (d Draft) Validate() (service.TaskInput, error) {
	var in service.TaskInput

	in.Name = strings.TrimSpace(d.Name)
	if in.Name == "" {
		return service.TaskInput{}, &ValidationError{Field: "taskname", Message: "is required"}
	}
	in.Description = strings.TrimSpace(d.Description)
	if in.Description == "" {
		return service.TaskInput{}, &ValidationError{Field: "taskdescription", Message: "is required"}
	}

	in.Priority = service.PriorityLow
	if strings.TrimSpace(d.Priority) != "" {
		p, err := service.ParsePriority(d.Priority)
		if err != nil {
			return service.TaskInput{}, &ValidationError{Field: "taskpriority", Value: d.Priority, Message: "must be one of Low, Medium, High"}
		}
		in.Priority = p
	}

	in.Status = service.StatusPending
	if strings.TrimSpace(d.Status) != "" {
		s, err := service.ParseStatus(d.Status)
		if err != nil {
			return service.TaskInput{}, &ValidationError{Field: "taskstatus", Value: d.Status, Message: "must be one of Pending, In Progress, Completed"}
		}
		in.Status = s
	}

	var err error
	if in.AssignedTo, err = ParseID("assignedto", d.AssignedTo); err != nil {
		return service.TaskInput{}, err
	}
	if in.ProjectID, err = ParseID("projectid", d.ProjectID); err != nil {
		return service.TaskInput{}, err
	}
	return in, nil
}

// ParseID parses a positive decimal record ID typed by the user.
func ParseID(field, raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ValidationError{Field: field, Message: "is required"}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: field, Value: raw, Message: "must be a positive number"}
	}
	return id, nil
}
