// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"taskdash/internal/service"
	"taskdash/internal/session"
)

const (
	// SectionSeparator is the separator line around section headers.
	SectionSeparator = "------------"
)

// FormatTask formats a task line.
// Format: "{ID:>4}  {STATUS:<11}  {PRIORITY:<6}  {NAME}[  ({ASSIGNEE} / {PROJECT})]\n"
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s\n", task.ID, taskLine(task))
}

// FormatTaskIndented formats a task line inside a section.
// Format: "    " + FormatTask line
func FormatTaskIndented(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "    %4d  %s\n", task.ID, taskLine(task))
}

func taskLine(task service.Task) string {
	line := fmt.Sprintf("%-11s  %-6s  %s", task.Status, task.Priority, normalizeTitle(task.Name))
	if joined := joinedNames(task); joined != "" {
		line += "  (" + joined + ")"
	}
	return line
}

// joinedNames renders the server-joined assignee and project names.
func joinedNames(task service.Task) string {
	assignee, project := task.AssigneeName(), task.ProjectName()
	switch {
	case assignee != "" && project != "":
		return assignee + " / " + project
	case assignee != "":
		return assignee
	default:
		return project
	}
}

// FormatTaskDetail formats every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "id:          %d\n", task.ID)
	fmt.Fprintf(w, "name:        %s\n", normalizeTitle(task.Name))
	fmt.Fprintf(w, "description: %s\n", oneLine(task.Description))
	fmt.Fprintf(w, "priority:    %s\n", task.Priority)
	fmt.Fprintf(w, "status:      %s\n", task.Status)
	fmt.Fprintf(w, "assignee:    %s\n", withID(task.AssigneeName(), task.AssignedTo))
	fmt.Fprintf(w, "project:     %s\n", withID(task.ProjectName(), task.ProjectID))
}

func withID(name string, id int64) string {
	if name == "" {
		return fmt.Sprintf("#%d", id)
	}
	return fmt.Sprintf("%s (#%d)", name, id)
}

// FormatSectionHeader formats a section header.
func FormatSectionHeader(w io.Writer, title string) {
	fmt.Fprintln(w, SectionSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, SectionSeparator)
}

// FormatUser formats a user line.
// Format: "{ID:>4}  {NAME:<20}  {EMAIL}[  {ROLE}]\n"
func FormatUser(w io.Writer, u service.User) {
	line := fmt.Sprintf("%4d  %-20s  %s", u.ID, normalizeTitle(u.Name), u.Email)
	if u.Role != "" {
		line += "  " + u.Role
	}
	fmt.Fprintln(w, line)
}

// FormatProject formats a project line.
func FormatProject(w io.Writer, p service.Project) {
	fmt.Fprintf(w, "%4d  %s\n", p.ID, normalizeTitle(p.Name))
}

// FormatProfile formats an account.
func FormatProfile(w io.Writer, u service.User) {
	fmt.Fprintf(w, "id:      %d\n", u.ID)
	fmt.Fprintf(w, "name:    %s\n", u.Name)
	fmt.Fprintf(w, "email:   %s\n", u.Email)
	if u.Contact != "" {
		fmt.Fprintf(w, "contact: %s\n", u.Contact)
	}
	if u.Role != "" {
		fmt.Fprintf(w, "role:    %s\n", u.Role)
	}
}

// FormatSession formats the current session relative to now.
func FormatSession(w io.Writer, s session.Session, now time.Time) {
	fmt.Fprintf(w, "subject: %s\n", s.Subject)
	fmt.Fprintf(w, "role:    %s\n", s.Role)
	left := s.ExpiresAt.Sub(now).Truncate(time.Minute)
	fmt.Fprintf(w, "expires: %s (in %s)\n", s.ExpiresAt.UTC().Format(time.RFC3339), left)
}

// normalizeTitle normalizes a name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = oneLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
