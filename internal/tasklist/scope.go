package tasklist

import (
	"fmt"
	"strings"

	"taskdash/internal/service"
)

// Strategy decides where the status part of a Scope is applied.
type Strategy int

const (
	// ServerSide sends the status as a query parameter.
	ServerSide Strategy = iota
	// ClientSide fetches unfiltered and drops non-matching tasks after the fetch.
	ClientSide
)

// Scope selects the tasks a View shows.
// Owner scoping always travels in the request path.
type Scope struct {
	Owner    int64
	Status   service.Status
	Strategy Strategy
}

// All matches every task.
func All() Scope {
	return Scope{}
}

// StatusEquals matches tasks in status s.
func StatusEquals(s service.Status) Scope {
	return Scope{Status: s}
}

// OwnedBy matches tasks assigned to userID.
func OwnedBy(userID int64) Scope {
	return Scope{Owner: userID}
}

// WithStatus narrows the scope to tasks in status st.
func (s Scope) WithStatus(st service.Status) Scope {
	s.Status = st
	return s
}

// Using sets where the status filter is applied.
func (s Scope) Using(strategy Strategy) Scope {
	s.Strategy = strategy
	return s
}

// Matches reports whether t belongs in the scope.
func (s Scope) Matches(t service.Task) bool {
	if s.Owner != 0 && t.AssignedTo != s.Owner {
		return false
	}
	if s.Status != "" && t.Status != s.Status {
		return false
	}
	return true
}

// Query returns the server-side part of the scope.
func (s Scope) Query() service.TaskQuery {
	q := service.TaskQuery{AssigneeID: s.Owner}
	if s.Strategy == ServerSide {
		q.Status = s.Status
	}
	return q
}

func (s Scope) String() string {
	var parts []string
	if s.Owner != 0 {
		parts = append(parts, fmt.Sprintf("owner=%d", s.Owner))
	}
	if s.Status != "" {
		where := "server"
		if s.Strategy == ClientSide {
			where = "client"
		}
		parts = append(parts, fmt.Sprintf("status=%q (%s)", s.Status, where))
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, " ")
}
