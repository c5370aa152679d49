package domain

import "time"

// ProjectStatus tracks project lifecycle.
type ProjectStatus string

const (
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
)

// Valid reports whether the status is a known value.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// Project is a managed piece of work, optionally scoped to one team.
// Code is the human-facing 8-digit project id shown in listings.
type Project struct {
	ID          string
	Code        string
	Name        string
	Description string
	ManagerID   string
	TeamID      *string
	Status      ProjectStatus
	Deadline    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProjectSummary counts projects per status across a filtered set,
// ignoring pagination.
type ProjectSummary struct {
	Total      int
	Completed  int
	InProgress int
	OnHold     int
}
