package dto

import (
	"time"

	"github.com/wltlabs/staffhub/internal/domain"
)

// CreateProjectRequest payload. Code is optional; one is generated when
// absent.
type CreateProjectRequest struct {
	Name        string               `json:"name"`
	Code        string               `json:"code"`
	Description string               `json:"description"`
	ManagerID   string               `json:"manager_id"`
	TeamID      *string              `json:"team_id"`
	Status      domain.ProjectStatus `json:"status"`
	Deadline    *time.Time           `json:"deadline"`
}

// UpdateProjectRequest payload for partial changes.
type UpdateProjectRequest struct {
	Name        *string               `json:"name"`
	Code        *string               `json:"code"`
	Description *string               `json:"description"`
	ManagerID   *string               `json:"manager_id"`
	TeamID      *string               `json:"team_id"`
	ClearTeam   bool                  `json:"clear_team"`
	Status      *domain.ProjectStatus `json:"status"`
	Deadline    *time.Time            `json:"deadline"`
}

// ProjectResponse payload.
type ProjectResponse struct {
	ID          string               `json:"id"`
	Code        string               `json:"code"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	ManagerID   string               `json:"manager_id"`
	TeamID      *string              `json:"team_id,omitempty"`
	Status      domain.ProjectStatus `json:"status"`
	Deadline    *time.Time           `json:"deadline,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// NewProjectResponse maps a domain project.
func NewProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		ManagerID:   p.ManagerID,
		TeamID:      p.TeamID,
		Status:      p.Status,
		Deadline:    p.Deadline,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProjectSummaryResponse carries status counts over a filtered listing.
type ProjectSummaryResponse struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	OnHold     int `json:"on_hold"`
}

// NewProjectSummaryResponse maps the summary counts.
func NewProjectSummaryResponse(s *domain.ProjectSummary) ProjectSummaryResponse {
	return ProjectSummaryResponse{
		Total:      s.Total,
		Completed:  s.Completed,
		InProgress: s.InProgress,
		OnHold:     s.OnHold,
	}
}
