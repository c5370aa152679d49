package dto

import (
	"time"

	"github.com/wltlabs/staffhub/internal/domain"
)

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	LeaderID    string   `json:"leader_id"`
	MemberIDs   []string `json:"member_ids"`
}

// TeamMemberRequest payload for roster changes.
type TeamMemberRequest struct {
	UserID string `json:"user_id"`
}

// TeamResponse payload.
type TeamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LeaderID    string    `json:"leader_id"`
	MemberIDs   []string  `json:"member_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTeamResponse maps a domain team.
func NewTeamResponse(t *domain.Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		LeaderID:    t.LeaderID,
		MemberIDs:   t.MemberIDs,
		CreatedAt:   t.CreatedAt,
	}
}
