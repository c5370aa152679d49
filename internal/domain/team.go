package domain

import "time"

// Team groups employees under a single leader. A user may belong to any
// number of teams, and a manager may lead more than one.
type Team struct {
	ID          string
	Name        string
	Description string
	LeaderID    string
	MemberIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasMember reports whether userID is in the member roster (leader excluded).
func (t *Team) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Participants returns leader plus members, deduplicated, leader first.
func (t *Team) Participants() []string {
	out := make([]string, 0, len(t.MemberIDs)+1)
	out = append(out, t.LeaderID)
	for _, id := range t.MemberIDs {
		if id != t.LeaderID {
			out = append(out, id)
		}
	}
	return out
}
