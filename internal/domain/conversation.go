package domain

import (
	"sort"
	"strings"
	"time"
)

// ConversationType distinguishes one-to-one chats from team group chats.
type ConversationType string

const (
	ConversationTypeDirect ConversationType = "dm"
	ConversationTypeTeam   ConversationType = "team"
)

// Conversation is a chat thread between a fixed set of members.
//
// For team conversations the member list is a snapshot of the team roster at
// creation time; later roster changes do not alter it.
type Conversation struct {
	ID            string
	Type          ConversationType
	TeamID        *string
	MemberIDs     []string
	LastMessage   string
	LastMessageAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasMember reports whether userID participates in the conversation.
func (c *Conversation) HasMember(userID string) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// OtherMember returns the counterpart in a dm conversation.
func (c *Conversation) OtherMember(userID string) (string, bool) {
	if c.Type != ConversationTypeDirect {
		return "", false
	}
	for _, id := range c.MemberIDs {
		if id != userID {
			return id, true
		}
	}
	return "", false
}

// DirectMembersKey builds the canonical key identifying a dm pair regardless
// of member order. The storage layer keeps it unique.
func DirectMembersKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "|")
}
