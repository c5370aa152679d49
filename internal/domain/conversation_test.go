package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectMembersKeyIsOrderInsensitive(t *testing.T) {
	assert.Equal(t, DirectMembersKey("a", "b"), DirectMembersKey("b", "a"))
	assert.Equal(t, "a|b", DirectMembersKey("b", "a"))
}

func TestOtherMember(t *testing.T) {
	convo := &Conversation{Type: ConversationTypeDirect, MemberIDs: []string{"a", "b"}}

	other, ok := convo.OtherMember("a")
	assert.True(t, ok)
	assert.Equal(t, "b", other)

	team := &Conversation{Type: ConversationTypeTeam, MemberIDs: []string{"a", "b", "c"}}
	_, ok = team.OtherMember("a")
	assert.False(t, ok)
}

func TestTeamParticipants(t *testing.T) {
	team := &Team{LeaderID: "lead", MemberIDs: []string{"m1", "lead", "m2"}}
	assert.Equal(t, []string{"lead", "m1", "m2"}, team.Participants())
}

func TestMessageStatusAdvances(t *testing.T) {
	assert.True(t, MessageStatusSent.Advances(MessageStatusDelivered))
	assert.True(t, MessageStatusSent.Advances(MessageStatusSeen))
	assert.True(t, MessageStatusDelivered.Advances(MessageStatusSeen))

	assert.False(t, MessageStatusSeen.Advances(MessageStatusDelivered))
	assert.False(t, MessageStatusDelivered.Advances(MessageStatusDelivered))
	assert.False(t, MessageStatusSeen.Advances(MessageStatusSent))
}
