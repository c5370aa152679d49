package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wltlabs/staffhub/internal/domain"
)

// ConversationRepository manages persistence for chat conversations.
//
// Uniqueness of dm pairs and team conversations is enforced by partial unique
// indexes; Create returns the raw unique-violation error so callers can
// recover by re-fetching.
type ConversationRepository interface {
	Create(ctx context.Context, convo *domain.Conversation) error
	GetByID(ctx context.Context, id string) (*domain.Conversation, error)
	GetDirectByMembersKey(ctx context.Context, membersKey string) (*domain.Conversation, error)
	GetByTeamID(ctx context.Context, teamID string) (*domain.Conversation, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Conversation, error)
	UpdateSummary(ctx context.Context, id, lastMessage string, at time.Time) error
}

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository constructs repository.
func NewConversationRepository(pool *pgxpool.Pool) ConversationRepository {
	return &conversationRepository{pool: pool}
}

const conversationColumns = `id, type, team_id, member_ids, last_message, last_message_at, created_at, updated_at`

func scanConversation(row pgx.Row, c *domain.Conversation) error {
	return row.Scan(
		&c.ID,
		&c.Type,
		&c.TeamID,
		&c.MemberIDs,
		&c.LastMessage,
		&c.LastMessageAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
}

func (r *conversationRepository) Create(ctx context.Context, convo *domain.Conversation) error {
	var membersKey *string
	if convo.Type == domain.ConversationTypeDirect && len(convo.MemberIDs) == 2 {
		key := domain.DirectMembersKey(convo.MemberIDs[0], convo.MemberIDs[1])
		membersKey = &key
	}
	const query = `
        INSERT INTO conversations (type, team_id, member_ids, members_key)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		convo.Type,
		convo.TeamID,
		convo.MemberIDs,
		membersKey,
	).Scan(&convo.ID, &convo.CreatedAt, &convo.UpdatedAt)
}

func (r *conversationRepository) GetByID(ctx context.Context, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := scanConversation(r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, id), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) GetDirectByMembersKey(ctx context.Context, membersKey string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := scanConversation(r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE type='dm' AND members_key=$1`, membersKey), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) GetByTeamID(ctx context.Context, teamID string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := scanConversation(r.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE type='team' AND team_id=$1`, teamID), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID string) ([]domain.Conversation, error) {
	const query = `
        SELECT ` + conversationColumns + `
        FROM conversations
        WHERE $1 = ANY(member_ids)
        ORDER BY last_message_at DESC NULLS LAST, updated_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Conversation
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(
			&c.ID,
			&c.Type,
			&c.TeamID,
			&c.MemberIDs,
			&c.LastMessage,
			&c.LastMessageAt,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *conversationRepository) UpdateSummary(ctx context.Context, id, lastMessage string, at time.Time) error {
	const query = `
        UPDATE conversations SET last_message=$1, last_message_at=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, lastMessage, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
