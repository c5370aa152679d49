package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wltlabs/staffhub/internal/domain"
)

// MessageRepository manages persistence for chat messages. Messages are
// append-only; the only mutation is a forward status transition, which the
// SQL guards so concurrent updates can never regress.
type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
	AdvanceStatus(ctx context.Context, id string, status domain.MessageStatus) (bool, error)
	AdvanceIncoming(ctx context.Context, conversationID, excludeSenderID string, status domain.MessageStatus) ([]string, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository constructs repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

const messageColumns = `id, conversation_id, sender_id, text, file_url, file_name, file_type, file_size, status, created_at`

func scanMessage(row pgx.Row, m *domain.Message) error {
	var fileURL, fileName, fileType *string
	var fileSize *int64
	if err := row.Scan(
		&m.ID,
		&m.ConversationID,
		&m.SenderID,
		&m.Text,
		&fileURL,
		&fileName,
		&fileType,
		&fileSize,
		&m.Status,
		&m.CreatedAt,
	); err != nil {
		return err
	}
	if fileURL != nil {
		m.File = &domain.FileRef{URL: *fileURL}
		if fileName != nil {
			m.File.Name = *fileName
		}
		if fileType != nil {
			m.File.ContentType = *fileType
		}
		if fileSize != nil {
			m.File.SizeBytes = *fileSize
		}
	}
	return nil
}

func (r *messageRepository) Create(ctx context.Context, msg *domain.Message) error {
	var fileURL, fileName, fileType *string
	var fileSize *int64
	if msg.File != nil {
		fileURL = &msg.File.URL
		fileName = &msg.File.Name
		fileType = &msg.File.ContentType
		fileSize = &msg.File.SizeBytes
	}
	const query = `
        INSERT INTO messages (conversation_id, sender_id, text, file_url, file_name, file_type, file_size, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		msg.ConversationID,
		msg.SenderID,
		msg.Text,
		fileURL,
		fileName,
		fileType,
		fileSize,
		msg.Status,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	var m domain.Message
	if err := scanMessage(r.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id=$1`, id), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *messageRepository) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	const query = `
        SELECT ` + messageColumns + `
        FROM messages WHERE conversation_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// AdvanceStatus moves a message forward to status. Returns false without
// error when the message is already at or past the target.
func (r *messageRepository) AdvanceStatus(ctx context.Context, id string, status domain.MessageStatus) (bool, error) {
	const query = `
        UPDATE messages SET status=$1
        WHERE id=$2
          AND CASE status WHEN 'sent' THEN 0 WHEN 'delivered' THEN 1 ELSE 2 END
            < CASE $1 WHEN 'sent' THEN 0 WHEN 'delivered' THEN 1 ELSE 2 END`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// AdvanceIncoming moves every message in the conversation not sent by
// excludeSenderID forward to status, returning the ids that changed.
func (r *messageRepository) AdvanceIncoming(ctx context.Context, conversationID, excludeSenderID string, status domain.MessageStatus) ([]string, error) {
	const query = `
        UPDATE messages SET status=$1
        WHERE conversation_id=$2 AND sender_id <> $3
          AND CASE status WHEN 'sent' THEN 0 WHEN 'delivered' THEN 1 ELSE 2 END
            < CASE $1 WHEN 'sent' THEN 0 WHEN 'delivered' THEN 1 ELSE 2 END
        RETURNING id`
	rows, err := r.pool.Query(ctx, query, status, conversationID, excludeSenderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
