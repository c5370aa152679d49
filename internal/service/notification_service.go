package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wltlabs/staffhub/internal/domain"
	"github.com/wltlabs/staffhub/internal/events"
	"github.com/wltlabs/staffhub/internal/repository"
	apperrors "github.com/wltlabs/staffhub/pkg/util"
)

const unreadCountTTL = 5 * time.Minute

// NotificationService creates and serves notifications. It subscribes to
// chat events so a dm message produces an unread notification for the
// receiver as a side effect of sending.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	dispatcher    events.Dispatcher
	cache         *redis.Client
	logger        *zap.Logger
}

// NewNotificationService constructs the service. cache may be nil; unread
// counts then always hit the database.
func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository, dispatcher events.Dispatcher, cache *redis.Client, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		dispatcher:    dispatcher,
		cache:         cache,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to events that produce notifications.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventMessageSent, n.handleMessageSent)
	n.dispatcher.Subscribe(events.EventLeaveDecided, n.handleLeaveDecided)
	n.dispatcher.Subscribe(events.EventTaskAssigned, n.handleTaskAssigned)
}

// handleMessageSent creates an unread notification for the receiver of a dm.
// Team messages do not notify; members find them via the conversation list.
func (n *NotificationService) handleMessageSent(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MessageSentPayload)
	if !ok || payload.Type != domain.ConversationTypeDirect || len(payload.RecipientIDs) != 1 {
		return nil
	}
	notification := &domain.Notification{
		UserID: payload.RecipientIDs[0],
		Type:   domain.NotificationTypeChatMessage,
		Title:  "New message",
		Body:   preview(payload.Message),
		Link:   "/chat/" + payload.ConversationID,
	}
	return n.create(ctx, notification)
}

func (n *NotificationService) handleLeaveDecided(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.LeaveDecidedPayload)
	if !ok {
		return nil
	}
	return n.create(ctx, &domain.Notification{
		UserID: payload.UserID,
		Type:   domain.NotificationTypeLeaveStatus,
		Title:  "Leave " + string(payload.Status),
		Link:   "/leaves/" + payload.LeaveID,
	})
}

func (n *NotificationService) handleTaskAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TaskAssignedPayload)
	if !ok {
		return nil
	}
	return n.create(ctx, &domain.Notification{
		UserID: payload.AssigneeID,
		Type:   domain.NotificationTypeTask,
		Title:  "New task assigned",
		Body:   payload.Title,
		Link:   "/tasks/" + payload.TaskID,
	})
}

func (n *NotificationService) create(ctx context.Context, notification *domain.Notification) error {
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Error("create notification", zap.Error(err))
		return err
	}
	n.invalidateUnread(ctx, notification.UserID)
	if n.dispatcher != nil {
		_ = n.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventNotificationCreated,
			Timestamp: time.Now(),
			Payload:   events.NotificationCreatedPayload{Notification: notification},
		})
	}
	return nil
}

// Broadcast creates the same notification for every active user.
func (n *NotificationService) Broadcast(ctx context.Context, title, body string) (int, error) {
	ids, err := n.users.ListActiveIDs(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	count := 0
	for _, id := range ids {
		notification := &domain.Notification{
			UserID: id,
			Type:   domain.NotificationTypeBroadcast,
			Title:  title,
			Body:   body,
		}
		if err := n.create(ctx, notification); err == nil {
			count++
		}
	}
	return count, nil
}

// ListMine returns the user's notifications, newest first.
func (n *NotificationService) ListMine(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	items, err := n.notifications.ListForUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// UnreadCount returns the user's unread total, served from the redis cache
// when warm.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	key := unreadKey(userID)
	if n.cache != nil {
		if val, err := n.cache.Get(ctx, key).Result(); err == nil {
			if count, parseErr := strconv.ParseInt(val, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}
	count, err := n.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	if n.cache != nil {
		_ = n.cache.Set(ctx, key, count, unreadCountTTL).Err()
	}
	return count, nil
}

// MarkRead marks one notification read.
func (n *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := n.notifications.MarkRead(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notification", nil)
		}
		return apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, userID)
	return nil
}

// MarkAllRead marks every unread notification read.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := n.notifications.MarkAllRead(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, userID)
	return nil
}

// Delete soft deletes a notification; the underlying row stays.
func (n *NotificationService) Delete(ctx context.Context, userID, id string) error {
	if err := n.notifications.SoftDelete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notification", nil)
		}
		return apperrors.MapError(err)
	}
	n.invalidateUnread(ctx, userID)
	return nil
}

func (n *NotificationService) invalidateUnread(ctx context.Context, userID string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Del(ctx, unreadKey(userID)).Err(); err != nil {
		n.logger.Debug("unread cache invalidation failed", zap.Error(err))
	}
}

func unreadKey(userID string) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

func preview(msg *domain.Message) string {
	if msg == nil {
		return ""
	}
	if msg.Text != "" {
		if len(msg.Text) > 120 {
			return msg.Text[:117] + "..."
		}
		return msg.Text
	}
	if msg.File != nil {
		return msg.File.Name
	}
	return ""
}
