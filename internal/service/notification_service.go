package service

import (
	"context"
	"log/slog"

	"tingle/internal/middleware"
	"tingle/internal/models"
	"tingle/internal/observability"
	"tingle/internal/repository"
	"tingle/internal/validation"
)

// notificationBodyLength is the comment snippet kept on COMMENT notifications.
const notificationBodyLength = 100

// NotificationService records and serves the per-user inbox.
type NotificationService struct {
	notifications repository.NotificationRepository
	posts         repository.PostRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notifications repository.NotificationRepository, posts repository.PostRepository) *NotificationService {
	return &NotificationService{notifications: notifications, posts: posts}
}

// NotifyInput describes one interaction to record.
type NotifyInput struct {
	Type       models.NotificationType
	FromUserID uint
	ToUserID   uint
	PostID     *uint
	Body       string
}

// Notify records a notification unless the actor is the recipient. Failures
// are logged and never returned.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) {
	if in.FromUserID == in.ToUserID {
		return
	}
	n := &models.Notification{
		Type:       in.Type,
		FromUserID: in.FromUserID,
		ToUserID:   in.ToUserID,
		PostID:     in.PostID,
		Body:       validation.Truncate(in.Body, notificationBodyLength),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to record notification",
			slog.String("type", string(in.Type)),
			slog.Uint64("to_user_id", uint64(in.ToUserID)),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.NotificationsCreated.WithLabelValues(string(in.Type)).Inc()
}

// ListNotificationsInput selects a page of the caller's inbox.
type ListNotificationsInput struct {
	UserID     uint
	UnreadOnly bool
	Page       int
	Limit      int
}

// List returns a page of resolved notifications, newest first. Referenced
// posts are fetched in one batch for the whole page.
func (s *NotificationService) List(ctx context.Context, in ListNotificationsInput) (page models.Page[models.NotificationItem], err error) {
	ctx, span := observability.StartServiceSpan(ctx, "NotificationService", "List")
	defer func() { observability.EndSpan(span, err) }()

	rows, total, err := s.notifications.List(ctx, in.UserID, in.UnreadOnly, in.Limit, offset(in.Page, in.Limit))
	if err != nil {
		return page, err
	}

	seen := make(map[uint]struct{})
	var postIDs []uint
	for _, n := range rows {
		if n.PostID == nil || !n.Type.ReferencesPost() {
			continue
		}
		if _, ok := seen[*n.PostID]; !ok {
			seen[*n.PostID] = struct{}{}
			postIDs = append(postIDs, *n.PostID)
		}
	}
	texts, err := s.posts.TextsByIDs(ctx, postIDs)
	if err != nil {
		return page, err
	}

	items := make([]models.NotificationItem, 0, len(rows))
	for _, n := range rows {
		item := models.NotificationItem{
			ID:        n.ID,
			Type:      n.Type,
			CreatedAt: n.CreatedAt,
			IsRead:    n.IsRead,
			Actor: models.NotificationActor{
				UserSummary:   n.FromUser.Summary(),
				IsCurrentUser: n.FromUserID == in.UserID,
			},
		}
		if n.PostID != nil {
			if text, ok := texts[*n.PostID]; ok {
				item.Post = &models.NotificationPost{ID: *n.PostID, Content: text}
			}
		}
		if n.Type == models.NotificationComment && n.Body != "" {
			item.Comment = &models.NotificationSnippet{Content: n.Body}
		}
		items = append(items, item)
	}
	return models.NewPage(items, total, in.Page, in.Limit), nil
}

// MarkReadInput selects which notifications to clear.
type MarkReadInput struct {
	UserID uint
	IDs    []uint
	All    bool
}

// MarkRead clears the listed ids, or every unread row when All is set, and
// returns the number of rows changed.
func (s *NotificationService) MarkRead(ctx context.Context, in MarkReadInput) (int64, error) {
	switch {
	case in.All:
		return s.notifications.MarkAllRead(ctx, in.UserID)
	case len(in.IDs) > 0:
		return s.notifications.MarkRead(ctx, in.UserID, in.IDs)
	default:
		return 0, models.NewValidationError("Provide notificationIds or set all to true")
	}
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifications.UnreadCount(ctx, userID)
}
