package service

import (
	"context"
	"log/slog"
	"time"

	"tingle/internal/events"
	"tingle/internal/middleware"
	"tingle/internal/models"
	"tingle/internal/observability"
	"tingle/internal/repository"
	"tingle/internal/validation"
)

// MessageService handles direct messages between two users.
type MessageService struct {
	messages repository.MessageRepository
	users    repository.UserRepository
	events   events.Publisher
}

// NewMessageService returns a new MessageService.
func NewMessageService(messages repository.MessageRepository, users repository.UserRepository, publisher events.Publisher) *MessageService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &MessageService{messages: messages, users: users, events: publisher}
}

// Conversations lists the caller's counterparts by last activity.
func (s *MessageService) Conversations(ctx context.Context, userID uint) (convs []models.Conversation, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "MessageService", "Conversations")
	defer func() { observability.EndSpan(span, err) }()

	rows, err := s.messages.Conversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CounterpartID)
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	convs = make([]models.Conversation, 0, len(rows))
	for _, row := range rows {
		u, ok := byID[row.CounterpartID]
		if !ok {
			continue
		}
		convs = append(convs, models.Conversation{
			ID:            u.ID,
			Name:          u.Name,
			Username:      u.Username,
			Image:         u.Image,
			LastMessageAt: row.LastMessageAt,
			UnreadCount:   row.UnreadCount,
		})
	}
	return convs, nil
}

// ThreadInput selects a page of the thread with a counterpart.
type ThreadInput struct {
	UserID        uint
	CounterpartID uint
	Page          int
	Limit         int
}

// Thread returns messages with the counterpart, newest first, then marks the
// counterpart's unread messages to the caller as read.
func (s *MessageService) Thread(ctx context.Context, in ThreadInput) ([]models.MessageView, error) {
	if _, err := s.users.GetByID(ctx, in.CounterpartID); err != nil {
		return nil, err
	}

	messages, err := s.messages.Thread(ctx, in.UserID, in.CounterpartID, in.Limit, offset(in.Page, in.Limit))
	if err != nil {
		return nil, err
	}

	if _, err := s.messages.MarkThreadRead(ctx, in.UserID, in.CounterpartID); err != nil {
		return nil, err
	}

	views := make([]models.MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, messageView(m, in.UserID))
	}
	return views, nil
}

// SendInput is a new direct message.
type SendInput struct {
	FromUserID uint
	ToUserID   uint
	Content    string
}

func (s *MessageService) Send(ctx context.Context, in SendInput) (*models.MessageView, error) {
	if in.FromUserID == in.ToUserID {
		return nil, models.NewConflictError("You cannot message yourself")
	}
	content, err := validation.MessageContent(in.Content)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if _, err := s.users.GetByID(ctx, in.ToUserID); err != nil {
		return nil, err
	}

	msg := &models.Message{FromUserID: in.FromUserID, ToUserID: in.ToUserID, Content: content}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	observability.MessagesSent.Inc()

	s.events.Publish(ctx, events.Event{
		Type:         events.MessageSent,
		ActorID:      in.FromUserID,
		TargetUserID: in.ToUserID,
		OccurredAt:   time.Now().UTC(),
	})
	middleware.Logger.DebugContext(ctx, "message sent",
		slog.Uint64("from_user_id", uint64(in.FromUserID)),
		slog.Uint64("to_user_id", uint64(in.ToUserID)),
	)

	view := messageView(*msg, in.FromUserID)
	return &view, nil
}

func messageView(m models.Message, viewerID uint) models.MessageView {
	return models.MessageView{
		ID:           m.ID,
		Content:      m.Content,
		FromUserID:   m.FromUserID,
		ToUserID:     m.ToUserID,
		IsRead:       m.IsRead,
		CreatedAt:    m.CreatedAt,
		FromUser:     m.FromUser.Summary(),
		IsOwnMessage: m.FromUserID == viewerID,
	}
}
