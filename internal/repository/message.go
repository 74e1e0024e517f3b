package repository

import (
	"context"
	"time"

	"tingle/internal/models"
	"tingle/internal/observability"

	"gorm.io/gorm"
)

// ConversationRow is one counterpart of the caller's message history.
type ConversationRow struct {
	CounterpartID uint
	LastMessageAt time.Time
	UnreadCount   int64
}

// MessageRepository defines persistence operations for direct messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	Thread(ctx context.Context, userID, counterpartID uint, limit, offset int) ([]models.Message, error)
	MarkThreadRead(ctx context.Context, readerID, counterpartID uint) (int64, error)
	Conversations(ctx context.Context, userID uint) ([]ConversationRow, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts the message and loads its sender.
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := db.First(&message.FromUser, message.FromUserID).Error; err != nil {
		return notFoundOrInternal(err, "User", message.FromUserID)
	}
	return nil
}

// Thread returns the messages exchanged between the pair, newest first.
func (r *messageRepository) Thread(ctx context.Context, userID, counterpartID uint, limit, offset int) ([]models.Message, error) {
	messages := []models.Message{}
	if err := r.db.WithContext(ctx).
		Preload("FromUser").
		Where("(from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)",
			userID, counterpartID, counterpartID, userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// MarkThreadRead flags every unread message from counterpartID to readerID.
func (r *messageRepository) MarkThreadRead(ctx context.Context, readerID, counterpartID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("from_user_id = ? AND to_user_id = ? AND is_read = ?", counterpartID, readerID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

type conversationScan struct {
	CounterpartID uint
	LastMessageAt dbTime
	UnreadCount   int64
}

// Conversations groups the caller's messages by counterpart, most recent
// activity first.
func (r *messageRepository) Conversations(ctx context.Context, userID uint) ([]ConversationRow, error) {
	defer observability.TrackQuery("conversations", "messages")()

	var scanned []conversationScan
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Select(`CASE WHEN from_user_id = ? THEN to_user_id ELSE from_user_id END AS counterpart_id, `+
			`MAX(created_at) AS last_message_at, `+
			`SUM(CASE WHEN to_user_id = ? AND is_read = ? THEN 1 ELSE 0 END) AS unread_count`,
			userID, userID, false).
		Where("from_user_id = ? OR to_user_id = ?", userID, userID).
		Group("counterpart_id").
		Order("last_message_at DESC").
		Scan(&scanned).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	rows := make([]ConversationRow, 0, len(scanned))
	for _, s := range scanned {
		rows = append(rows, ConversationRow{
			CounterpartID: s.CounterpartID,
			LastMessageAt: s.LastMessageAt.Time,
			UnreadCount:   s.UnreadCount,
		})
	}
	return rows, nil
}
