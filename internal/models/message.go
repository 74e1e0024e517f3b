package models

import "time"

// Message is a direct message between two users.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FromUserID uint      `gorm:"not null;index" json:"fromUserId"`
	ToUserID   uint      `gorm:"not null;index:idx_messages_recipient_read" json:"toUserId"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	IsRead     bool      `gorm:"not null;default:false;index:idx_messages_recipient_read" json:"isRead"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`

	FromUser User `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE" json:"-"`
	ToUser   User `gorm:"foreignKey:ToUserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// MessageView is a thread entry annotated for the requesting caller.
type MessageView struct {
	ID           uint        `json:"id"`
	Content      string      `json:"content"`
	FromUserID   uint        `json:"fromUserId"`
	ToUserID     uint        `json:"toUserId"`
	IsRead       bool        `json:"isRead"`
	CreatedAt    time.Time   `json:"createdAt"`
	FromUser     UserSummary `json:"fromUser"`
	IsOwnMessage bool        `json:"isOwnMessage"`
}

// Conversation is the derived per-counterpart summary of a caller's messages.
type Conversation struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Username      string    `json:"username"`
	Image         string    `json:"image"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int64     `json:"unreadCount"`
}
