package models

import "time"

// NotificationType enumerates the interactions that notify a user.
type NotificationType string

const (
	NotificationFollow  NotificationType = "FOLLOW"
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
	NotificationMention NotificationType = "MENTION"
)

// ReferencesPost reports whether notifications of this type may carry a post.
func (t NotificationType) ReferencesPost() bool {
	return t == NotificationLike || t == NotificationComment || t == NotificationMention
}

// Notification is an advisory inbox row addressed to ToUserID.
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	Type       NotificationType `gorm:"type:varchar(20);not null;index" json:"type"`
	FromUserID uint             `gorm:"not null;index" json:"fromUserId"`
	ToUserID   uint             `gorm:"not null;index:idx_notifications_recipient_read" json:"toUserId"`
	PostID     *uint            `gorm:"index" json:"postId,omitempty"`
	Body       string           `gorm:"size:100" json:"body,omitempty"`
	IsRead     bool             `gorm:"not null;default:false;index:idx_notifications_recipient_read" json:"isRead"`
	CreatedAt  time.Time        `gorm:"index" json:"createdAt"`

	FromUser User `gorm:"foreignKey:FromUserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NotificationActor is the sender block of a notification item.
type NotificationActor struct {
	UserSummary
	IsFollowing   bool `json:"isFollowing"`
	IsCurrentUser bool `json:"isCurrentUser"`
}

// NotificationPost is the minimal post projection of a notification item.
type NotificationPost struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

// NotificationSnippet carries the comment snippet of a COMMENT notification.
type NotificationSnippet struct {
	Content string `json:"content"`
}

// NotificationItem is a resolved notification returned to its recipient.
type NotificationItem struct {
	ID        uint                 `json:"id"`
	Type      NotificationType     `json:"type"`
	CreatedAt time.Time            `json:"createdAt"`
	IsRead    bool                 `json:"isRead"`
	Actor     NotificationActor    `json:"actor"`
	Post      *NotificationPost    `json:"post"`
	Comment   *NotificationSnippet `json:"comment"`
}
