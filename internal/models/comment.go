package models

import "time"

// Comment is a reply attached to a post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

// CommentView is the comment payload returned by the API.
type CommentView struct {
	ID        uint        `json:"id"`
	Text      string      `json:"text"`
	PostID    uint        `json:"postId"`
	UserID    uint        `json:"userId"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// View projects c onto the API payload.
func (c Comment) View() CommentView {
	return CommentView{
		ID:        c.ID,
		Text:      c.Text,
		PostID:    c.PostID,
		UserID:    c.UserID,
		User:      c.User.Summary(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
