package models

import "time"

// Post is a short text update, optionally with an image reference.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Image     string    `json:"image"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User     User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Likes    []Like    `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`

	// LikesCount is computed at query time
	LikesCount int64 `gorm:"->;-:migration" json:"likesCount"`
	// CommentsCount is computed at query time
	CommentsCount int64 `gorm:"->;-:migration" json:"commentsCount"`
	// IsLiked reports whether the requesting user liked this post (computed)
	IsLiked bool `gorm:"->;-:migration" json:"isLiked"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// PostView is the post payload returned by the API.
type PostView struct {
	ID            uint        `json:"id"`
	Text          string      `json:"text"`
	Image         string      `json:"image"`
	UserID        uint        `json:"userId"`
	User          UserSummary `json:"user"`
	LikesCount    int64       `json:"likesCount"`
	CommentsCount int64       `json:"commentsCount"`
	IsLiked       bool        `json:"isLiked"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// View projects p onto the API payload.
func (p Post) View() PostView {
	return PostView{
		ID:            p.ID,
		Text:          p.Text,
		Image:         p.Image,
		UserID:        p.UserID,
		User:          p.User.Summary(),
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		IsLiked:       p.IsLiked,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// PostViews projects a slice of posts, never returning nil.
func PostViews(posts []Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, p.View())
	}
	return views
}

// Like records that a user liked a post. At most one per (post, user).
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user" json:"postId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_post_user;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}
