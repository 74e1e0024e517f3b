// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a Tingle account holder. Counts and viewer flags are computed per
// query and never persisted.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100" json:"name"`
	Username   string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email      *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Image      string    `json:"image"`
	CoverImage string    `json:"coverImage"`
	Bio        string    `gorm:"size:160" json:"bio"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	Accounts []Account `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserSummary is the minimal author/actor projection embedded in other payloads.
type UserSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

// Summary projects u onto a UserSummary.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, Image: u.Image}
}

// Profile is the full profile payload with graph counts and viewer flags.
type Profile struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Username       string    `json:"username"`
	Email          *string   `json:"email,omitempty"`
	Image          string    `json:"image"`
	CoverImage     string    `json:"coverImage"`
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"createdAt"`
	FollowingCount int64     `json:"followingCount"`
	FollowersCount int64     `json:"followersCount"`
	PostsCount     int64     `json:"postsCount"`
	IsFollowing    bool      `json:"isFollowing"`
	IsCurrentUser  bool      `json:"isCurrentUser"`
}

// UserCounts holds the graph and authorship counts of a single user.
type UserCounts struct {
	Followers int64
	Following int64
	Posts     int64
}

// UserListItem is a user row annotated for the requesting caller. It backs
// follower/following listings, search results and suggestions.
type UserListItem struct {
	ID            uint       `json:"id"`
	Name          string     `json:"name"`
	Username      string     `json:"username"`
	Image         string     `json:"image"`
	Bio           string     `json:"bio"`
	FollowedAt    *time.Time `json:"followedAt,omitempty"`
	FollowerCount *int64     `json:"followerCount,omitempty"`
	IsFollowing   bool       `json:"isFollowing"`
	IsCurrentUser bool       `json:"isCurrentUser"`
}

// Account links a user to an identity provider subject.
type Account struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"userId"`
	Provider          string    `gorm:"size:50;not null;uniqueIndex:idx_accounts_provider_subject" json:"provider"`
	ProviderAccountID string    `gorm:"size:255;not null;uniqueIndex:idx_accounts_provider_subject" json:"providerAccountId"`
	PasswordHash      string    `gorm:"size:255" json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// Identity providers.
const (
	ProviderGoogle      = "google"
	ProviderCredentials = "credentials"
)
