package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix               = "user:%d"
	NotificationUnreadKeyPrefix = "notifications:unread:%d"
	FollowLockKeyPrefix         = "lock:follow:%d:%d"
	LikeLockKeyPrefix           = "lock:like:%d:%d"
)

const (
	UserTTL               = 5 * time.Minute
	NotificationUnreadTTL = time.Minute
	ActionLockTTL         = 5 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func NotificationUnreadKey(userID uint) string {
	return fmt.Sprintf(NotificationUnreadKeyPrefix, userID)
}

// FollowLockKey is the natural key of a follow edge.
func FollowLockKey(followerID, followeeID uint) string {
	return fmt.Sprintf(FollowLockKeyPrefix, followerID, followeeID)
}

// LikeLockKey is the natural key of a like.
func LikeLockKey(postID, userID uint) string {
	return fmt.Sprintf(LikeLockKeyPrefix, postID, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateUnreadCount(ctx context.Context, userID uint) {
	Invalidate(ctx, NotificationUnreadKey(userID))
}
