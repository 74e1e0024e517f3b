package repository

import (
	"context"
	"testing"

	"tingle/internal/cache"
	"tingle/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ListAndMarkRead(t *testing.T) {
	db := setupSQLite(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	me := createUser(t, db, "me")
	bob := createUser(t, db, "bob")
	other := createUser(t, db, "other")

	var mine []uint
	for i := 0; i < 3; i++ {
		n := &models.Notification{Type: models.NotificationFollow, FromUserID: bob.ID, ToUserID: me.ID, CreatedAt: fixedTime(i)}
		require.NoError(t, repo.Create(ctx, n))
		mine = append(mine, n.ID)
	}
	foreign := &models.Notification{Type: models.NotificationFollow, FromUserID: bob.ID, ToUserID: other.ID}
	require.NoError(t, repo.Create(ctx, foreign))

	items, total, err := repo.List(ctx, me.ID, false, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, mine[2], items[0].ID)
	assert.Equal(t, "bob", items[0].FromUser.Username)

	updated, err := repo.MarkRead(ctx, me.ID, []uint{mine[0], foreign.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated, "rows addressed to others are ignored")

	_, total, err = repo.List(ctx, me.ID, true, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	updated, err = repo.MarkAllRead(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	updated, err = repo.MarkAllRead(ctx, me.ID)
	require.NoError(t, err)
	assert.Zero(t, updated)

	count, err := repo.UnreadCount(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNotificationRepository_UnreadCountCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := cache.GetClient()
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(prev)
		_ = rdb.Close()
	})

	db := setupSQLite(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	me := createUser(t, db, "me")
	bob := createUser(t, db, "bob")

	count, err := repo.UnreadCount(ctx, me.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.True(t, mr.Exists(cache.NotificationUnreadKey(me.ID)))

	require.NoError(t, repo.Create(ctx, &models.Notification{Type: models.NotificationFollow, FromUserID: bob.ID, ToUserID: me.ID}))
	assert.False(t, mr.Exists(cache.NotificationUnreadKey(me.ID)), "create invalidates the counter")

	count, err = repo.UnreadCount(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = repo.MarkAllRead(ctx, me.ID)
	require.NoError(t, err)
	count, err = repo.UnreadCount(ctx, me.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
