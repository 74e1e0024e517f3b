package service

import (
	"context"
	"testing"

	"tingle/internal/cache"
	"tingle/internal/events"
	"tingle/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphService_FollowTwice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	require.NoError(t, env.graph.Follow(ctx, alice.ID, bob.ID))
	err := env.graph.Follow(ctx, alice.ID, bob.ID)
	assertCode(t, err, models.CodeConflict)
	assert.Equal(t, "You are already following this user", err.Error())

	assert.Equal(t, int64(1), env.edgeCount(t))

	notes := env.notificationsFor(t, bob.ID)
	require.Len(t, notes, 1, "the rejected duplicate does not notify")
	assert.Equal(t, models.NotificationFollow, notes[0].Type)
	assert.Equal(t, alice.ID, notes[0].FromUserID)
	assert.Nil(t, notes[0].PostID)

	assert.Equal(t, []events.Type{events.UserFollowed}, env.pub.types())
}

func TestGraphService_FollowUnfollowRestoresGraph(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	env.follow(t, carol, bob)

	before := env.edgeCount(t)
	require.NoError(t, env.graph.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, env.graph.Unfollow(ctx, alice.ID, bob.ID))
	assert.Equal(t, before, env.edgeCount(t))

	err := env.graph.Unfollow(ctx, alice.ID, bob.ID)
	assertCode(t, err, models.CodeConflict)
	assert.Equal(t, "You are not following this user", err.Error())
}

func TestGraphService_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")

	err := env.graph.Follow(ctx, alice.ID, alice.ID)
	assertCode(t, err, models.CodeConflict)
	assert.Equal(t, "You cannot follow yourself", err.Error())
	assert.Zero(t, env.edgeCount(t))

	assertCode(t, env.graph.Unfollow(ctx, alice.ID, alice.ID), models.CodeConflict)
	assertCode(t, env.graph.Follow(ctx, alice.ID, 9999), models.CodeNotFound)
	assertCode(t, env.graph.Unfollow(ctx, alice.ID, 9999), models.CodeNotFound)
}

func TestGraphService_LockHeld(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := cache.GetClient()
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(prev)
		_ = rdb.Close()
	})

	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	require.NoError(t, mr.Set(cache.FollowLockKey(alice.ID, bob.ID), "someone-else"))
	err := env.graph.Follow(ctx, alice.ID, bob.ID)
	assertCode(t, err, models.CodeConflict)
	assert.Zero(t, env.edgeCount(t))

	mr.Del(cache.FollowLockKey(alice.ID, bob.ID))
	require.NoError(t, env.graph.Follow(ctx, alice.ID, bob.ID))
	assert.False(t, mr.Exists(cache.FollowLockKey(alice.ID, bob.ID)), "lock released after the action")
}

func TestGraphService_ListEdges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	target := env.user(t, "target")
	a := env.user(t, "a")
	b := env.user(t, "b")
	viewer := env.user(t, "viewer")

	env.follow(t, a, target)
	env.follow(t, b, target)
	env.follow(t, viewer, a)

	page, err := env.graph.Followers(ctx, ListEdgesInput{ViewerID: viewer.ID, UserID: target.ID, Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.True(t, page.HasMore)
	require.Len(t, page.Items, 1)
	assert.Equal(t, b.ID, page.Items[0].ID)
	assert.False(t, page.Items[0].IsFollowing)
	require.NotNil(t, page.Items[0].FollowedAt)

	page, err = env.graph.Followers(ctx, ListEdgesInput{ViewerID: viewer.ID, UserID: target.ID, Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)
	assert.True(t, page.Items[0].IsFollowing)

	page, err = env.graph.Following(ctx, ListEdgesInput{ViewerID: a.ID, UserID: a.ID, Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, target.ID, page.Items[0].ID)

	_, err = env.graph.Following(ctx, ListEdgesInput{ViewerID: a.ID, UserID: 9999, Page: 1, Limit: 20})
	assertCode(t, err, models.CodeNotFound)
}
