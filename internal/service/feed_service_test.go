package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedService_PagesDoNotOverlap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.user(t, "me")
	friend := env.user(t, "friend")
	env.follow(t, me, friend)

	for i := 0; i < 7; i++ {
		author := me
		if i%2 == 0 {
			author = friend
		}
		env.post(t, author, fmt.Sprintf("post %d", i))
	}

	seen := map[uint]int{}
	for page := 1; page <= 3; page++ {
		views, err := env.feed.Home(ctx, HomeFeedInput{ViewerID: me.ID, Page: page, Limit: 3})
		require.NoError(t, err)
		for _, v := range views {
			prev, dup := seen[v.ID]
			assert.False(t, dup, "post %d on page %d and %d", v.ID, prev, page)
			seen[v.ID] = page
		}
	}
	assert.Len(t, seen, 7)

	onlyFollowing, err := env.feed.Home(ctx, HomeFeedInput{ViewerID: me.ID, FollowingOnly: true, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, onlyFollowing, 4)
	for _, v := range onlyFollowing {
		assert.Equal(t, friend.ID, v.UserID)
	}
}

func TestFeedService_Explore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.user(t, "author")
	fan := env.user(t, "fan")

	plain := env.post(t, author, "plain")
	liked := env.post(t, author, "liked")
	_, err := env.postSvc.LikePost(ctx, fan.ID, liked.ID)
	require.NoError(t, err)

	views, err := env.feed.Explore(ctx, fan.ID, 1, 20)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, liked.ID, views[0].ID)
	assert.True(t, views[0].IsLiked)
	assert.Equal(t, plain.ID, views[1].ID)
	assert.False(t, views[1].IsLiked)

	views, err = env.feed.Explore(ctx, author.ID, 1, 20)
	require.NoError(t, err)
	assert.False(t, views[0].IsLiked, "isLiked is per viewer")
}
