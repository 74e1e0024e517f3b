package service

import (
	"context"
	"testing"

	"tingle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_ListResolvesPosts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.user(t, "me")
	fan := env.user(t, "fan")

	post := env.post(t, me, "my post")
	gone := env.post(t, me, "deleted soon")

	env.follow(t, fan, me)
	_, err := env.postSvc.LikePost(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	_, err = env.commentSvc.CreateComment(ctx, CreateCommentInput{UserID: fan.ID, PostID: post.ID, Text: "great"})
	require.NoError(t, err)
	_, err = env.postSvc.LikePost(ctx, fan.ID, gone.ID)
	require.NoError(t, err)
	require.NoError(t, env.postSvc.DeletePost(ctx, me.ID, gone.ID))

	page, err := env.notifySvc.List(ctx, ListNotificationsInput{UserID: me.ID, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.TotalCount)
	assert.False(t, page.HasMore)
	require.Len(t, page.Items, 4)

	goneLike := page.Items[0]
	assert.Equal(t, models.NotificationLike, goneLike.Type)
	assert.Nil(t, goneLike.Post, "deleted posts resolve to null")

	comment := page.Items[1]
	assert.Equal(t, models.NotificationComment, comment.Type)
	require.NotNil(t, comment.Post)
	assert.Equal(t, "my post", comment.Post.Content)
	require.NotNil(t, comment.Comment)
	assert.Equal(t, "great", comment.Comment.Content)

	like := page.Items[2]
	require.NotNil(t, like.Post)
	assert.Equal(t, post.ID, like.Post.ID)
	assert.Nil(t, like.Comment)

	follow := page.Items[3]
	assert.Equal(t, models.NotificationFollow, follow.Type)
	assert.Nil(t, follow.Post)
	assert.Equal(t, "fan", follow.Actor.Username)
	assert.False(t, follow.Actor.IsFollowing)
	assert.False(t, follow.Actor.IsCurrentUser)
}

func TestNotificationService_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.user(t, "me")
	a := env.user(t, "a")
	b := env.user(t, "b")

	env.follow(t, a, me)
	env.follow(t, b, me)
	env.follow(t, me, a)

	mine := env.notificationsFor(t, me.ID)
	require.Len(t, mine, 2)
	theirs := env.notificationsFor(t, a.ID)
	require.Len(t, theirs, 1)

	updated, err := env.notifySvc.MarkRead(ctx, MarkReadInput{UserID: me.ID, IDs: []uint{mine[0].ID, theirs[0].ID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	count, err := env.notifySvc.UnreadCount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "another user's ids are ignored")

	updated, err = env.notifySvc.MarkRead(ctx, MarkReadInput{UserID: me.ID, All: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	count, err = env.notifySvc.UnreadCount(ctx, me.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	updated, err = env.notifySvc.MarkRead(ctx, MarkReadInput{UserID: me.ID, All: true})
	require.NoError(t, err)
	assert.Zero(t, updated)

	_, err = env.notifySvc.MarkRead(ctx, MarkReadInput{UserID: me.ID})
	assertCode(t, err, models.CodeValidation)

	page, err := env.notifySvc.List(ctx, ListNotificationsInput{UserID: me.ID, UnreadOnly: true, Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}
