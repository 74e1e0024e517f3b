package server

import (
	"fmt"
	"net/http"
	"testing"

	"tingle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEndpoints(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	alice := ts.user(t, "alice")
	bob := ts.user(t, "bob")

	post := createPost(t, ts, alice, "notify me")
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/api/users/1/follow", bob, nil).StatusCode)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), bob, nil).StatusCode)
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", post.ID), alice, nil).StatusCode)

	resp := ts.do(t, http.MethodGet, "/api/users/notifications/unread-count", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(2), decode[map[string]int64](t, resp)["count"], "self-likes do not notify")

	resp = ts.do(t, http.MethodGet, "/api/users/notifications?unreadOnly=true", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[models.Page[models.NotificationItem]](t, resp)
	require.Len(t, page.Items, 2)
	assert.Equal(t, models.NotificationLike, page.Items[0].Type)
	require.NotNil(t, page.Items[0].Post)
	assert.Equal(t, "notify me", page.Items[0].Post.Content)
	assert.Equal(t, "bob", page.Items[1].Actor.Username)

	resp = ts.do(t, http.MethodPatch, "/api/users/notifications", alice, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodPatch, "/api/users/notifications", alice, map[string]any{"notificationIds": []uint{page.Items[1].ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decode[map[string]any](t, resp)["updated"])

	resp = ts.do(t, http.MethodPatch, "/api/users/notifications", alice, map[string]any{"all": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decode[map[string]any](t, resp)["updated"])

	resp = ts.do(t, http.MethodPatch, "/api/users/notifications", alice, map[string]any{"all": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), decode[map[string]any](t, resp)["updated"])

	resp = ts.do(t, http.MethodGet, "/api/users/notifications/unread-count", alice, nil)
	assert.Zero(t, decode[map[string]int64](t, resp)["count"])
}
