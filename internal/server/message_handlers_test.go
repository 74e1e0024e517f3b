package server

import (
	"net/http"
	"strings"
	"testing"

	"tingle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageEndpoints(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	alice := ts.user(t, "alice")
	bob := ts.user(t, "bob")

	resp := ts.do(t, http.MethodPost, "/api/messages/1", alice, map[string]any{"content": "me"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You cannot message yourself", errorBody(t, resp).Error)

	resp = ts.do(t, http.MethodPost, "/api/messages/9", alice, map[string]any{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/messages/2", alice, map[string]any{"content": strings.Repeat("m", 1001)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/messages/2", alice, map[string]any{"content": "hi bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sent := decode[models.MessageView](t, resp)
	assert.True(t, sent.IsOwnMessage)

	resp = ts.do(t, http.MethodGet, "/api/messages", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	convs := decode[[]models.Conversation](t, resp)
	require.Len(t, convs, 1)
	assert.Equal(t, alice.ID, convs[0].ID)
	assert.Equal(t, int64(1), convs[0].UnreadCount)

	resp = ts.do(t, http.MethodGet, "/api/messages/1", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	thread := decode[[]models.MessageView](t, resp)
	require.Len(t, thread, 1)
	assert.False(t, thread[0].IsOwnMessage)
	assert.Equal(t, "alice", thread[0].FromUser.Username)

	resp = ts.do(t, http.MethodGet, "/api/messages", bob, nil)
	convs = decode[[]models.Conversation](t, resp)
	assert.Zero(t, convs[0].UnreadCount)

	resp = ts.do(t, http.MethodGet, "/api/messages/abc", bob, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid user ID", errorBody(t, resp).Error)
}
