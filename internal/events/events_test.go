package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSubject(t *testing.T) {
	assert.Equal(t, "tingle.user.followed", Event{Type: UserFollowed}.Subject())
	assert.Equal(t, "tingle.message.sent", Event{Type: MessageSent}.Subject())
}

func TestEncode(t *testing.T) {
	postID := uint(9)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	data, err := encode(Event{Type: PostLiked, ActorID: 1, TargetUserID: 2, PostID: &postID, OccurredAt: at})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "post.liked", decoded["type"])
	assert.EqualValues(t, 1, decoded["actorId"])
	assert.EqualValues(t, 2, decoded["targetUserId"])
	assert.EqualValues(t, 9, decoded["postId"])
	assert.Equal(t, "2025-03-01T12:00:00Z", decoded["occurredAt"])

	data, err = encode(Event{Type: UserFollowed, ActorID: 1, TargetUserID: 2})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "postId")
}

func TestConnectWithoutURL(t *testing.T) {
	pub, err := Connect(Config{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, pub)

	pub.Publish(context.Background(), Event{Type: UserFollowed})
	pub.Close()
}

func TestConnectUnreachable(t *testing.T) {
	_, err := Connect(Config{URL: "nats://127.0.0.1:1", MaxReconnects: -1, ReconnectWait: time.Millisecond})
	assert.Error(t, err)
}
