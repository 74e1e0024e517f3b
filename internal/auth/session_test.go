package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSessionManager(testSecret, "tingle-api", "tingle-client", time.Hour, rdb), mr
}

func TestSessionManager_IssueAndParse(t *testing.T) {
	m, _ := newTestManager(t)

	session, err := m.Issue(42)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)

	claims, err := m.Parse(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, session.ID, claims.SessionID)
	assert.WithinDuration(t, session.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestSessionManager_RejectsForeignTokens(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	other := NewSessionManager(testSecret, "someone-else", "tingle-client", time.Hour, nil)
	foreign, err := other.Issue(1)
	require.NoError(t, err)
	_, err = m.Parse(ctx, foreign.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongKey := NewSessionManager("another-secret-that-is-32-characters!!", "tingle-api", "tingle-client", time.Hour, nil)
	forged, err := wrongKey.Issue(1)
	require.NoError(t, err)
	_, err = m.Parse(ctx, forged.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "iss": "tingle-api", "aud": "tingle-client"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(ctx, unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_Expiry(t *testing.T) {
	m, _ := newTestManager(t)
	session, err := m.Issue(7)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Parse(context.Background(), session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessionManager_Revoke(t *testing.T) {
	m, mr := newTestManager(t)
	ctx := context.Background()

	session, err := m.Issue(9)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, session.ID, session.ExpiresAt))
	assert.True(t, mr.Exists("blacklist:"+session.ID))

	_, err = m.Parse(ctx, session.Token)
	assert.ErrorIs(t, err, ErrRevokedToken)
}

func TestSessionManager_State(t *testing.T) {
	m, _ := newTestManager(t)

	state, err := m.IssueState()
	require.NoError(t, err)
	assert.NoError(t, m.VerifyState(state))

	// A state token is never a session.
	_, err = m.Parse(context.Background(), state)
	assert.ErrorIs(t, err, ErrInvalidToken)

	session, err := m.Issue(1)
	require.NoError(t, err)
	assert.ErrorIs(t, m.VerifyState(session.Token), ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("", "anything"))
}
