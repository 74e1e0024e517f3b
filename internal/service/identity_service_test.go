package service

import (
	"context"
	"strings"
	"testing"

	"tingle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleBase(t *testing.T) {
	tests := []struct {
		name, display, email, want string
	}{
		{"name with spaces", "Alice Smith", "a@x.com", "alicesmith"},
		{"punctuation stripped", "Jean-Luc O'Neil", "", "jeanluconeil"},
		{"non ascii name falls back to email", "日本語", "kenji.t@example.com", "kenjit"},
		{"nothing usable", "!!!", "@@", "user"},
		{"digits kept", "R2 D2", "", "r2d2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HandleBase(tc.display, tc.email))
		})
	}
}

func TestHandleCandidate(t *testing.T) {
	assert.Equal(t, "alice", handleCandidate("alice", 0))
	assert.Equal(t, "alice3", handleCandidate("alice", 3))

	long := strings.Repeat("a", 25)
	assert.Len(t, handleCandidate(long, 0), 20)
	got := handleCandidate(long, 12)
	assert.Len(t, got, 20)
	assert.True(t, strings.HasSuffix(got, "12"))
}

func TestIdentityService_SignIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.identity.SignIn(ctx, SignInInput{
		Provider: models.ProviderGoogle, ProviderAccountID: "sub-1",
		Email: "alice@example.com", Name: "Alice", Image: "https://img/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, "https://img/a.png", first.Image)

	t.Run("same subject returns same user", func(t *testing.T) {
		again, err := env.identity.SignIn(ctx, SignInInput{
			Provider: models.ProviderGoogle, ProviderAccountID: "sub-1",
			Email: "alice@example.com", Name: "Alice",
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, again.ID)
	})

	t.Run("handle collision takes next suffix", func(t *testing.T) {
		other, err := env.identity.SignIn(ctx, SignInInput{
			Provider: models.ProviderGoogle, ProviderAccountID: "sub-2",
			Email: "alice2@example.com", Name: "Alice",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice1", other.Username)

		third, err := env.identity.SignIn(ctx, SignInInput{
			Provider: models.ProviderGoogle, ProviderAccountID: "sub-3",
			Name: "ALICE",
		})
		require.NoError(t, err)
		assert.Equal(t, "alice2", third.Username)
		assert.Nil(t, third.Email)
	})

	t.Run("existing email links account", func(t *testing.T) {
		linked, err := env.identity.SignIn(ctx, SignInInput{
			Provider: models.ProviderCredentials, ProviderAccountID: "alice@example.com",
			Email: "alice@example.com", Name: "Someone Else",
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, linked.ID)

		var accounts int64
		env.db.Model(&models.Account{}).Where("user_id = ?", first.ID).Count(&accounts)
		assert.Equal(t, int64(2), accounts)
	})

	t.Run("missing subject rejected", func(t *testing.T) {
		_, err := env.identity.SignIn(ctx, SignInInput{Provider: models.ProviderGoogle})
		assertCode(t, err, models.CodeValidation)
	})
}

func TestIdentityService_Credentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	dev, err := env.identity.EnsureCredentialAccount(ctx, "dev@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "developer", dev.Username)

	user, err := env.identity.CredentialsLogin(ctx, "dev@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, dev.ID, user.ID)

	_, err = env.identity.CredentialsLogin(ctx, "dev@example.com", "wrong")
	assertCode(t, err, models.CodeUnauthorized)

	_, err = env.identity.CredentialsLogin(ctx, "nobody@example.com", "correct horse")
	assertCode(t, err, models.CodeUnauthorized)

	again, err := env.identity.EnsureCredentialAccount(ctx, "dev@example.com", "new secret")
	require.NoError(t, err)
	assert.Equal(t, dev.ID, again.ID)

	_, err = env.identity.CredentialsLogin(ctx, "dev@example.com", "new secret")
	assert.NoError(t, err)
}
