package service

import (
	"context"
	"strings"
	"testing"

	"tingle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_ProfileIsFollowing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")

	env.follow(t, alice, bob)

	asAlice, err := env.userSvc.GetProfile(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, asAlice.IsFollowing)
	assert.False(t, asAlice.IsCurrentUser)
	assert.Equal(t, int64(1), asAlice.FollowersCount)
	assert.Nil(t, asAlice.Email, "email is private to its owner")

	asCarol, err := env.userSvc.GetProfile(ctx, carol.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, asCarol.IsFollowing)

	self, err := env.userSvc.GetProfile(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, self.IsCurrentUser)
	assert.False(t, self.IsFollowing)
	assert.Equal(t, int64(1), self.FollowingCount)
	require.NotNil(t, self.Email)
	assert.Equal(t, "alice@example.com", *self.Email)

	_, err = env.userSvc.GetProfile(ctx, alice.ID, 9999)
	assertCode(t, err, models.CodeNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.user(t, "alice")
	env.user(t, "bob")

	profile, err := env.userSvc.UpdateProfile(ctx, UpdateProfileInput{
		UserID:   alice.ID,
		Name:     strPtr("Alice A."),
		Username: strPtr("alice_a"),
		Bio:      strPtr("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_a", profile.Username)
	assert.Equal(t, "Alice A.", profile.Name)
	assert.Equal(t, "hello", profile.Bio)

	tests := []struct {
		name string
		in   UpdateProfileInput
		msg  string
	}{
		{"taken", UpdateProfileInput{Username: strPtr("bob")}, "Username is already taken"},
		{"bad charset", UpdateProfileInput{Username: strPtr("al ice")}, "username can only contain letters, numbers, and underscores"},
		{"too short", UpdateProfileInput{Username: strPtr("al")}, "username must be between 3 and 20 characters"},
		{"bio too long", UpdateProfileInput{Bio: strPtr(strings.Repeat("b", 161))}, "bio must be 160 characters or less"},
		{"name too long", UpdateProfileInput{Name: strPtr(strings.Repeat("n", 51))}, "name must be 50 characters or less"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.UserID = alice.ID
			_, err := env.userSvc.UpdateProfile(ctx, tc.in)
			assertCode(t, err, models.CodeValidation)
			assert.Equal(t, tc.msg, err.Error())
		})
	}

	t.Run("keeping own username is allowed", func(t *testing.T) {
		_, err := env.userSvc.UpdateProfile(ctx, UpdateProfileInput{UserID: alice.ID, Username: strPtr("alice_a")})
		assert.NoError(t, err)
	})
}

func TestUserService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	me := env.user(t, "me_search")
	bob := env.user(t, "bob")
	env.user(t, "bobby")
	env.follow(t, me, bob)

	items, err := env.userSvc.Search(ctx, SearchInput{ViewerID: me.ID, Query: "  BOB ", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "bob", items[0].Username)
	assert.True(t, items[0].IsFollowing)
	assert.False(t, items[1].IsFollowing)

	items, err = env.userSvc.Search(ctx, SearchInput{ViewerID: me.ID, Query: "me_", Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsCurrentUser)

	_, err = env.userSvc.Search(ctx, SearchInput{ViewerID: me.ID, Query: "   "})
	assertCode(t, err, models.CodeValidation)
	assert.Equal(t, "Search query is required", err.Error())
}
