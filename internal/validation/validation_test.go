package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		ok       bool
	}{
		{name: "simple", username: "alice", ok: true},
		{name: "with underscore and digits", username: "bob_42", ok: true},
		{name: "minimum length", username: "abc", ok: true},
		{name: "maximum length", username: strings.Repeat("a", 20), ok: true},
		{name: "too short", username: "ab", ok: false},
		{name: "too long", username: strings.Repeat("a", 21), ok: false},
		{name: "hyphen", username: "bob-smith", ok: false},
		{name: "space", username: "bob smith", ok: false},
		{name: "non ascii", username: "bjørn", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.username)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateBioAndName(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateBio(""))
	assert.NoError(t, ValidateBio(strings.Repeat("é", 160)))
	assert.Error(t, ValidateBio(strings.Repeat("a", 161)))

	assert.NoError(t, ValidateName(strings.Repeat("n", 50)))
	assert.Error(t, ValidateName(strings.Repeat("n", 51)))
}

func TestPostText(t *testing.T) {
	t.Parallel()

	text, err := PostText(strings.Repeat("a", 280))
	require.NoError(t, err)
	assert.Len(t, text, 280)

	_, err = PostText(strings.Repeat("a", 281))
	assert.EqualError(t, err, "Post text must be 280 characters or less")

	_, err = PostText("   \n\t")
	assert.EqualError(t, err, "Post text is required")

	text, err = PostText("  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = PostText(strings.Repeat("ü", 280))
	assert.NoError(t, err, "length counts runes, not bytes")
}

func TestCommentAndMessageLimits(t *testing.T) {
	t.Parallel()

	_, err := CommentText(strings.Repeat("c", 500))
	assert.NoError(t, err)
	_, err = CommentText(strings.Repeat("c", 501))
	assert.Error(t, err)

	_, err = MessageContent(strings.Repeat("m", 1000))
	assert.NoError(t, err)
	_, err = MessageContent(strings.Repeat("m", 1001))
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", Truncate("short", 100))
	assert.Equal(t, "héll", Truncate("héllo", 4))
}
