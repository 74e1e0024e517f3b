package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeNotFound, ErrorCode(NewNotFoundError("User", 1)))
	assert.Equal(t, CodeConflict, ErrorCode(fmt.Errorf("wrapped: %w", NewConflictError("dup"))))
	assert.Equal(t, CodeInternal, ErrorCode(errors.New("boom")))
	assert.True(t, IsNotFound(NewNotFoundError("Post", 2)))
	assert.False(t, IsNotFound(NewValidationError("bad")))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		err      error
		expected ErrorResponse
	}{
		{
			name:     "validation message is exposed",
			status:   http.StatusBadRequest,
			err:      NewValidationError("Bio must be at most 160 characters"),
			expected: ErrorResponse{Error: "Bio must be at most 160 characters", Code: CodeValidation},
		},
		{
			name:     "internal detail is hidden",
			status:   http.StatusInternalServerError,
			err:      NewInternalError(errors.New("pq: relation does not exist")),
			expected: ErrorResponse{Error: "Internal server error"},
		},
		{
			name:     "plain errors collapse to internal",
			status:   http.StatusInternalServerError,
			err:      errors.New("unexpected"),
			expected: ErrorResponse{Error: "Internal server error"},
		},
		{
			name:     "unauthorized without app error",
			status:   http.StatusUnauthorized,
			err:      errors.New("token expired"),
			expected: ErrorResponse{Error: UnauthorizedMessage, Code: CodeUnauthorized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return RespondWithError(c, tt.status, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.status, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			var got ErrorResponse
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage[int](nil, 45, 2, 20)
	assert.NotNil(t, page.Items)
	assert.True(t, page.HasMore)

	last := NewPage([]int{1}, 41, 3, 20)
	assert.False(t, last.HasMore)
}
