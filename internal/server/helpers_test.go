package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tingle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.NewNotFoundError("Post", 1), http.StatusNotFound},
		{models.NewValidationError("bad"), http.StatusBadRequest},
		{models.NewConflictError("dup"), http.StatusBadRequest},
		{models.NewForbiddenError("no"), http.StatusForbidden},
		{models.NewUnauthorizedError("who"), http.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", models.NewForbiddenError("no")), http.StatusForbidden},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, mapServiceError(tt.err))
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "user ID", humanizeParam("userId"))
	assert.Equal(t, "post comment ID", humanizeParam("postCommentId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, Limit: 10}},
		{"?page=3&limit=5", Pagination{Page: 3, Limit: 5}},
		{"?page=0&limit=-1", Pagination{Page: 1, Limit: 10}},
		{"?limit=500", Pagination{Page: 1, Limit: 50}},
		{"?page=abc", Pagination{Page: 1, Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c, 10, 50)
				return c.SendStatus(fiber.StatusNoContent)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("zero max falls back to global cap", func(t *testing.T) {
		app := fiber.New()
		var got Pagination
		app.Get("/", func(c *fiber.Ctx) error {
			got = parsePagination(c, 20, 0)
			return c.SendStatus(fiber.StatusNoContent)
		})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?limit=1000", nil))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, maxPaginationLimit, got.Limit)
	})
}
