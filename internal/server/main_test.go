package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tingle/internal/config"
	"tingle/internal/database"
	"tingle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-at-least-32-characters"

type testServer struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Env:            "test",
		JWTSecret:      testSecret,
		JWTIssuer:      "tingle-api",
		JWTAudience:    "tingle-client",
		SessionTTL:     time.Hour,
		AllowedOrigins: "http://localhost:3000",
		FeatureFlags:   "profile_cache=on",
	}
}

func newTestServer(t *testing.T, cfg *config.Config, rdb *redis.Client) *testServer {
	t.Helper()
	db, err := database.OpenSQLite()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	if cfg == nil {
		cfg = testConfig()
	}
	s, err := NewServerWithDeps(cfg, db, rdb, nil)
	require.NoError(t, err)
	return &testServer{server: s, app: s.NewApp(), db: db}
}

func (ts *testServer) user(t *testing.T, username string) *models.User {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", username)
	u := &models.User{Name: username, Username: username, Email: &email}
	require.NoError(t, ts.db.Create(u).Error)
	return u
}

func (ts *testServer) token(t *testing.T, u *models.User) string {
	t.Helper()
	session, err := ts.server.sessions.Issue(u.ID)
	require.NoError(t, err)
	return session.Token
}

// do sends a request as u (anonymous when u is nil) and returns the response.
func (ts *testServer) do(t *testing.T, method, path string, u *models.User, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if u != nil {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+ts.token(t, u))
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorBody(t *testing.T, resp *http.Response) models.ErrorResponse {
	t.Helper()
	return decode[models.ErrorResponse](t, resp)
}
