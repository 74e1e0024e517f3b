// Package auth issues and verifies session tokens and talks to OAuth identity providers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrInvalidToken is returned for malformed, expired or foreign tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrRevokedToken is returned for tokens revoked by logout.
	ErrRevokedToken = errors.New("token has been revoked")
)

const (
	revokedKeyPrefix = "blacklist:"
	stateTTL         = 10 * time.Minute
	statePurpose     = "oauth_state"
)

// Session is a freshly issued session token.
type Session struct {
	Token     string    `json:"token"`
	ID        string    `json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Claims are the verified contents of a session token.
type Claims struct {
	UserID    uint
	SessionID string
	ExpiresAt time.Time
}

// SessionManager signs session tokens with an HMAC secret and keeps the
// revocation list in Redis. A nil Redis client disables revocation.
type SessionManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	redis    *redis.Client
	now      func() time.Time
}

// NewSessionManager returns a SessionManager.
func NewSessionManager(secret, issuer, audience string, ttl time.Duration, rdb *redis.Client) *SessionManager {
	return &SessionManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		redis:    rdb,
		now:      time.Now,
	}
}

// Issue signs a new session token for userID.
func (m *SessionManager) Issue(userID uint) (*Session, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)
	jti := uuid.NewString()

	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": m.issuer,
		"aud": m.audience,
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": jti,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &Session{Token: signed, ID: jti, ExpiresAt: time.Unix(expiresAt.Unix(), 0).UTC()}, nil
}

// Parse verifies signature, issuer, audience, expiry and revocation.
func (m *SessionManager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, m.keyFunc,
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if purpose, _ := claims["purpose"].(string); purpose != "" {
		return nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidToken
	}

	jti, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}

	if jti != "" && m.redis != nil {
		revoked, err := m.redis.Exists(ctx, revokedKeyPrefix+jti).Result()
		// Revocation is fail-open: an unreachable Redis must not lock everyone out.
		if err == nil && revoked > 0 {
			return nil, ErrRevokedToken
		}
	}

	return &Claims{UserID: uint(userID), SessionID: jti, ExpiresAt: exp.Time}, nil
}

// Revoke blacklists a session id until the token would have expired anyway.
func (m *SessionManager) Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error {
	if m.redis == nil || sessionID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return m.redis.Set(ctx, revokedKeyPrefix+sessionID, "1", ttl).Err()
}

// IssueState returns a short-lived signed OAuth state parameter.
func (m *SessionManager) IssueState() (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"purpose": statePurpose,
		"nonce":   uuid.NewString(),
		"iss":     m.issuer,
		"exp":     now.Add(stateTTL).Unix(),
		"iat":     now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// VerifyState checks an OAuth state parameter produced by IssueState.
func (m *SessionManager) VerifyState(state string) error {
	token, err := jwt.Parse(state, m.keyFunc,
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["purpose"] != statePurpose {
		return ErrInvalidToken
	}
	return nil
}

func (m *SessionManager) keyFunc(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return m.secret, nil
}
