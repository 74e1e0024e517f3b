package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"tingle/internal/auth"
	"tingle/internal/models"

	"github.com/gofiber/fiber/v2"
)

const identityLocalsKey = "identity"

// CurrentIdentity is the authenticated caller, resolved once per request.
type CurrentIdentity struct {
	UserID    uint
	SessionID string
	ExpiresAt time.Time
}

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthRequired rejects requests without a valid bearer session and stores the
// CurrentIdentity in locals and in the request's user context.
func AuthRequired(parser TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(models.UnauthorizedMessage))
		}

		claims, err := parser.Parse(c.UserContext(), token)
		if err != nil {
			msg := models.UnauthorizedMessage
			if errors.Is(err, auth.ErrRevokedToken) {
				msg = "Unauthorized. Session has been revoked."
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
		}

		SetIdentity(c, CurrentIdentity{
			UserID:    claims.UserID,
			SessionID: claims.SessionID,
			ExpiresAt: claims.ExpiresAt,
		})
		return c.Next()
	}
}

// SetIdentity binds identity to the request.
func SetIdentity(c *fiber.Ctx, identity CurrentIdentity) {
	c.Locals(identityLocalsKey, identity)
	c.Locals("userID", identity.UserID)

	ctx := context.WithValue(c.UserContext(), IdentityKey, identity)
	ctx = context.WithValue(ctx, UserIDKey, identity.UserID)
	c.SetUserContext(ctx)
}

// IdentityFrom returns the identity bound by AuthRequired.
func IdentityFrom(c *fiber.Ctx) (CurrentIdentity, bool) {
	identity, ok := c.Locals(identityLocalsKey).(CurrentIdentity)
	return identity, ok && identity.UserID != 0
}

// IdentityFromContext returns the identity carried by ctx.
func IdentityFromContext(ctx context.Context) (CurrentIdentity, bool) {
	identity, ok := ctx.Value(IdentityKey).(CurrentIdentity)
	return identity, ok && identity.UserID != 0
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
