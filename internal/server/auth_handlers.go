package server

import (
	"log/slog"
	"time"

	"tingle/internal/middleware"
	"tingle/internal/models"
	"tingle/internal/service"

	"github.com/gofiber/fiber/v2"
)

type sessionResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      *models.Profile `json:"user"`
}

// GoogleLogin handles GET /api/auth/google/login
// @Summary Start Google sign-in
// @Tags auth
// @Success 307
// @Failure 404 {object} models.ErrorResponse
// @Router /auth/google/login [get]
func (s *Server) GoogleLogin(c *fiber.Ctx) error {
	if s.oauth == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Identity provider", "google"))
	}
	state, err := s.sessions.IssueState()
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	return c.Redirect(s.oauth.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback handles GET /api/auth/google/callback
// @Summary Complete Google sign-in
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Signed state"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/google/callback [get]
func (s *Server) GoogleCallback(c *fiber.Ctx) error {
	if s.oauth == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Identity provider", "google"))
	}
	if err := s.sessions.VerifyState(c.Query("state")); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired sign-in state"))
	}
	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Authorization code is required"))
	}

	ctx := c.UserContext()
	identity, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "oauth exchange failed", slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Sign-in with the identity provider failed"))
	}

	user, err := s.identityService.SignIn(ctx, service.SignInInput{
		Provider:          identity.Provider,
		ProviderAccountID: identity.Subject,
		Email:             identity.Email,
		Name:              identity.Name,
		Image:             identity.Image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return s.startSession(c, user.ID)
}

// DevLogin handles POST /api/auth/dev/login
// @Summary Development credentials sign-in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Credentials"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/dev/login [post]
func (s *Server) DevLogin(c *fiber.Ctx) error {
	if !s.config.DevLoginEnabled() {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Identity provider", "credentials"))
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := s.identityService.CredentialsLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}
	return s.startSession(c, user.ID)
}

func (s *Server) startSession(c *fiber.Ctx, userID uint) error {
	session, err := s.sessions.Issue(userID)
	if err != nil {
		return respondServiceError(c, models.NewInternalError(err))
	}
	profile, err := s.userService.GetProfile(c.UserContext(), userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      profile,
	})
}

// Logout handles POST /api/auth/logout
// @Summary Revoke the current session
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	identity, _ := middleware.IdentityFrom(c)
	if err := s.sessions.Revoke(c.UserContext(), identity.SessionID, identity.ExpiresAt); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "session revocation failed", slog.String("error", err.Error()))
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// GetSession handles GET /api/auth/session
// @Summary Current session user
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Router /auth/session [get]
func (s *Server) GetSession(c *fiber.Ctx) error {
	return s.GetMyProfile(c)
}
