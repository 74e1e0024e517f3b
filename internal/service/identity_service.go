// Package service implements the business operations behind the HTTP API.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"tingle/internal/auth"
	"tingle/internal/middleware"
	"tingle/internal/models"
	"tingle/internal/repository"
	"tingle/internal/validation"
)

// maxHandleRaces bounds retries when a concurrent sign-in claims the handle
// between the probe and the insert.
const maxHandleRaces = 5

// IdentityService maps provider identities onto local users.
type IdentityService struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
}

// NewIdentityService returns a new IdentityService.
func NewIdentityService(users repository.UserRepository, accounts repository.AccountRepository) *IdentityService {
	return &IdentityService{users: users, accounts: accounts}
}

// SignInInput is the identity asserted by a provider.
type SignInInput struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
	Image             string
}

// SignIn returns the user linked to the provider subject, linking by email or
// provisioning a new user with a derived handle when no link exists yet.
func (s *IdentityService) SignIn(ctx context.Context, in SignInInput) (*models.User, error) {
	if in.Provider == "" || in.ProviderAccountID == "" {
		return nil, models.NewValidationError("Provider identity is required")
	}

	account, err := s.accounts.GetByProvider(ctx, in.Provider, in.ProviderAccountID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return s.users.GetByID(ctx, account.UserID)
	}

	var user *models.User
	if in.Email != "" {
		if user, err = s.users.GetByEmail(ctx, in.Email); err != nil {
			return nil, err
		}
	}
	if user == nil {
		if user, err = s.provision(ctx, in); err != nil {
			return nil, err
		}
	}

	link := &models.Account{UserID: user.ID, Provider: in.Provider, ProviderAccountID: in.ProviderAccountID}
	if err := s.accounts.Create(ctx, link); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}
		existing, lookupErr := s.accounts.GetByProvider(ctx, in.Provider, in.ProviderAccountID)
		if lookupErr != nil || existing == nil {
			return nil, models.NewInternalError(err)
		}
		return s.users.GetByID(ctx, existing.UserID)
	}

	middleware.Logger.InfoContext(ctx, "account linked",
		slog.String("provider", in.Provider),
		slog.Uint64("user_id", uint64(user.ID)),
	)
	return user, nil
}

func (s *IdentityService) provision(ctx context.Context, in SignInInput) (*models.User, error) {
	base := HandleBase(in.Name, in.Email)
	next := 0

	for race := 0; race < maxHandleRaces; race++ {
		handle, suffix, err := s.freeHandle(ctx, base, next)
		if err != nil {
			return nil, err
		}

		user := &models.User{Name: in.Name, Username: handle, Image: in.Image}
		if in.Email != "" {
			email := in.Email
			user.Email = &email
		}
		err = s.users.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, err
		}

		// The email may have been claimed by a concurrent sign-in.
		if in.Email != "" {
			existing, lookupErr := s.users.GetByEmail(ctx, in.Email)
			if lookupErr != nil {
				return nil, lookupErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		next = suffix + 1
	}
	return nil, models.NewConflictError("Could not allocate a username, please retry")
}

// freeHandle probes base+suffix from the given suffix until an unused handle
// is found. Suffix 0 means the bare base.
func (s *IdentityService) freeHandle(ctx context.Context, base string, from int) (string, int, error) {
	for suffix := from; ; suffix++ {
		candidate := handleCandidate(base, suffix)
		taken, err := s.users.UsernameTaken(ctx, candidate, 0)
		if err != nil {
			return "", 0, err
		}
		if !taken {
			return candidate, suffix, nil
		}
	}
}

// HandleBase derives the handle stem from a display name, falling back to the
// email local part and then to "user".
func HandleBase(name, email string) string {
	if base := handleChars(name); base != "" {
		return base
	}
	local, _, _ := strings.Cut(email, "@")
	if base := handleChars(local); base != "" {
		return base
	}
	return "user"
}

func handleChars(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// handleCandidate keeps base+suffix within the username column width.
func handleCandidate(base string, suffix int) string {
	tail := ""
	if suffix > 0 {
		tail = strconv.Itoa(suffix)
	}
	if room := validation.UsernameMaxLength - len(tail); len(base) > room {
		base = base[:room]
	}
	return base + tail
}

// CredentialsLogin verifies a development credential account.
func (s *IdentityService) CredentialsLogin(ctx context.Context, email, password string) (*models.User, error) {
	invalid := models.NewUnauthorizedError("Invalid email or password")
	if email == "" || password == "" {
		return nil, invalid
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalid
	}
	account, err := s.accounts.GetForUser(ctx, user.ID, models.ProviderCredentials)
	if err != nil {
		return nil, err
	}
	if account == nil || !auth.CheckPassword(account.PasswordHash, password) {
		return nil, invalid
	}
	return user, nil
}

// EnsureCredentialAccount provisions or refreshes the development login.
func (s *IdentityService) EnsureCredentialAccount(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user, err := s.SignIn(ctx, SignInInput{
		Provider:          models.ProviderCredentials,
		ProviderAccountID: strings.ToLower(email),
		Email:             email,
		Name:              "Developer",
	})
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetForUser(ctx, user.ID, models.ProviderCredentials)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, models.NewInternalError(errors.New("credential account missing after sign-in"))
	}
	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, hash); err != nil {
		return nil, err
	}
	return user, nil
}
