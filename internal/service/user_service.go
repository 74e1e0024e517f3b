package service

import (
	"context"
	"strings"

	"tingle/internal/featureflags"
	"tingle/internal/models"
	"tingle/internal/repository"
	"tingle/internal/validation"
)

// UserService serves profiles, profile edits and user search.
type UserService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	flags   *featureflags.Manager
}

// NewUserService returns a new UserService. flags may be nil.
func NewUserService(users repository.UserRepository, follows repository.FollowRepository, flags *featureflags.Manager) *UserService {
	return &UserService{users: users, follows: follows, flags: flags}
}

func (s *UserService) loadUser(ctx context.Context, viewerID, id uint) (*models.User, error) {
	if s.flags.Enabled(featureflags.ProfileCache, viewerID) {
		return s.users.GetCachedByID(ctx, id)
	}
	return s.users.GetByID(ctx, id)
}

// GetProfile returns targetID's profile as seen by viewerID. Email is only
// included on the caller's own profile.
func (s *UserService) GetProfile(ctx context.Context, viewerID, targetID uint) (*models.Profile, error) {
	user, err := s.loadUser(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, viewerID, user)
}

func (s *UserService) buildProfile(ctx context.Context, viewerID uint, user *models.User) (*models.Profile, error) {
	counts, err := s.users.Counts(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	self := viewerID == user.ID
	following := false
	if !self {
		if following, err = s.follows.Exists(ctx, viewerID, user.ID); err != nil {
			return nil, err
		}
	}

	profile := &models.Profile{
		ID:             user.ID,
		Name:           user.Name,
		Username:       user.Username,
		Image:          user.Image,
		CoverImage:     user.CoverImage,
		Bio:            user.Bio,
		CreatedAt:      user.CreatedAt,
		FollowingCount: counts.Following,
		FollowersCount: counts.Followers,
		PostsCount:     counts.Posts,
		IsFollowing:    following,
		IsCurrentUser:  self,
	}
	if self {
		profile.Email = user.Email
	}
	return profile, nil
}

// UpdateProfileInput carries the fields to change; nil fields are kept.
type UpdateProfileInput struct {
	UserID     uint
	Name       *string
	Username   *string
	Bio        *string
	Image      *string
	CoverImage *string
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	fields := make(map[string]any)

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ValidateName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["name"] = name
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		taken, err := s.users.UsernameTaken(ctx, username, in.UserID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewValidationError("Username is already taken")
		}
		fields["username"] = username
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["bio"] = *in.Bio
	}
	if in.Image != nil {
		fields["image"] = strings.TrimSpace(*in.Image)
	}
	if in.CoverImage != nil {
		fields["cover_image"] = strings.TrimSpace(*in.CoverImage)
	}

	if err := s.users.UpdateFields(ctx, in.UserID, fields); err != nil {
		if models.ErrorCode(err) == models.CodeConflict {
			return nil, models.NewValidationError("Username is already taken")
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	return s.buildProfile(ctx, in.UserID, user)
}

// SearchInput is a user search request.
type SearchInput struct {
	ViewerID uint
	Query    string
	Page     int
	Limit    int
}

// Search matches name or username and annotates each hit for the viewer.
func (s *UserService) Search(ctx context.Context, in SearchInput) ([]models.UserListItem, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}

	users, _, err := s.users.Search(ctx, query, in.Limit, offset(in.Page, in.Limit))
	if err != nil {
		return nil, err
	}
	return annotateUsers(ctx, s.follows, in.ViewerID, users)
}

// annotateUsers builds list items, in the order of users, with the viewer's
// follow flags resolved in one query.
func annotateUsers(ctx context.Context, follows repository.FollowRepository, viewerID uint, users []models.User) ([]models.UserListItem, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	set, err := follows.FollowingSet(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.UserListItem, 0, len(users))
	for _, u := range users {
		item := models.UserListItem{
			ID:            u.ID,
			Name:          u.Name,
			Username:      u.Username,
			Image:         u.Image,
			Bio:           u.Bio,
			IsFollowing:   u.ID != viewerID && set[u.ID],
			IsCurrentUser: u.ID == viewerID,
		}
		items = append(items, item)
	}
	return items, nil
}
