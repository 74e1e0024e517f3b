package server

import (
	"context"
	"strings"

	"tingle/internal/models"
	"tingle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
// @Summary Get own profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	profile, err := s.userService.GetProfile(c.UserContext(), userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PATCH /api/users/me
// @Summary Update own profile
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,username=string,bio=string,image=string,coverImage=string} true "Fields to change"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Router /users/me [patch]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Name       *string `json:"name"`
		Username   *string `json:"username"`
		Bio        *string `json:"bio"`
		Image      *string `json:"image"`
		CoverImage *string `json:"coverImage"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	profile, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:     currentUserID(c),
		Name:       req.Name,
		Username:   req.Username,
		Bio:        req.Bio,
		Image:      req.Image,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// SearchUsers handles GET /api/users/search?q=...
// @Summary Search users by name or username
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param q query string true "Search text"
// @Param page query int false "Page" default(1)
// @Param limit query int false "Limit" default(20)
// @Success 200 {array} models.UserListItem
// @Failure 400 {object} models.ErrorResponse
// @Router /users/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 20, 0)
	users, err := s.userService.Search(c.UserContext(), service.SearchInput{
		ViewerID: currentUserID(c),
		Query:    strings.TrimSpace(c.Query("q")),
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetSuggestions handles GET /api/users/suggestions
// @Summary Who to follow
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit" default(5)
// @Success 200 {array} models.UserListItem
// @Router /users/suggestions [get]
func (s *Server) GetSuggestions(c *fiber.Ctx) error {
	page := parsePagination(c, 5, 20)
	items, err := s.suggestionService.Suggest(c.UserContext(), currentUserID(c), page.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(items)
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user's profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// GetUserPosts handles GET /api/users/:id/posts
// @Summary List a user's posts
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.PostView
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 10, 0)
	posts, err := s.postService.ListUserPosts(c.UserContext(), service.ListUserPostsInput{
		ViewerID: currentUserID(c),
		AuthorID: id,
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// FollowUser handles POST /api/users/:id/follow
// @Summary Follow a user
// @Tags graph
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.graphService.Follow(c.UserContext(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User followed successfully"})
}

// UnfollowUser handles DELETE /api/users/:id/follow
// @Summary Unfollow a user
// @Tags graph
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Router /users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.graphService.Unfollow(c.UserContext(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User unfollowed successfully"})
}

// GetFollowers handles GET /api/users/:id/followers
// @Summary List followers
// @Tags graph
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.Page[models.UserListItem]
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	return s.listEdges(c, s.graphService.Followers)
}

// GetFollowing handles GET /api/users/:id/following
// @Summary List followed users
// @Tags graph
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.Page[models.UserListItem]
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	return s.listEdges(c, s.graphService.Following)
}

func (s *Server) listEdges(c *fiber.Ctx, list func(ctx context.Context, in service.ListEdgesInput) (models.Page[models.UserListItem], error)) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20, 0)
	result, err := list(c.UserContext(), service.ListEdgesInput{
		ViewerID: currentUserID(c),
		UserID:   id,
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}
