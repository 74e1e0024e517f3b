package server

import (
	"tingle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/users/notifications
// @Summary List notifications
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page" default(1)
// @Param limit query int false "Limit" default(20)
// @Param unreadOnly query bool false "Only unread"
// @Success 200 {object} models.Page[models.NotificationItem]
// @Router /users/notifications [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	page := parsePagination(c, 20, 0)
	result, err := s.notificationService.List(c.UserContext(), service.ListNotificationsInput{
		UserID:     currentUserID(c),
		UnreadOnly: c.QueryBool("unreadOnly", false),
		Page:       page.Page,
		Limit:      page.Limit,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// MarkNotificationsRead handles PATCH /api/users/notifications
// @Summary Mark notifications as read
// @Tags notifications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{notificationIds=[]int,all=bool} true "Selection"
// @Success 200 {object} object{message=string,updated=int}
// @Failure 400 {object} models.ErrorResponse
// @Router /users/notifications [patch]
func (s *Server) MarkNotificationsRead(c *fiber.Ctx) error {
	var req struct {
		NotificationIDs []uint `json:"notificationIds"`
		All             bool   `json:"all"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	updated, err := s.notificationService.MarkRead(c.UserContext(), service.MarkReadInput{
		UserID: currentUserID(c),
		IDs:    req.NotificationIDs,
		All:    req.All,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Notifications marked as read",
		"updated": updated,
	})
}

// GetUnreadCount handles GET /api/users/notifications/unread-count
// @Summary Unread notification count
// @Tags notifications
// @Security BearerAuth
// @Success 200 {object} object{count=int}
// @Router /users/notifications/unread-count [get]
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	count, err := s.notificationService.UnreadCount(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
