package server

import (
	"tingle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetConversations handles GET /api/messages
// @Summary List conversations
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Conversation
// @Router /messages [get]
func (s *Server) GetConversations(c *fiber.Ctx) error {
	convs, err := s.messageService.Conversations(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(convs)
}

// GetThread handles GET /api/messages/:userId
// @Summary Read the thread with a user
// @Description Returns messages newest first and marks the counterpart's messages as read
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Param userId path int true "Counterpart user ID"
// @Success 200 {array} models.MessageView
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{userId} [get]
func (s *Server) GetThread(c *fiber.Ctx) error {
	counterpartID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20, 0)
	messages, err := s.messageService.Thread(c.UserContext(), service.ThreadInput{
		UserID:        currentUserID(c),
		CounterpartID: counterpartID,
		Page:          page.Page,
		Limit:         page.Limit,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(messages)
}

// SendMessage handles POST /api/messages/:userId
// @Summary Send a direct message
// @Tags messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param userId path int true "Recipient user ID"
// @Param request body object{content=string} true "Message"
// @Success 201 {object} models.MessageView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{userId} [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	toUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	msg, err := s.messageService.Send(c.UserContext(), service.SendInput{
		FromUserID: currentUserID(c),
		ToUserID:   toUserID,
		Content:    req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
