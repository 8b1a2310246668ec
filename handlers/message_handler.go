package handlers

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/omondivictor/chirpnet/models"
	"github.com/omondivictor/chirpnet/services"
)

var validate = validator.New()

// Messaging is what the handlers need from the messaging service.
type Messaging interface {
	SendMessage(ctx context.Context, senderID, receiverID uuid.UUID, text string) (*models.Message, error)
	GetMessages(ctx context.Context, requesterID, otherUserID uuid.UUID) ([]models.Message, error)
	ListConversations(ctx context.Context, requesterID uuid.UUID) ([]services.ConversationSummary, error)
}

type MessageHandler struct {
	svc Messaging
}

func NewMessageHandler(svc Messaging) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type CreateMessageRequest struct {
	MessageBody string `json:"messageBody" validate:"required"`
}

// CreateMessage handles POST /api/messages/:receiverId.
func (h *MessageHandler) CreateMessage(c *fiber.Ctx) error {
	senderID, err := currentUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	receiverID, err := uuid.Parse(c.Params("receiverId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid receiver id")
	}

	var req CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Message body is required")
	}

	msg, err := h.svc.SendMessage(c.Context(), senderID, receiverID, req.MessageBody)
	if err != nil {
		return mapServiceError(err, "Failed to send message")
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetMessages handles GET /api/messages/:receiverId.
func (h *MessageHandler) GetMessages(c *fiber.Ctx) error {
	requesterID, err := currentUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	otherUserID, err := uuid.Parse(c.Params("receiverId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid receiver id")
	}

	messages, err := h.svc.GetMessages(c.Context(), requesterID, otherUserID)
	if err != nil {
		return mapServiceError(err, "Failed to fetch messages")
	}
	return c.JSON(messages)
}

// GetConversations handles GET and POST /api/conversations.
func (h *MessageHandler) GetConversations(c *fiber.Ctx) error {
	requesterID, err := currentUserID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	summaries, err := h.svc.ListConversations(c.Context(), requesterID)
	if err != nil {
		return mapServiceError(err, "Failed to fetch conversations")
	}
	return c.JSON(summaries)
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("missing token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("missing claims")
	}
	raw, _ := claims["user_id"].(string)
	return uuid.Parse(raw)
}

func mapServiceError(err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Message body is required")
	case errors.Is(err, services.ErrSelfMessage):
		return fiber.NewError(fiber.StatusBadRequest, "Cannot send a message to yourself")
	case errors.Is(err, services.ErrUnknownReceiver):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	case errors.Is(err, services.ErrConversationNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Conversation not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, fallback)
	}
}
