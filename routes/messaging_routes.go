package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/omondivictor/chirpnet/handlers"
	"github.com/omondivictor/chirpnet/middleware"
)

func MessagingRoutes(app *fiber.App, h *handlers.MessageHandler) {
	api := app.Group("/api")

	messages := api.Group("/messages", middleware.Protected())
	messages.Post("/:receiverId", h.CreateMessage)
	messages.Get("/:receiverId", h.GetMessages)

	conversations := api.Group("/conversations", middleware.Protected())
	conversations.Get("", h.GetConversations)
	conversations.Post("", h.GetConversations)
}
