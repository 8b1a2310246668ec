package routes

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	config "github.com/omondivictor/chirpnet/configs"
	ws "github.com/omondivictor/chirpnet/websocket"
)

// RealtimeRoutes mounts the push channel. It is deliberately outside
// the Protected() group: an anonymous connection is allowed, it just
// never gets registered for pushes.
func RealtimeRoutes(app *fiber.App, gateway *ws.Gateway) {
	app.Use("/api/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	app.Get("/api/ws", websocket.New(gateway.ServeWS(config.Config("JWT_SECRET"))))
}
