package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	config "github.com/omondivictor/chirpnet/configs"
	"github.com/omondivictor/chirpnet/database"
	"github.com/omondivictor/chirpnet/handlers"
	"github.com/omondivictor/chirpnet/jobs"
	"github.com/omondivictor/chirpnet/presence"
	"github.com/omondivictor/chirpnet/routes"
	"github.com/omondivictor/chirpnet/services"
	"github.com/omondivictor/chirpnet/store"
	ws "github.com/omondivictor/chirpnet/websocket"
	"github.com/robfig/cron/v3"
)

func main() {
	db := database.Connect()
	database.Migrate(db)
	database.SeedAdmin(db)

	registry := presence.NewRegistry()
	gateway := ws.NewGateway(registry)

	messagingService := services.NewMessagingService(
		store.NewConversationStore(db),
		store.NewMessageStore(db),
		store.NewUserStore(db),
		gateway,
	)
	messageHandler := handlers.NewMessageHandler(messagingService)

	c := cron.New()
	c.AddFunc("* * * * *", jobs.SweepStaleConnections(gateway))
	c.Start()
	defer c.Stop()
	log.Println("✅ Cron job for stale connection sweep scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "Chirpnet",
		CaseSensitive: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "An unknown error occurred."
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			} else if err != nil {
				message = err.Error()
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{"message": message})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Chirpnet API",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	routes.MessagingRoutes(app, messageHandler)
	routes.RealtimeRoutes(app, gateway)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Not Found - %s", c.OriginalURL()))
	})

	port := config.Config("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
