package routes

import (
	"github.com/anjiri1684/school_cbt/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// MonitorRoutes authenticates inside the socket, since browsers cannot send
// an Authorization header on the upgrade request.
func MonitorRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws/cbt", websocket.New(handlers.ServeCbtMonitor))
}
