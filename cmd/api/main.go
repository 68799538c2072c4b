package main

import (
	"fmt"
	"time"

	config "github.com/anjiri1684/school_cbt/configs"
	"github.com/anjiri1684/school_cbt/database"
	"github.com/anjiri1684/school_cbt/handlers"
	"github.com/anjiri1684/school_cbt/jobs"
	applogger "github.com/anjiri1684/school_cbt/logger"
	"github.com/anjiri1684/school_cbt/notifications"
	"github.com/anjiri1684/school_cbt/routes"
	"github.com/anjiri1684/school_cbt/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	sync := applogger.Init(config.Config("APP_ENV") == "production")
	defer sync()

	database.ConnectDB()
	database.Migrate()
	database.SeedAdmin()
	notifications.InitEmailService()

	go websocket.DefaultHub.Run()

	c := cron.New()
	if _, err := c.AddFunc("* * * * *", jobs.AutoSubmitExpiredCbtAttempts); err != nil {
		applogger.Log.Fatal("🔥 Failed to schedule cbt auto submit job", zap.Error(err))
	}
	c.Start()
	defer c.Stop()
	applogger.Log.Info("✅ Cron job for cbt auto submission scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:           false,
		AppName:           "School CBT",
		CaseSensitive:     true,
		StrictRouting:     true,
		EnablePrintRoutes: config.Config("APP_ENV") != "production",
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorHandler:      handlers.ErrorHandler,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.ConfigDefault("CORS_ALLOW_ORIGINS", "*"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   config.ConfigDefault("TZ", "Africa/Lagos"),
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to School CBT API",
		})
	})

	routes.AuthRoutes(app)
	routes.AdminRoutes(app)
	routes.CbtRoutes(app)
	routes.UploadRoutes(app)
	routes.MonitorRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	port := config.ConfigDefault("PORT", "8080")
	applogger.Log.Info("✅ Server is starting", zap.String("port", port))
	if err := app.Listen(fmt.Sprintf(":%s", port)); err != nil {
		applogger.Log.Fatal("🔥 Server failed to start", zap.Error(err))
	}
}
