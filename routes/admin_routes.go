package routes

import (
	"github.com/anjiri1684/school_cbt/handlers"
	"github.com/anjiri1684/school_cbt/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Post("/academic-sessions", handlers.CreateAcademicSession)
	admin.Get("/academic-sessions", handlers.ListAcademicSessions)

	classes := admin.Group("/classes")
	classes.Post("", handlers.CreateClass)
	classes.Get("", handlers.ListClasses)
	classes.Post("/:class_id/students", handlers.EnrollClassStudents)

	admin.Post("/subjects", handlers.CreateSubject)
	admin.Get("/subjects", handlers.ListSubjects)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Post("", handlers.CreateStaffUser)
	users.Put("/:user_id/status", handlers.ToggleUserStatus)

	admin.Put("/payment-priority", handlers.SetPaymentPriority)
}
