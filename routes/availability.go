package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisetu/clinic-appointments/controllers"
	"github.com/medisetu/clinic-appointments/middleware"
)

// SetupAvailabilityRoutes configures the doctor-facing schedule surface:
// weekly rules and date overrides.
func SetupAvailabilityRoutes(app *fiber.App) {
	schedule := app.Group("/doctors/me/schedule", middleware.Protected(), middleware.RequireRole("doctor"))
	schedule.Get("/", controllers.GetMySchedule)
	schedule.Put("/", controllers.ReplaceMySchedule)

	overrides := app.Group("/doctors/me/overrides", middleware.Protected(), middleware.RequireRole("doctor"))
	overrides.Get("/", controllers.ListMyOverrides)
	overrides.Put("/", controllers.UpsertMyOverride)
	overrides.Delete("/:id", controllers.DeleteMyOverride)
}
