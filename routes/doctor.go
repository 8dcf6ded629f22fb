package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisetu/clinic-appointments/controllers"
	"github.com/medisetu/clinic-appointments/middleware"
)

// SetupDoctorRoutes configures the admin surface for doctor accounts
func SetupDoctorRoutes(app *fiber.App) {
	admin := app.Group("/admin/doctors", middleware.Protected(), middleware.RequireRole("admin"))
	admin.Post("/", controllers.CreateDoctor)
	admin.Patch("/:id", controllers.UpdateDoctor)
}
