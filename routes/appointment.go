package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisetu/clinic-appointments/controllers"
	"github.com/medisetu/clinic-appointments/middleware"
)

// SetupAppointmentRoutes configures all appointment related routes
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/appointments", middleware.Protected())
	appointment.Get("/upcoming", controllers.GetDoctorUpcomingAppointments)
	appointment.Get("/history", controllers.GetDoctorAppointmentHistory)
	appointment.Get("/:id", controllers.GetAppointment)
	appointment.Patch("/:id/status", controllers.UpdateAppointmentStatus)
	appointment.Patch("/:id/reschedule", controllers.RescheduleAppointment)
}
