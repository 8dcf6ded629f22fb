package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisetu/clinic-appointments/controllers"
	"github.com/medisetu/clinic-appointments/middleware"
)

// SetupBookingRoutes configures the public booking surface: the doctor
// picker, the monthly calendar, the slot list and booking creation.
func SetupBookingRoutes(app *fiber.App) {
	doctors := app.Group("/doctors")
	doctors.Get("/", controllers.ListDoctors)
	doctors.Get("/:id", controllers.GetDoctor)
	doctors.Get("/:id/calendar", controllers.GetDoctorCalendar)
	doctors.Get("/:id/slots", controllers.GetDoctorSlots)

	app.Post("/bookings", middleware.Protected(), controllers.CreateBooking)
}
