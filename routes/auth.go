package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisetu/clinic-appointments/controllers"
	"github.com/medisetu/clinic-appointments/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", controllers.Register)
	auth.Post("/login", controllers.Login)
	auth.Post("/verify-otp", controllers.VerifyOTP)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetMyProfile)
	auth.Post("/me/picture", middleware.Protected(), controllers.UpdateMyProfilePicture)
}
