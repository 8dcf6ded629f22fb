package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisetu/clinic-appointments/controllers"
	"github.com/medisetu/clinic-appointments/middleware"
)

// SetupRBACRoutes configures all RBAC related routes
func SetupRBACRoutes(app *fiber.App) {
	rbac := app.Group("/rbac", middleware.Protected())

	// Roles
	rbac.Get("/roles", middleware.RequirePermission("roles", "read"), controllers.GetAllRoles)
	rbac.Post("/roles", middleware.RequireRole("admin"), controllers.CreateRole)
	rbac.Post("/roles/:id/permissions", middleware.RequireRole("admin"), controllers.AssignPermissions)

	// Permissions
	rbac.Get("/permissions", middleware.RequireRole("admin"), controllers.GetAllPermissions)
	rbac.Post("/permissions", middleware.RequireRole("admin"), controllers.CreatePermission)
}
