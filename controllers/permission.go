package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/medisetu/clinic-appointments/db"
	"github.com/medisetu/clinic-appointments/models"
)

// GetAllRoles retrieves all roles with their permissions
func GetAllRoles(c *fiber.Ctx) error {
	var roles []models.Role
	if err := db.DB.Preload("Permissions").Find(&roles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get roles"})
	}
	return c.JSON(roles)
}

// CreateRole creates a new role
func CreateRole(c *fiber.Ctx) error {
	role := new(models.Role)
	if err := c.BodyParser(role); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}
	if err := db.DB.Create(role).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create role"})
	}
	return c.Status(fiber.StatusCreated).JSON(role)
}

// GetAllPermissions retrieves all permissions
func GetAllPermissions(c *fiber.Ctx) error {
	var permissions []models.Permission
	if err := db.DB.Find(&permissions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get permissions"})
	}
	return c.JSON(permissions)
}

// CreatePermission creates a new permission
func CreatePermission(c *fiber.Ctx) error {
	permission := new(models.Permission)
	if err := c.BodyParser(permission); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}
	if err := db.DB.Create(permission).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create permission"})
	}
	return c.Status(fiber.StatusCreated).JSON(permission)
}

type assignPermissionsInput struct {
	PermissionIDs []uint `json:"permission_ids"`
}

// AssignPermissions replaces a role's permission set
func AssignPermissions(c *fiber.Ctx) error {
	id := c.Params("id")
	var role models.Role
	if err := db.DB.First(&role, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Role not found"})
	}

	var input assignPermissionsInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	var permissions []models.Permission
	if len(input.PermissionIDs) > 0 {
		if err := db.DB.Where("id IN ?", input.PermissionIDs).Find(&permissions).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch permissions"})
		}
	}

	if err := db.DB.Model(&role).Association("Permissions").Replace(permissions); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to assign permissions"})
	}

	if err := db.DB.Preload("Permissions").First(&role, role.ID).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reload role"})
	}
	return c.JSON(role)
}
