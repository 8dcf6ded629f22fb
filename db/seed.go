package db

import (
	"log"

	"github.com/medisetu/clinic-appointments/models"
)

// SeedRolesAndPermissions creates the default roles and permissions when they
// do not exist yet. Safe to run on every boot.
func SeedRolesAndPermissions() {
	roles := []models.Role{
		{Name: "admin", Description: "Administrator with full access"},
		{Name: "doctor", Description: "Doctor who manages their schedule and appointments"},
		{Name: "patient", Description: "Patient who books appointments"},
	}

	for _, role := range roles {
		var existingRole models.Role
		if DB.Where("name = ?", role.Name).First(&existingRole).RowsAffected == 0 {
			DB.Create(&role)
		}
	}

	permissions := []models.Permission{
		{Name: "create_appointment", Description: "Create appointments", Resource: "appointments", Action: "create"},
		{Name: "read_appointments", Description: "View appointments", Resource: "appointments", Action: "read"},
		{Name: "update_appointment", Description: "Update appointments", Resource: "appointments", Action: "update"},
		{Name: "delete_appointment", Description: "Cancel appointments", Resource: "appointments", Action: "delete"},

		{Name: "create_schedule", Description: "Create schedule rules", Resource: "schedule", Action: "create"},
		{Name: "read_schedule", Description: "View schedule rules", Resource: "schedule", Action: "read"},
		{Name: "update_schedule", Description: "Update schedule rules", Resource: "schedule", Action: "update"},
		{Name: "delete_schedule", Description: "Delete schedule rules", Resource: "schedule", Action: "delete"},

		{Name: "create_doctor", Description: "Create doctor accounts", Resource: "doctors", Action: "create"},
		{Name: "read_doctors", Description: "View doctor list", Resource: "doctors", Action: "read"},
		{Name: "update_doctor", Description: "Update doctor accounts", Resource: "doctors", Action: "update"},

		{Name: "create_role", Description: "Create roles", Resource: "roles", Action: "create"},
		{Name: "read_roles", Description: "View roles", Resource: "roles", Action: "read"},
		{Name: "update_role", Description: "Update roles", Resource: "roles", Action: "update"},
	}

	for _, permission := range permissions {
		var existingPermission models.Permission
		if DB.Where("name = ?", permission.Name).First(&existingPermission).RowsAffected == 0 {
			DB.Create(&permission)
		}
	}

	// admin gets everything
	var adminRole models.Role
	if DB.Where("name = ?", "admin").First(&adminRole).RowsAffected > 0 {
		var allPermissions []models.Permission
		DB.Find(&allPermissions)
		DB.Model(&adminRole).Association("Permissions").Replace(allPermissions)
	}

	// doctors manage their schedule and appointments
	var doctorRole models.Role
	if DB.Where("name = ?", "doctor").First(&doctorRole).RowsAffected > 0 {
		var doctorPermissions []models.Permission
		DB.Where("resource IN ?", []string{"appointments", "schedule"}).Find(&doctorPermissions)
		DB.Model(&doctorRole).Association("Permissions").Replace(doctorPermissions)
	}

	// patients book and view appointments
	var patientRole models.Role
	if DB.Where("name = ?", "patient").First(&patientRole).RowsAffected > 0 {
		var patientPermissions []models.Permission
		DB.Where("name IN ?", []string{
			"create_appointment",
			"read_appointments",
			"delete_appointment",
		}).Find(&patientPermissions)
		DB.Model(&patientRole).Association("Permissions").Replace(patientPermissions)
	}

	log.Println("✅ Default roles and permissions seeded")
}
