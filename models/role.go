package models

import (
	"gorm.io/gorm"
)

// Role is one of the three account kinds the platform knows: admin, doctor
// and patient. Seeded at boot, extendable through the RBAC surface.
type Role struct {
	gorm.Model
	Name        string       `json:"name" gorm:"unique"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
}
