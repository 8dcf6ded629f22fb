package models

import (
	"gorm.io/gorm"
)

// Permission grants one action on one resource, e.g. ("schedule", "update").
type Permission struct {
	gorm.Model
	Name        string `json:"name" gorm:"unique"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
	Roles       []Role `json:"roles,omitempty" gorm:"many2many:role_permissions;"`
}
