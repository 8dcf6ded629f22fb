package models

import (
	"time"
)

type User struct {
	ID                  uint               `json:"id" gorm:"primaryKey"`
	Name                string             `json:"name"`
	Email               string             `json:"email" gorm:"unique"`
	Password            string             `json:"password,omitempty"`
	Phone               string             `json:"phone"`
	Specialization      string             `json:"specialization"`
	ProfilePictureURL   string             `json:"profile_picture_url"`
	IsVerified          bool               `json:"is_verified"`
	OTP                 string             `json:"otp,omitempty"`
	OTPExpiresAt        time.Time          `json:"otp_expires_at,omitempty"`
	RoleID              uint               `json:"role_id"`
	Role                Role               `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	AvailabilityRules   []AvailabilityRule `json:"availability_rules,omitempty" gorm:"foreignKey:DoctorID"`
	DateOverrides       []DateOverride     `json:"date_overrides,omitempty" gorm:"foreignKey:DoctorID"`
	Appointments        []Appointment      `json:"appointments,omitempty" gorm:"foreignKey:DoctorID"`
	PatientAppointments []Appointment      `json:"patient_appointments,omitempty" gorm:"foreignKey:PatientID"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}
