package models

import (
	"time"

	"gorm.io/gorm"
)

// DateOverride is a per-date exception to a doctor's weekly schedule.
// IsAvailable=false marks a holiday, IsAvailable=true a special working day.
// At most one override exists per (doctor, date); saves upsert on conflict.
type DateOverride struct {
	gorm.Model
	DoctorID    uint      `json:"doctor_id" gorm:"index;uniqueIndex:idx_doctor_date"`
	Doctor      User      `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Date        time.Time `json:"date" gorm:"type:date;uniqueIndex:idx_doctor_date"`
	IsAvailable bool      `json:"is_available"`
	Reason      string    `json:"reason"`
}
