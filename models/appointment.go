package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentWaived  PaymentStatus = "waived"
)

// Appointment is a committed reservation of one slot of a doctor's time.
// No two non-cancelled appointments may share (doctor, date, start_time);
// a partial unique index enforces this at the storage layer.
type Appointment struct {
	gorm.Model
	Reference     string            `json:"reference" gorm:"uniqueIndex;size:36"`
	DoctorID      uint              `json:"doctor_id" gorm:"index"`
	Doctor        User              `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	PatientID     uint              `json:"patient_id" gorm:"index"`
	Patient       User              `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	VisitDate     time.Time         `json:"visit_date" gorm:"type:date;index"`
	StartTime     string            `json:"start_time"` // "HH:MM:SS"
	EndTime       string            `json:"end_time"`   // "HH:MM:SS"
	VisitType     VisitType         `json:"visit_type"`
	Status        AppointmentStatus `json:"status"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	MeetingLink   string            `json:"meeting_link"`
	PatientName   string            `json:"patient_name"`
	PatientPhone  string            `json:"patient_phone"`
	PatientEmail  string            `json:"patient_email"`
	Notes         string            `json:"notes"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusPending
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentPending
	}
	return nil
}

// IsActive reports whether the appointment still occupies its slot.
func (a *Appointment) IsActive() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// UpdateStatus applies a lifecycle transition and persists it.
// pending -> confirmed/cancelled, confirmed -> completed/cancelled.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	switch a.Status {
	case StatusPending:
		if newStatus != StatusConfirmed && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from pending to %s", newStatus)
		}
	case StatusConfirmed:
		if newStatus != StatusCompleted && newStatus != StatusCancelled {
			return fmt.Errorf("invalid transition from confirmed to %s", newStatus)
		}
	case StatusCompleted, StatusCancelled:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	}

	a.Status = newStatus
	return tx.Save(a).Error
}
