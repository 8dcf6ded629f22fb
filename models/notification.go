package models

import (
	"time"

	"gorm.io/gorm"
)

type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelWhatsApp NotificationChannel = "whatsapp"
)

type NotificationStatus string

const (
	NotificationQueued NotificationStatus = "queued"
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Notification is an outbox row written after a booking commits. Delivery is
// best effort: the dispatcher drains queued rows and the cron job retries
// failed ones, but a send failure never touches the appointment itself.
type Notification struct {
	gorm.Model
	AppointmentID uint                `json:"appointment_id" gorm:"index"`
	Appointment   Appointment         `json:"appointment,omitempty" gorm:"foreignKey:AppointmentID"`
	Channel       NotificationChannel `json:"channel"`
	Recipient     string              `json:"recipient"`
	Subject       string              `json:"subject"`
	Body          string              `json:"body"`
	Status        NotificationStatus  `json:"status" gorm:"index;default:queued"`
	Attempts      int                 `json:"attempts"`
	LastError     string              `json:"last_error"`
	SentAt        *time.Time          `json:"sent_at,omitempty"`
}
