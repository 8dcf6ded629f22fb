package notify

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/medisetu/clinic-appointments/models"
)

const maxAttempts = 5

// Dispatcher writes booking messages into the notifications outbox and drains
// it. Post-commit the booking flow queues rows and kicks a drain in the
// background; the cron job retries failed rows later.
type Dispatcher struct {
	db       *gorm.DB
	email    EmailSender
	whatsapp WhatsAppSender
}

func NewDispatcher(db *gorm.DB, email EmailSender, whatsapp WhatsAppSender) *Dispatcher {
	return &Dispatcher{db: db, email: email, whatsapp: whatsapp}
}

// QueueBookingMessages records confirmation messages for a committed booking.
// Only the outbox insert can fail here; sending happens in Drain.
func (d *Dispatcher) QueueBookingMessages(appt *models.Appointment, doctor *models.User) error {
	when := fmt.Sprintf("%s at %s", appt.VisitDate.Format("Monday, 2 Jan 2006"), appt.StartTime)

	rows := []models.Notification{
		{
			AppointmentID: appt.ID,
			Channel:       models.ChannelWhatsApp,
			Recipient:     appt.PatientPhone,
			Body: fmt.Sprintf("Your appointment with Dr. %s is booked for %s (%s visit). Reference: %s.",
				doctor.Name, when, appt.VisitType, appt.Reference),
			Status: models.NotificationQueued,
		},
		{
			AppointmentID: appt.ID,
			Channel:       models.ChannelEmail,
			Recipient:     doctor.Email,
			Subject:       "New Appointment Booked",
			Body: fmt.Sprintf(`
				<p>Dear Dr. %s,</p>
				<p>A new appointment has been booked.</p>
				<ul>
					<li><strong>Patient:</strong> %s</li>
					<li><strong>Date:</strong> %s</li>
					<li><strong>Time:</strong> %s - %s</li>
					<li><strong>Visit Type:</strong> %s</li>
				</ul>
			`, doctor.Name, appt.PatientName, appt.VisitDate.Format("2006-01-02"), appt.StartTime, appt.EndTime, appt.VisitType),
			Status: models.NotificationQueued,
		},
	}

	if appt.PatientEmail != "" {
		rows = append(rows, models.Notification{
			AppointmentID: appt.ID,
			Channel:       models.ChannelEmail,
			Recipient:     appt.PatientEmail,
			Subject:       "Appointment Confirmation",
			Body: fmt.Sprintf(`
				<p>Dear %s,</p>
				<p>Your appointment has been booked.</p>
				<ul>
					<li><strong>Doctor:</strong> %s</li>
					<li><strong>Date:</strong> %s</li>
					<li><strong>Time:</strong> %s - %s</li>
					<li><strong>Visit Type:</strong> %s</li>
					<li><strong>Reference:</strong> %s</li>
				</ul>
				<p>Thank you for choosing our clinic!</p>
			`, appt.PatientName, doctor.Name, appt.VisitDate.Format("2006-01-02"), appt.StartTime, appt.EndTime, appt.VisitType, appt.Reference),
			Status: models.NotificationQueued,
		})
	}

	return d.db.Create(&rows).Error
}

// QueueMeetingLinkMessage tells the patient their online visit link, once the
// provisioner produced one.
func (d *Dispatcher) QueueMeetingLinkMessage(appt *models.Appointment) error {
	if appt.MeetingLink == "" || appt.PatientPhone == "" {
		return nil
	}
	row := models.Notification{
		AppointmentID: appt.ID,
		Channel:       models.ChannelWhatsApp,
		Recipient:     appt.PatientPhone,
		Body: fmt.Sprintf("Join link for your online appointment on %s at %s: %s",
			appt.VisitDate.Format("2 Jan 2006"), appt.StartTime, appt.MeetingLink),
		Status: models.NotificationQueued,
	}
	return d.db.Create(&row).Error
}

func (d *Dispatcher) send(n *models.Notification) error {
	switch n.Channel {
	case models.ChannelEmail:
		if d.email == nil {
			return fmt.Errorf("email sender not configured")
		}
		return d.email.Send(n.Recipient, n.Subject, n.Body)
	case models.ChannelWhatsApp:
		if d.whatsapp == nil {
			return fmt.Errorf("whatsapp sender not configured")
		}
		return d.whatsapp.Send(n.Recipient, n.Body)
	default:
		return fmt.Errorf("unknown channel %q", n.Channel)
	}
}

// Drain attempts delivery for up to limit queued or retryable rows. Failures
// are recorded on the row and logged, never returned to the booking flow.
func (d *Dispatcher) Drain(limit int) {
	var pending []models.Notification
	err := d.db.
		Where("status = ? OR (status = ? AND attempts < ?)",
			models.NotificationQueued, models.NotificationFailed, maxAttempts).
		Order("created_at asc").
		Limit(limit).
		Find(&pending).Error
	if err != nil {
		log.Printf("notify: failed to load outbox: %v", err)
		return
	}

	for i := range pending {
		n := &pending[i]
		n.Attempts++
		if err := d.send(n); err != nil {
			n.Status = models.NotificationFailed
			n.LastError = err.Error()
			log.Printf("notify: send failed for notification %d (%s to %s): %v", n.ID, n.Channel, n.Recipient, err)
		} else {
			now := time.Now()
			n.Status = models.NotificationSent
			n.LastError = ""
			n.SentAt = &now
		}
		if err := d.db.Save(n).Error; err != nil {
			log.Printf("notify: failed to update notification %d: %v", n.ID, err)
		}
	}
}
