package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/medisetu/clinic-appointments/db"
	"github.com/medisetu/clinic-appointments/meet"
	"github.com/medisetu/clinic-appointments/models"
	"github.com/medisetu/clinic-appointments/notify"
)

// StartCronJobs starts the background jobs: appointment reminders every
// minute, plus retry sweeps for the notification outbox and for online
// appointments still missing a meeting link.
func StartCronJobs(dispatcher *notify.Dispatcher, provisioner meet.Provisioner, loc *time.Location) {
	fmt.Println("Starting cron job scheduler...")
	c := cron.New(cron.WithLocation(loc))

	_, err := c.AddFunc("* * * * *", func() { sendAppointmentReminders(dispatcher, loc) })
	if err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}
	_, err = c.AddFunc("*/2 * * * *", func() { dispatcher.Drain(50) })
	if err != nil {
		log.Fatalf("Failed to add outbox cron job: %v", err)
	}
	_, err = c.AddFunc("*/5 * * * *", func() { retryMissingMeetingLinks(dispatcher, provisioner) })
	if err != nil {
		log.Fatalf("Failed to add meeting link cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

// sendAppointmentReminders queues a reminder for confirmed appointments
// starting in roughly one hour.
func sendAppointmentReminders(dispatcher *notify.Dispatcher, loc *time.Location) {
	now := time.Now().In(loc)
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var appointments []models.Appointment
	err := db.DB.Preload("Doctor").
		Where("status = ? AND visit_date = ?", models.StatusConfirmed, now.Format(models.DateLayout)).
		Where("start_time BETWEEN ? AND ?",
			startWindow.Format(models.ClockLayout), endWindow.Format(models.ClockLayout)).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for i := range appointments {
		appt := &appointments[i]
		// one reminder per appointment; skip if we already queued one
		var count int64
		db.DB.Model(&models.Notification{}).
			Where("appointment_id = ? AND subject = ?", appt.ID, "Appointment Reminder").
			Count(&count)
		if count > 0 {
			continue
		}
		if appt.PatientEmail == "" {
			continue
		}

		reminder := models.Notification{
			AppointmentID: appt.ID,
			Channel:       models.ChannelEmail,
			Recipient:     appt.PatientEmail,
			Subject:       "Appointment Reminder",
			Body: fmt.Sprintf(`
				<p>Dear %s,</p>
				<p>This is a reminder for your upcoming appointment in one hour.</p>
				<ul>
					<li><strong>Doctor:</strong> %s</li>
					<li><strong>Time:</strong> %s - %s</li>
					<li><strong>Visit Type:</strong> %s</li>
				</ul>
				<p>Please arrive on time. If you need to reschedule or cancel, contact us as soon as possible.</p>
			`, appt.PatientName, appt.Doctor.Name, appt.StartTime, appt.EndTime, appt.VisitType),
			Status: models.NotificationQueued,
		}
		if err := db.DB.Create(&reminder).Error; err != nil {
			log.Printf("Failed to queue reminder for appointment %d: %v", appt.ID, err)
		}
	}

	dispatcher.Drain(50)
}

// retryMissingMeetingLinks picks up online appointments whose provisioning
// failed at booking time and tries again.
func retryMissingMeetingLinks(dispatcher *notify.Dispatcher, provisioner meet.Provisioner) {
	if provisioner == nil {
		return
	}

	var appointments []models.Appointment
	err := db.DB.
		Where("visit_type = ? AND meeting_link = ''", models.VisitOnline).
		Where("status IN ?", []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
		Where("visit_date >= ?", time.Now().Format(models.DateLayout)).
		Limit(20).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments without meeting links: %v", err)
		return
	}

	for i := range appointments {
		appt := &appointments[i]
		if meet.EnsureMeetingLink(context.Background(), db.DB, provisioner, appt) {
			if err := dispatcher.QueueMeetingLinkMessage(appt); err != nil {
				log.Printf("Failed to queue meeting link message for appointment %d: %v", appt.ID, err)
			}
		}
	}
}
