package controllers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/medisetu/clinic-appointments/db"
	"github.com/medisetu/clinic-appointments/meet"
	"github.com/medisetu/clinic-appointments/models"
	"github.com/medisetu/clinic-appointments/scheduler"
	"github.com/medisetu/clinic-appointments/utils"
)

// GetDoctorCalendar returns a date -> bookable map for one month, used to
// gray out dates in the picker without generating full slot lists.
func GetDoctorCalendar(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil || doctorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "Invalid doctor id"})
	}

	month := c.Query("month") // "2006-01"
	first, err := time.ParseInLocation("2006-01", month, ClinicLoc)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "month must be in YYYY-MM format"})
	}

	ctx := c.Context()
	rules, err := Store.WeeklyRules(ctx, uint(doctorID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{Message: "Failed to fetch schedule", Error: err.Error()})
	}
	overrides, err := Store.OverridesFrom(ctx, uint(doctorID), first)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{Message: "Failed to fetch overrides", Error: err.Error()})
	}

	days := make(map[string]bool)
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days[d.Format(models.DateLayout)] = scheduler.IsDateBookable(d, rules, overrides)
	}

	return c.JSON(fiber.Map{
		"doctor_id": doctorID,
		"month":     month,
		"days":      days,
	})
}

// GetDoctorSlots resolves the bookable slots for one doctor, date and visit
// type. Responses are cached briefly; any booking or schedule write for the
// doctor invalidates the cache.
func GetDoctorSlots(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil || doctorID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "Invalid doctor id"})
	}

	date, err := models.ParseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "date must be in YYYY-MM-DD format"})
	}
	visitType := models.VisitType(c.Query("visit_type", string(models.VisitPhysical)))
	if visitType != models.VisitOnline && visitType != models.VisitPhysical {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "visit_type must be online or physical"})
	}

	ctx := c.Context()
	if slots, ok := SlotCache.Get(ctx, uint(doctorID), date, visitType); ok {
		return c.JSON(fiber.Map{"date": c.Query("date"), "visit_type": visitType, "slots": slots, "cached": true})
	}

	rules, err := Store.WeeklyRules(ctx, uint(doctorID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{Message: "Failed to fetch schedule", Error: err.Error()})
	}
	overrides, err := Store.OverridesFrom(ctx, uint(doctorID), date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{Message: "Failed to fetch overrides", Error: err.Error()})
	}
	bookings, err := Store.BookingsForDate(ctx, uint(doctorID), date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{Message: "Failed to fetch bookings", Error: err.Error()})
	}

	slots := scheduler.ResolveSlots(date, visitType, rules, overrides, bookings, time.Now().In(ClinicLoc))
	SlotCache.Store(ctx, uint(doctorID), date, visitType, slots)

	return c.JSON(fiber.Map{"date": c.Query("date"), "visit_type": visitType, "slots": slots})
}

type bookingInput struct {
	DoctorID     uint             `json:"doctor_id"`
	Date         string           `json:"date"`
	StartTime    string           `json:"start_time"`
	VisitType    models.VisitType `json:"visit_type"`
	PatientName  string           `json:"patient_name"`
	PatientPhone string           `json:"patient_phone"`
	PatientEmail string           `json:"patient_email"`
	Notes        string           `json:"notes"`
}

// CreateBooking commits a booking through the guard and kicks off the
// best-effort side tasks (meeting link, notifications) after commit.
func CreateBooking(c *fiber.Ctx) error {
	var input bookingInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	date, err := models.ParseDate(input.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "date must be in YYYY-MM-DD format",
			Code:    "validation_failed",
		})
	}

	patientID, _ := c.Locals("userID").(uint)

	appt, err := Guard.AttemptBooking(c.Context(), scheduler.BookingRequest{
		DoctorID:     input.DoctorID,
		PatientID:    patientID,
		Date:         date,
		Start:        input.StartTime,
		VisitType:    input.VisitType,
		PatientName:  input.PatientName,
		PatientPhone: input.PatientPhone,
		PatientEmail: input.PatientEmail,
		Notes:        input.Notes,
	})
	if err != nil {
		return bookingError(c, err)
	}

	// slot lists for this doctor are stale now
	SlotCache.Invalidate(c.Context(), appt.DoctorID)

	// Post-commit side effects. The booking is already authoritative; none of
	// this may fail the request.
	go finalizeBooking(appt.ID)

	return c.Status(fiber.StatusCreated).JSON(appt)
}

// bookingError maps guard rejections to HTTP responses. The code field lets
// the client refresh its slot list on slot_taken.
func bookingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, scheduler.ErrValidationFailed):
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Booking request is invalid", Error: err.Error(), Code: "validation_failed",
		})
	case errors.Is(err, scheduler.ErrHolidayConflict):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "The doctor is not available on this date", Code: "holiday_conflict",
		})
	case errors.Is(err, scheduler.ErrScheduleChanged):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "The doctor's schedule has changed, please pick another slot", Code: "schedule_changed",
		})
	case errors.Is(err, scheduler.ErrSlotTaken):
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "This slot was just booked by someone else", Code: "slot_taken",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create booking", Error: err.Error(), Code: "internal",
		})
	}
}

// finalizeBooking runs after the booking transaction committed: provision the
// meeting link for online visits and queue/drain notifications.
func finalizeBooking(appointmentID uint) {
	var appt models.Appointment
	if err := db.DB.Preload("Doctor").First(&appt, appointmentID).Error; err != nil {
		log.Printf("booking: failed to load appointment %d for side tasks: %v", appointmentID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	linked := meet.EnsureMeetingLink(ctx, db.DB, Provisioner, &appt)

	if err := Dispatcher.QueueBookingMessages(&appt, &appt.Doctor); err != nil {
		log.Printf("booking: failed to queue messages for appointment %d: %v", appt.ID, err)
	}
	if linked {
		if err := Dispatcher.QueueMeetingLinkMessage(&appt); err != nil {
			log.Printf("booking: failed to queue meeting link message for appointment %d: %v", appt.ID, err)
		}
	}
	Dispatcher.Drain(10)
}
