package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/medisetu/clinic-appointments/db"
	"github.com/medisetu/clinic-appointments/models"
	"github.com/medisetu/clinic-appointments/scheduler"
	"github.com/medisetu/clinic-appointments/utils"
)

// GetDoctorUpcomingAppointments returns upcoming appointments for the
// logged-in doctor.
func GetDoctorUpcomingAppointments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User role not found in context"})
	}
	if role != "doctor" && role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied. Only doctors can access this endpoint."})
	}

	limit := 10
	if c.Query("limit") != "" {
		if parsedLimit := c.QueryInt("limit"); parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	now := time.Now().In(ClinicLoc)
	startDate := now
	endDate := now.AddDate(0, 0, 30)

	dateFilter := c.Query("filter", "month")
	switch dateFilter {
	case "today":
		endDate = startDate
	case "tomorrow":
		startDate = now.AddDate(0, 0, 1)
		endDate = startDate
	case "week":
		endDate = now.AddDate(0, 0, 7)
	case "month":
		endDate = now.AddDate(0, 1, 0)
	}

	var appointments []models.Appointment
	query := db.DB.
		Preload("Patient").
		Where("doctor_id = ?", userID).
		Where("visit_date >= ? AND visit_date <= ?", startDate.Format(models.DateLayout), endDate.Format(models.DateLayout)).
		Where("status IN ?", []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
		Order("visit_date asc, start_time asc").
		Limit(limit)

	if err := query.Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"appointments": appointments,
		"count":        len(appointments),
		"filter":       dateFilter,
		"start_date":   startDate.Format(models.DateLayout),
		"end_date":     endDate.Format(models.DateLayout),
	})
}

// GetDoctorAppointmentHistory returns past appointments for the logged-in
// doctor, paginated.
func GetDoctorAppointmentHistory(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}
	role, ok := c.Locals("role").(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User role not found in context"})
	}
	if role != "doctor" && role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied. Only doctors can access this endpoint."})
	}

	page := 1
	limit := 10
	if c.Query("page") != "" {
		if parsedPage := c.QueryInt("page"); parsedPage > 0 {
			page = parsedPage
		}
	}
	if c.Query("limit") != "" {
		if parsedLimit := c.QueryInt("limit"); parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	offset := (page - 1) * limit

	var statuses []models.AppointmentStatus
	status := c.Query("status")
	switch models.AppointmentStatus(status) {
	case models.StatusCompleted:
		statuses = []models.AppointmentStatus{models.StatusCompleted}
	case models.StatusCancelled:
		statuses = []models.AppointmentStatus{models.StatusCancelled}
	default:
		statuses = []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled}
	}

	var appointments []models.Appointment
	var total int64

	db.DB.Model(&models.Appointment{}).
		Where("doctor_id = ?", userID).
		Where("status IN ?", statuses).
		Count(&total)

	err := db.DB.
		Preload("Patient").
		Where("doctor_id = ?", userID).
		Where("status IN ?", statuses).
		Order("visit_date desc, start_time desc").
		Offset(offset).
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"appointments": appointments,
		"total":        total,
		"page":         page,
		"limit":        limit,
		"pages":        (total + int64(limit) - 1) / int64(limit),
		"status":       status,
	})
}

// GetAppointment returns one appointment, visible to its doctor, its patient
// or an admin.
func GetAppointment(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)

	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Patient").First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}

	if role != "admin" && appointment.DoctorID != userID && appointment.PatientID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}
	return c.JSON(appointment)
}

type statusInput struct {
	Status models.AppointmentStatus `json:"status"`
}

// UpdateAppointmentStatus moves an appointment through its lifecycle
// (confirm, complete, cancel). Cancelling vacates the slot, so the doctor's
// cached slot lists are invalidated.
func UpdateAppointmentStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}
	role, _ := c.Locals("role").(string)

	var input statusInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}

	// patients may only cancel their own booking; doctors/admins manage the rest
	switch role {
	case "admin":
	case "doctor":
		if appointment.DoctorID != userID {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
		}
	default:
		if appointment.PatientID != userID || input.Status != models.StatusCancelled {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
		}
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return appointment.UpdateStatus(tx, input.Status)
	})
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Invalid status transition",
			Error:   err.Error(),
		})
	}

	if input.Status == models.StatusCancelled {
		SlotCache.Invalidate(c.Context(), appointment.DoctorID)
	}

	return c.JSON(appointment)
}

type rescheduleInput struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
}

// RescheduleAppointment moves an active appointment to a new slot. It runs
// the same override/rule/conflict checks as a fresh booking, inside one
// transaction, excluding the appointment itself from the conflict check.
func RescheduleAppointment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID not found in context"})
	}
	role, _ := c.Locals("role").(string)

	var input rescheduleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	date, err := models.ParseDate(input.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "date must be in YYYY-MM-DD format"})
	}
	start, err := models.NormalizeClock(input.StartTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{Message: "start_time must be in HH:MM:SS format"})
	}

	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}

	if role != "admin" && appointment.DoctorID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Access denied"})
	}
	if !appointment.IsActive() {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Only pending or confirmed appointments can be rescheduled",
		})
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		txStore := scheduler.NewGormStore(tx)
		ctx := c.Context()

		ov, err := txStore.OverrideForDate(ctx, appointment.DoctorID, date)
		if err != nil {
			return err
		}
		if ov != nil && !ov.IsAvailable {
			return scheduler.ErrHolidayConflict
		}

		rules, err := txStore.ActiveRules(ctx, appointment.DoctorID, models.DayOfWeek(date.Weekday()))
		if err != nil {
			return err
		}
		rule := scheduler.MatchRule(rules, start, appointment.VisitType)
		if rule == nil {
			return scheduler.ErrScheduleChanged
		}

		var conflicts int64
		err = tx.Model(&models.Appointment{}).
			Where("doctor_id = ? AND visit_date = ? AND start_time = ? AND id <> ?",
				appointment.DoctorID, date.Format(models.DateLayout), start, appointment.ID).
			Where("status IN ?", []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
			Count(&conflicts).Error
		if err != nil {
			return err
		}
		if conflicts > 0 {
			return scheduler.ErrSlotTaken
		}

		startClock, _ := models.ParseClock(start)
		end := startClock.Add(time.Duration(rule.SlotDurationMin) * time.Minute).Format(models.ClockLayout)

		return tx.Model(&appointment).Updates(models.Appointment{
			VisitDate: date,
			StartTime: start,
			EndTime:   end,
		}).Error
	})
	if err != nil {
		return bookingError(c, err)
	}

	SlotCache.Invalidate(c.Context(), appointment.DoctorID)
	return c.JSON(appointment)
}
