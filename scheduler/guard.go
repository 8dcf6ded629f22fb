package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medisetu/clinic-appointments/models"
)

// Booking rejection reasons. Each maps to a distinct user-facing message at
// the HTTP layer; anything else coming out of AttemptBooking is an
// infrastructure failure.
var (
	ErrHolidayConflict  = errors.New("doctor is not available on this date")
	ErrScheduleChanged  = errors.New("slot no longer matches the doctor's schedule")
	ErrSlotTaken        = errors.New("slot is already booked")
	ErrValidationFailed = errors.New("invalid booking request")
)

// Store is the authoritative state the guard re-checks against. Implemented
// over gorm in store.go; tests substitute in-memory fakes.
type Store interface {
	OverrideForDate(ctx context.Context, doctorID uint, date time.Time) (*models.DateOverride, error)
	ActiveRules(ctx context.Context, doctorID uint, weekday models.DayOfWeek) ([]models.AvailabilityRule, error)
	ActiveBookingExists(ctx context.Context, doctorID uint, date time.Time, start string) (bool, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	Transaction(ctx context.Context, fn func(Store) error) error
}

// BookingRequest carries everything needed to commit one booking.
type BookingRequest struct {
	DoctorID  uint
	PatientID uint
	Date      time.Time
	Start     string // "HH:MM:SS"
	VisitType models.VisitType

	PatientName  string
	PatientPhone string
	PatientEmail string
	Notes        string
}

// Guard revalidates a booking against authoritative state immediately before
// insert. The slot list shown to the patient is computed from a snapshot that
// can be stale by the time they submit; the guard closes most of that window,
// and the partial unique index on (doctor_id, visit_date, start_time) closes
// the rest.
type Guard struct {
	store Store
}

func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

func (g *Guard) validate(req *BookingRequest) error {
	if req.DoctorID == 0 {
		return fmt.Errorf("%w: doctor is required", ErrValidationFailed)
	}
	if req.PatientName == "" {
		return fmt.Errorf("%w: patient name is required", ErrValidationFailed)
	}
	if req.PatientPhone == "" {
		return fmt.Errorf("%w: patient phone is required", ErrValidationFailed)
	}
	if req.VisitType != models.VisitOnline && req.VisitType != models.VisitPhysical {
		return fmt.Errorf("%w: visit type must be online or physical", ErrValidationFailed)
	}
	start, err := models.NormalizeClock(req.Start)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	req.Start = start
	return nil
}

// MatchRule finds the active rule whose window contains the requested start
// on the slot grid, i.e. the start aligns to the rule's slot duration and the
// full slot fits inside [start, end). Shared by the booking guard and the
// reschedule flow.
func MatchRule(rules []models.AvailabilityRule, start string, visitType models.VisitType) *models.AvailabilityRule {
	reqStart, err := models.ParseClock(start)
	if err != nil {
		return nil
	}
	for i := range rules {
		rule := &rules[i]
		if !rule.VisitTypes.Contains(visitType) {
			continue
		}
		ruleStart, err := models.ParseClock(rule.StartTime)
		if err != nil {
			continue
		}
		ruleEnd, err := models.ParseClock(rule.EndTime)
		if err != nil {
			continue
		}
		step := time.Duration(rule.SlotDurationMin) * time.Minute
		offset := reqStart.Sub(ruleStart)
		if offset < 0 || offset%step != 0 {
			continue
		}
		if reqStart.Add(step).After(ruleEnd) {
			continue
		}
		return rule
	}
	return nil
}

// AttemptBooking runs the holiday, schedule and conflict re-checks and the
// insert inside one transaction. On success the appointment is committed with
// status=pending; meeting links and notifications are the caller's business
// and must never roll it back.
func (g *Guard) AttemptBooking(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if err := g.validate(&req); err != nil {
		return nil, err
	}

	var appt *models.Appointment
	err := g.store.Transaction(ctx, func(tx Store) error {
		ov, err := tx.OverrideForDate(ctx, req.DoctorID, req.Date)
		if err != nil {
			return fmt.Errorf("fetch override: %w", err)
		}
		if ov != nil && !ov.IsAvailable {
			return ErrHolidayConflict
		}

		rules, err := tx.ActiveRules(ctx, req.DoctorID, models.DayOfWeek(req.Date.Weekday()))
		if err != nil {
			return fmt.Errorf("fetch rules: %w", err)
		}
		rule := MatchRule(rules, req.Start, req.VisitType)
		if rule == nil {
			return ErrScheduleChanged
		}

		taken, err := tx.ActiveBookingExists(ctx, req.DoctorID, req.Date, req.Start)
		if err != nil {
			return fmt.Errorf("fetch bookings: %w", err)
		}
		if taken {
			return ErrSlotTaken
		}

		reqStart, _ := models.ParseClock(req.Start)
		end := reqStart.Add(time.Duration(rule.SlotDurationMin) * time.Minute)

		appt = &models.Appointment{
			Reference:     uuid.NewString(),
			DoctorID:      req.DoctorID,
			PatientID:     req.PatientID,
			VisitDate:     req.Date,
			StartTime:     req.Start,
			EndTime:       end.Format(models.ClockLayout),
			VisitType:     req.VisitType,
			Status:        models.StatusPending,
			PaymentStatus: models.PaymentPending,
			PatientName:   req.PatientName,
			PatientPhone:  req.PatientPhone,
			PatientEmail:  req.PatientEmail,
			Notes:         req.Notes,
		}
		// The unique index is the authoritative defense: two guards can both
		// pass the check above, only one insert wins.
		return tx.CreateAppointment(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}
