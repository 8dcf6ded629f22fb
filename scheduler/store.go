package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/medisetu/clinic-appointments/models"
)

// GormStore backs the guard and the schedule editor with Postgres via gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) OverrideForDate(ctx context.Context, doctorID uint, date time.Time) (*models.DateOverride, error) {
	var ov models.DateOverride
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, date.Format(models.DateLayout)).
		First(&ov).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ov, nil
}

func (s *GormStore) ActiveRules(ctx context.Context, doctorID uint, weekday models.DayOfWeek) ([]models.AvailabilityRule, error) {
	var rules []models.AvailabilityRule
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND day_of_week = ? AND is_active = ?", doctorID, weekday, true).
		Order("start_time asc").
		Find(&rules).Error
	return rules, err
}

func (s *GormStore) ActiveBookingExists(ctx context.Context, doctorID uint, date time.Time, start string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND visit_date = ? AND start_time = ?", doctorID, date.Format(models.DateLayout), start).
		Where("status IN ?", []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	err := s.db.WithContext(ctx).Create(appt).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// the partial unique index on (doctor_id, visit_date, start_time)
		// fired: somebody else committed this slot first
		return ErrSlotTaken
	}
	return err
}

// WeeklyRules returns every rule of a doctor, active or not, for the schedule
// editor and the resolver endpoints.
func (s *GormStore) WeeklyRules(ctx context.Context, doctorID uint) ([]models.AvailabilityRule, error) {
	var rules []models.AvailabilityRule
	err := s.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("day_of_week asc, start_time asc").
		Find(&rules).Error
	return rules, err
}

// ReplaceWeeklyRules swaps a doctor's whole weekly schedule in one
// transaction: delete everything, insert the new set. Last write wins;
// concurrent saves from two sessions are not merged.
func (s *GormStore) ReplaceWeeklyRules(ctx context.Context, doctorID uint, rules []models.AvailabilityRule) error {
	for i := range rules {
		rules[i].DoctorID = doctorID
		start, err := models.NormalizeClock(rules[i].StartTime)
		if err == nil {
			rules[i].StartTime = start
		}
		end, err := models.NormalizeClock(rules[i].EndTime)
		if err == nil {
			rules[i].EndTime = end
		}
		if err := rules[i].Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("doctor_id = ?", doctorID).Delete(&models.AvailabilityRule{}).Error; err != nil {
			return err
		}
		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
}

// OverridesFrom lists a doctor's overrides on or after fromDate.
func (s *GormStore) OverridesFrom(ctx context.Context, doctorID uint, fromDate time.Time) ([]models.DateOverride, error) {
	var overrides []models.DateOverride
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND date >= ?", doctorID, fromDate.Format(models.DateLayout)).
		Order("date asc").
		Find(&overrides).Error
	return overrides, err
}

// UpsertOverride creates or replaces the single override for (doctor, date).
func (s *GormStore) UpsertOverride(ctx context.Context, ov *models.DateOverride) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_available", "reason", "updated_at"}),
	}).Create(ov).Error
}

func (s *GormStore) DeleteOverride(ctx context.Context, doctorID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND doctor_id = ?", id, doctorID).
		Delete(&models.DateOverride{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BookingsForDate returns a doctor's non-cancelled bookings on one date, the
// input the resolver needs to mark occupied slots.
func (s *GormStore) BookingsForDate(ctx context.Context, doctorID uint, date time.Time) ([]models.Appointment, error) {
	var bookings []models.Appointment
	err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND visit_date = ?", doctorID, date.Format(models.DateLayout)).
		Where("status IN ?", []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}).
		Find(&bookings).Error
	return bookings, err
}
