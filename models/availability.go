package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

type VisitType string

const (
	VisitOnline   VisitType = "online"
	VisitPhysical VisitType = "physical"
)

// VisitTypeList is stored as a comma separated string column.
type VisitTypeList []VisitType

func (v VisitTypeList) Value() (driver.Value, error) {
	parts := make([]string, 0, len(v))
	for _, t := range v {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ","), nil
}

func (v *VisitTypeList) Scan(src interface{}) error {
	var raw string
	switch s := src.(type) {
	case string:
		raw = s
	case []byte:
		raw = string(s)
	case nil:
		*v = nil
		return nil
	default:
		return fmt.Errorf("unsupported visit type column value: %T", src)
	}
	*v = nil
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*v = append(*v, VisitType(part))
		}
	}
	return nil
}

func (v VisitTypeList) Contains(t VisitType) bool {
	for _, vt := range v {
		if vt == t {
			return true
		}
	}
	return false
}

// AvailabilityRule is a recurring weekly availability window for a doctor.
// A doctor may have several rules on the same weekday (e.g. morning + evening).
type AvailabilityRule struct {
	gorm.Model
	DoctorID        uint          `json:"doctor_id" gorm:"index"`
	Doctor          User          `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	DayOfWeek       DayOfWeek     `json:"day_of_week"`
	StartTime       string        `json:"start_time"` // "HH:MM:SS", 24h
	EndTime         string        `json:"end_time"`   // "HH:MM:SS", 24h
	SlotDurationMin int           `json:"slot_duration_min"`
	VisitTypes      VisitTypeList `json:"visit_types" gorm:"type:text"`
	IsActive        bool          `json:"is_active" gorm:"default:true"`
}

// Validate checks the invariants enforced on every schedule save.
func (r *AvailabilityRule) Validate() error {
	if r.DayOfWeek < Sunday || r.DayOfWeek > Saturday {
		return fmt.Errorf("day_of_week must be between 0 and 6, got %d", r.DayOfWeek)
	}
	if r.SlotDurationMin <= 0 {
		return fmt.Errorf("slot_duration_min must be positive, got %d", r.SlotDurationMin)
	}
	if len(r.VisitTypes) == 0 {
		return fmt.Errorf("at least one visit type is required")
	}
	for _, t := range r.VisitTypes {
		if t != VisitOnline && t != VisitPhysical {
			return fmt.Errorf("invalid visit type %q", t)
		}
	}
	start, err := ParseClock(r.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start_time: %v", err)
	}
	end, err := ParseClock(r.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end_time: %v", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start_time %s must be before end_time %s", r.StartTime, r.EndTime)
	}
	return nil
}
