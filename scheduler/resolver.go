// Package scheduler holds the slot resolution and booking logic shared by the
// public booking endpoints, the reschedule flow and the calendar view. The
// same computation used to live inline in each handler; keeping it here keeps
// the three surfaces from drifting apart.
package scheduler

import (
	"sort"
	"time"

	"github.com/medisetu/clinic-appointments/models"
)

// Slot is one bookable interval of a doctor's day. Computed on every request,
// never persisted.
type Slot struct {
	Start     string `json:"start"` // "HH:MM:SS"
	End       string `json:"end"`   // "HH:MM:SS"
	Available bool   `json:"available"`
}

// SameDate reports whether two instants fall on the same calendar date,
// ignoring the time component.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// OverrideForDate returns the override matching date, or nil.
func OverrideForDate(date time.Time, overrides []models.DateOverride) *models.DateOverride {
	for i := range overrides {
		if SameDate(overrides[i].Date, date) {
			return &overrides[i]
		}
	}
	return nil
}

// ResolveSlots computes the bookable slots for one doctor on one calendar
// date. It is a pure function of its inputs; callers fetch rules, overrides
// and bookings themselves and inject the current time.
//
// A holiday override empties the day regardless of weekly rules. A working
// override only cancels a holiday; it does not invent hours, so without an
// active rule for the weekday the day still has no slots. Slots from
// overlapping rule windows are emitted by each rule and not deduplicated.
func ResolveSlots(
	date time.Time,
	visitType models.VisitType,
	rules []models.AvailabilityRule,
	overrides []models.DateOverride,
	bookings []models.Appointment,
	now time.Time,
) []Slot {
	if ov := OverrideForDate(date, overrides); ov != nil && !ov.IsAvailable {
		return []Slot{}
	}

	weekday := models.DayOfWeek(date.Weekday())

	booked := make(map[string]bool)
	for _, b := range bookings {
		if b.IsActive() && SameDate(b.VisitDate, date) {
			booked[b.StartTime] = true
		}
	}

	isToday := SameDate(date, now)
	nowClock := now.Format(models.ClockLayout)

	slots := make([]Slot, 0)
	for _, rule := range rules {
		if !rule.IsActive || rule.DayOfWeek != weekday || !rule.VisitTypes.Contains(visitType) {
			continue
		}
		start, err := models.ParseClock(rule.StartTime)
		if err != nil {
			continue
		}
		end, err := models.ParseClock(rule.EndTime)
		if err != nil {
			continue
		}
		step := time.Duration(rule.SlotDurationMin) * time.Minute
		for cur := start; ; cur = cur.Add(step) {
			slotEnd := cur.Add(step)
			if slotEnd.After(end) {
				// trailing partial slot is dropped
				break
			}
			slot := Slot{
				Start: cur.Format(models.ClockLayout),
				End:   slotEnd.Format(models.ClockLayout),
			}
			slot.Available = !booked[slot.Start] && !(isToday && slot.Start < nowClock)
			slots = append(slots, slot)
		}
	}

	// Fixed-width HH:MM:SS strings order lexicographically; stable sort keeps
	// rule order for identical starts from overlapping windows.
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	return slots
}

// IsDateBookable is the cheap existence check behind the calendar view: it
// answers whether a date can have slots at all without generating them.
func IsDateBookable(date time.Time, rules []models.AvailabilityRule, overrides []models.DateOverride) bool {
	if ov := OverrideForDate(date, overrides); ov != nil {
		return ov.IsAvailable
	}
	weekday := models.DayOfWeek(date.Weekday())
	for _, rule := range rules {
		if rule.IsActive && rule.DayOfWeek == weekday {
			return true
		}
	}
	return false
}
