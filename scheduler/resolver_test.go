package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisetu/clinic-appointments/models"
)

// 2026-09-07 is a Monday, 2026-09-09 a Wednesday.
var (
	monday    = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2026, 9, 9, 0, 0, 0, 0, time.UTC)
	// a "now" far away from the dates under test
	farAway = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
)

func TestMain(m *testing.M) {
	if monday.Weekday() != time.Monday || wednesday.Weekday() != time.Wednesday {
		panic("fixture dates drifted")
	}
	m.Run()
}

func rule(day models.DayOfWeek, start, end string, durMin int, types ...models.VisitType) models.AvailabilityRule {
	if len(types) == 0 {
		types = []models.VisitType{models.VisitOnline, models.VisitPhysical}
	}
	return models.AvailabilityRule{
		DoctorID:        1,
		DayOfWeek:       day,
		StartTime:       start,
		EndTime:         end,
		SlotDurationMin: durMin,
		VisitTypes:      types,
		IsActive:        true,
	}
}

func booking(date time.Time, start string, status models.AppointmentStatus) models.Appointment {
	return models.Appointment{
		DoctorID:  1,
		VisitDate: date,
		StartTime: start,
		Status:    status,
	}
}

func TestResolveSlotsHolidayOverrideWinsOverRules(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Wednesday, "09:00:00", "12:00:00", 30)}
	overrides := []models.DateOverride{{DoctorID: 1, Date: wednesday, IsAvailable: false, Reason: "holiday"}}

	slots := ResolveSlots(wednesday, models.VisitPhysical, rules, overrides, nil, farAway)
	assert.Empty(t, slots)
}

func TestResolveSlotsNoMatchingRule(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Tuesday, "09:00:00", "12:00:00", 30)}

	slots := ResolveSlots(monday, models.VisitPhysical, rules, nil, nil, farAway)
	assert.Empty(t, slots)
}

func TestResolveSlotsWorkingOverrideDoesNotInventHours(t *testing.T) {
	// a true override on a weekday with no rule yields no slots: the override
	// carries no time window of its own
	overrides := []models.DateOverride{{DoctorID: 1, Date: monday, IsAvailable: true}}

	slots := ResolveSlots(monday, models.VisitOnline, nil, overrides, nil, farAway)
	assert.Empty(t, slots)

	// but the date still counts as bookable for the calendar existence check
	assert.True(t, IsDateBookable(monday, nil, overrides))
}

func TestResolveSlotsWalksWindowWithoutTrailingPartial(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Monday, "09:00:00", "10:00:00", 30)}

	slots := ResolveSlots(monday, models.VisitOnline, rules, nil, nil, farAway)
	require.Len(t, slots, 2)
	assert.Equal(t, Slot{Start: "09:00:00", End: "09:30:00", Available: true}, slots[0])
	assert.Equal(t, Slot{Start: "09:30:00", End: "10:00:00", Available: true}, slots[1])
}

func TestResolveSlotsDropsPartialTrailingSlot(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Monday, "09:00:00", "10:15:00", 30)}

	slots := ResolveSlots(monday, models.VisitOnline, rules, nil, nil, farAway)
	require.Len(t, slots, 2)
	assert.Equal(t, "10:00:00", slots[1].End)
}

func TestResolveSlotsBookingConflicts(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Monday, "09:00:00", "11:00:00", 60)}

	tests := []struct {
		name      string
		status    models.AppointmentStatus
		available bool
	}{
		{"pending blocks", models.StatusPending, false},
		{"confirmed blocks", models.StatusConfirmed, false},
		{"cancelled vacates", models.StatusCancelled, true},
		{"completed vacates", models.StatusCompleted, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bookings := []models.Appointment{booking(monday, "09:00:00", tt.status)}
			slots := ResolveSlots(monday, models.VisitOnline, rules, nil, bookings, farAway)
			require.Len(t, slots, 2)
			assert.Equal(t, tt.available, slots[0].Available)
			assert.True(t, slots[1].Available)
		})
	}
}

func TestResolveSlotsPastSlotsUnavailableToday(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Monday, "09:00:00", "12:00:00", 60)}
	now := time.Date(2026, 9, 7, 10, 30, 0, 0, time.UTC) // monday, 10:30

	slots := ResolveSlots(monday, models.VisitOnline, rules, nil, nil, now)
	require.Len(t, slots, 3)
	assert.False(t, slots[0].Available, "09:00 is in the past")
	assert.False(t, slots[1].Available, "10:00 is in the past")
	assert.True(t, slots[2].Available, "11:00 is still ahead")
}

func TestResolveSlotsPastCheckOnlyAppliesToday(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Monday, "09:00:00", "10:00:00", 30)}
	// now is a later clock time but a different date
	now := time.Date(2026, 9, 6, 23, 0, 0, 0, time.UTC)

	slots := ResolveSlots(monday, models.VisitOnline, rules, nil, nil, now)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}

func TestResolveSlotsVisitTypeFilter(t *testing.T) {
	rules := []models.AvailabilityRule{
		rule(models.Monday, "09:00:00", "10:00:00", 30, models.VisitOnline),
		rule(models.Monday, "14:00:00", "15:00:00", 30, models.VisitPhysical),
	}

	online := ResolveSlots(monday, models.VisitOnline, rules, nil, nil, farAway)
	require.Len(t, online, 2)
	assert.Equal(t, "09:00:00", online[0].Start)

	physical := ResolveSlots(monday, models.VisitPhysical, rules, nil, nil, farAway)
	require.Len(t, physical, 2)
	assert.Equal(t, "14:00:00", physical[0].Start)
}

func TestResolveSlotsIgnoresInactiveRules(t *testing.T) {
	r := rule(models.Monday, "09:00:00", "10:00:00", 30)
	r.IsActive = false

	slots := ResolveSlots(monday, models.VisitOnline, []models.AvailabilityRule{r}, nil, nil, farAway)
	assert.Empty(t, slots)
}

func TestResolveSlotsMultipleWindowsDifferentGranularity(t *testing.T) {
	rules := []models.AvailabilityRule{
		rule(models.Monday, "18:00:00", "19:00:00", 20),
		rule(models.Monday, "09:00:00", "10:00:00", 30),
	}

	slots := ResolveSlots(monday, models.VisitOnline, rules, nil, nil, farAway)
	require.Len(t, slots, 5)
	// chronological regardless of rule order
	assert.Equal(t, "09:00:00", slots[0].Start)
	assert.Equal(t, "09:30:00", slots[1].Start)
	assert.Equal(t, "18:00:00", slots[2].Start)
	assert.Equal(t, "18:20:00", slots[3].Start)
	assert.Equal(t, "18:40:00", slots[4].Start)
}

func TestResolveSlotsOverlappingWindowsNotDeduplicated(t *testing.T) {
	rules := []models.AvailabilityRule{
		rule(models.Monday, "09:00:00", "10:00:00", 30),
		rule(models.Monday, "09:00:00", "10:00:00", 30),
	}

	slots := ResolveSlots(monday, models.VisitOnline, rules, nil, nil, farAway)
	assert.Len(t, slots, 4)
}

func TestResolveSlotsMondayScenario(t *testing.T) {
	// Mon 09:00-12:00, 30 min, both visit types, one confirmed booking at
	// 10:00: six slots, only 10:00 unavailable
	rules := []models.AvailabilityRule{rule(models.Monday, "09:00:00", "12:00:00", 30)}
	bookings := []models.Appointment{booking(monday, "10:00:00", models.StatusConfirmed)}

	slots := ResolveSlots(monday, models.VisitOnline, rules, nil, bookings, farAway)
	require.Len(t, slots, 6)
	for _, s := range slots {
		if s.Start == "10:00:00" {
			assert.False(t, s.Available)
		} else {
			assert.True(t, s.Available, "slot %s should be free", s.Start)
		}
	}
}

func TestResolveSlotsIdempotent(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Monday, "09:00:00", "12:00:00", 30)}
	bookings := []models.Appointment{booking(monday, "09:30:00", models.StatusPending)}

	first := ResolveSlots(monday, models.VisitOnline, rules, nil, bookings, farAway)
	second := ResolveSlots(monday, models.VisitOnline, rules, nil, bookings, farAway)
	assert.Equal(t, first, second)
}

func TestResolveSlotsBookingOnOtherDateIgnored(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Monday, "09:00:00", "10:00:00", 30)}
	bookings := []models.Appointment{booking(wednesday, "09:00:00", models.StatusConfirmed)}

	slots := ResolveSlots(monday, models.VisitOnline, rules, nil, bookings, farAway)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Available)
}

func TestIsDateBookable(t *testing.T) {
	rules := []models.AvailabilityRule{rule(models.Monday, "09:00:00", "12:00:00", 30)}
	holiday := []models.DateOverride{{DoctorID: 1, Date: monday, IsAvailable: false}}

	assert.True(t, IsDateBookable(monday, rules, nil))
	assert.False(t, IsDateBookable(wednesday, rules, nil))
	assert.False(t, IsDateBookable(monday, rules, holiday), "holiday override beats the rule")

	inactive := rules
	inactive[0].IsActive = false
	assert.False(t, IsDateBookable(monday, inactive, nil))
}
