package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisetu/clinic-appointments/models"
)

// fakeStore emulates the storage layer, including the partial unique index on
// (doctor, date, start): CreateAppointment rejects a second active row for the
// same slot even when the pre-check missed it.
type fakeStore struct {
	mu        sync.Mutex
	overrides []models.DateOverride
	rules     []models.AvailabilityRule
	bookings  []models.Appointment

	// when true, ActiveBookingExists always reports false, simulating the
	// stale-read window between two concurrent bookers
	staleReads bool

	fetchErr  error
	createErr error
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return fn(f)
}

func (f *fakeStore) OverrideForDate(ctx context.Context, doctorID uint, date time.Time) (*models.DateOverride, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.overrides {
		if f.overrides[i].DoctorID == doctorID && SameDate(f.overrides[i].Date, date) {
			ov := f.overrides[i]
			return &ov, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ActiveRules(ctx context.Context, doctorID uint, weekday models.DayOfWeek) ([]models.AvailabilityRule, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilityRule
	for _, r := range f.rules {
		if r.DoctorID == doctorID && r.DayOfWeek == weekday && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ActiveBookingExists(ctx context.Context, doctorID uint, date time.Time, start string) (bool, error) {
	if f.fetchErr != nil {
		return false, f.fetchErr
	}
	if f.staleReads {
		return false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.activeBookingLocked(doctorID, date, start), nil
}

func (f *fakeStore) activeBookingLocked(doctorID uint, date time.Time, start string) bool {
	for _, b := range f.bookings {
		if b.DoctorID == doctorID && SameDate(b.VisitDate, date) && b.StartTime == start && b.IsActive() {
			return true
		}
	}
	return false
}

func (f *fakeStore) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeBookingLocked(appt.DoctorID, appt.VisitDate, appt.StartTime) {
		return ErrSlotTaken
	}
	appt.ID = uint(len(f.bookings) + 1)
	f.bookings = append(f.bookings, *appt)
	return nil
}

func validRequest() BookingRequest {
	return BookingRequest{
		DoctorID:     1,
		PatientID:    7,
		Date:         monday,
		Start:        "10:00:00",
		VisitType:    models.VisitOnline,
		PatientName:  "Asha Rao",
		PatientPhone: "+919876543210",
		PatientEmail: "asha@example.com",
	}
}

func storeWithMondayRule() *fakeStore {
	return &fakeStore{
		rules: []models.AvailabilityRule{rule(models.Monday, "09:00:00", "12:00:00", 30)},
	}
}

func TestAttemptBookingSuccess(t *testing.T) {
	store := storeWithMondayRule()
	guard := NewGuard(store)

	appt, err := guard.AttemptBooking(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, appt)
	assert.Equal(t, models.StatusPending, appt.Status)
	assert.Equal(t, models.PaymentPending, appt.PaymentStatus)
	assert.Equal(t, "10:00:00", appt.StartTime)
	assert.Equal(t, "10:30:00", appt.EndTime, "end derives from the rule's slot duration")
	assert.NotEmpty(t, appt.Reference)
	assert.Len(t, store.bookings, 1)
}

func TestAttemptBookingValidation(t *testing.T) {
	guard := NewGuard(storeWithMondayRule())

	tests := []struct {
		name   string
		mutate func(*BookingRequest)
	}{
		{"missing name", func(r *BookingRequest) { r.PatientName = "" }},
		{"missing phone", func(r *BookingRequest) { r.PatientPhone = "" }},
		{"missing doctor", func(r *BookingRequest) { r.DoctorID = 0 }},
		{"bad visit type", func(r *BookingRequest) { r.VisitType = "house-call" }},
		{"bad start time", func(r *BookingRequest) { r.Start = "quarter past nine" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := guard.AttemptBooking(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestAttemptBookingHolidayConflict(t *testing.T) {
	store := storeWithMondayRule()
	store.overrides = []models.DateOverride{{DoctorID: 1, Date: monday, IsAvailable: false, Reason: "conference"}}
	guard := NewGuard(store)

	_, err := guard.AttemptBooking(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrHolidayConflict)
	assert.Empty(t, store.bookings)
}

func TestAttemptBookingScheduleChanged(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookingRequest)
	}{
		{"wrong weekday", func(r *BookingRequest) { r.Date = wednesday }},
		{"off the slot grid", func(r *BookingRequest) { r.Start = "10:15:00" }},
		{"before the window", func(r *BookingRequest) { r.Start = "08:30:00" }},
		{"slot would overrun the window", func(r *BookingRequest) { r.Start = "11:45:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := NewGuard(storeWithMondayRule())
			req := validRequest()
			tt.mutate(&req)
			_, err := guard.AttemptBooking(context.Background(), req)
			assert.ErrorIs(t, err, ErrScheduleChanged)
		})
	}
}

func TestAttemptBookingVisitTypeNotOffered(t *testing.T) {
	store := &fakeStore{
		rules: []models.AvailabilityRule{rule(models.Monday, "09:00:00", "12:00:00", 30, models.VisitPhysical)},
	}
	guard := NewGuard(store)

	req := validRequest() // asks for online
	_, err := guard.AttemptBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrScheduleChanged)
}

func TestAttemptBookingSlotTakenByPreCheck(t *testing.T) {
	store := storeWithMondayRule()
	store.bookings = []models.Appointment{{
		DoctorID: 1, VisitDate: monday, StartTime: "10:00:00", Status: models.StatusConfirmed,
	}}
	guard := NewGuard(store)

	_, err := guard.AttemptBooking(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestAttemptBookingCancelledBookingVacatesSlot(t *testing.T) {
	store := storeWithMondayRule()
	store.bookings = []models.Appointment{{
		DoctorID: 1, VisitDate: monday, StartTime: "10:00:00", Status: models.StatusCancelled,
	}}
	guard := NewGuard(store)

	_, err := guard.AttemptBooking(context.Background(), validRequest())
	assert.NoError(t, err)
}

func TestAttemptBookingUniqueIndexBacksStopsStaleRace(t *testing.T) {
	// both bookers read a snapshot without the other's booking; the insert
	// constraint must still let only one through
	store := storeWithMondayRule()
	store.staleReads = true
	guard := NewGuard(store)

	_, err := guard.AttemptBooking(context.Background(), validRequest())
	require.NoError(t, err)

	_, err = guard.AttemptBooking(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Len(t, store.bookings, 1)
}

func TestAttemptBookingConcurrentAtMostOneWins(t *testing.T) {
	store := storeWithMondayRule()
	store.staleReads = true
	guard := NewGuard(store)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := guard.AttemptBooking(context.Background(), validRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, taken int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSlotTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, taken)
	assert.Len(t, store.bookings, 1)
}

func TestAttemptBookingInfrastructureFailure(t *testing.T) {
	store := storeWithMondayRule()
	store.fetchErr = errors.New("connection reset")
	guard := NewGuard(store)

	_, err := guard.AttemptBooking(context.Background(), validRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrHolidayConflict)
	assert.NotErrorIs(t, err, ErrScheduleChanged)
	assert.NotErrorIs(t, err, ErrSlotTaken)
	assert.NotErrorIs(t, err, ErrValidationFailed)
}

func TestAttemptBookingNormalizesShortClock(t *testing.T) {
	guard := NewGuard(storeWithMondayRule())

	req := validRequest()
	req.Start = "10:00"
	appt, err := guard.AttemptBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "10:00:00", appt.StartTime)
}
