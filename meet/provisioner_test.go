package meet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medisetu/clinic-appointments/models"
)

func sampleAppointment() *models.Appointment {
	return &models.Appointment{
		Reference: "ref-123",
		VisitDate: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00:00",
		EndTime:   "10:30:00",
		VisitType: models.VisitOnline,
	}
}

func TestNewHTTPProvisionerNilWithoutURL(t *testing.T) {
	assert.Nil(t, NewHTTPProvisioner("", "key"))
	assert.NotNil(t, NewHTTPProvisioner("https://meet.example.com/rooms", "key"))
}

func TestHTTPProvisionerCreateMeeting(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"join_url": "https://meet.example.com/j/abc"})
	}))
	defer srv.Close()

	p := NewHTTPProvisioner(srv.URL, "key")
	link, err := p.CreateMeeting(context.Background(), sampleAppointment())
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/j/abc", link)
	assert.Equal(t, "ref-123", gotBody["reference"])
	assert.Equal(t, "2026-09-07", gotBody["date"])
	assert.Equal(t, "10:00:00", gotBody["start_time"])
}

func TestHTTPProvisionerCreateMeetingFailures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		p := NewHTTPProvisioner(srv.URL, "")
		_, err := p.CreateMeeting(context.Background(), sampleAppointment())
		assert.Error(t, err)
	})

	t.Run("empty join_url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		p := NewHTTPProvisioner(srv.URL, "")
		_, err := p.CreateMeeting(context.Background(), sampleAppointment())
		assert.Error(t, err)
	})
}

func TestEnsureMeetingLinkSkipsPhysicalAndLinked(t *testing.T) {
	appt := sampleAppointment()
	appt.VisitType = models.VisitPhysical
	assert.False(t, EnsureMeetingLink(context.Background(), nil, nil, appt))

	appt = sampleAppointment()
	appt.MeetingLink = "https://meet.example.com/j/already"
	assert.False(t, EnsureMeetingLink(context.Background(), nil, nil, appt))

	// online without provisioner: valid, just no link yet
	appt = sampleAppointment()
	assert.False(t, EnsureMeetingLink(context.Background(), nil, nil, appt))
	assert.Empty(t, appt.MeetingLink)
}
