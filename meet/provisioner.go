// Package meet provisions video-meeting links for online visits. Provisioning
// runs after the booking commit and is best effort: a booking without a link
// is valid, the link can arrive later via the cron retry.
package meet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/medisetu/clinic-appointments/models"
)

// Provisioner returns a joinable link for an appointment.
type Provisioner interface {
	CreateMeeting(ctx context.Context, appt *models.Appointment) (string, error)
}

// HTTPProvisioner calls a configured meeting-vendor endpoint.
type HTTPProvisioner struct {
	url    string
	apiKey string
	client *http.Client
}

func NewHTTPProvisioner(url, apiKey string) *HTTPProvisioner {
	if url == "" {
		return nil
	}
	return &HTTPProvisioner{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *HTTPProvisioner) CreateMeeting(ctx context.Context, appt *models.Appointment) (string, error) {
	payload := map[string]string{
		"reference":  appt.Reference,
		"date":       appt.VisitDate.Format(models.DateLayout),
		"start_time": appt.StartTime,
		"end_time":   appt.EndTime,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("meeting provisioner returned status %d", resp.StatusCode)
	}

	var out struct {
		JoinURL string `json:"join_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.JoinURL == "" {
		return "", fmt.Errorf("meeting provisioner returned no join_url")
	}
	return out.JoinURL, nil
}

// EnsureMeetingLink provisions and stores the link for an online appointment
// that does not have one yet. Returns true when a link was newly attached.
// Errors are logged, never propagated to the booking flow.
func EnsureMeetingLink(ctx context.Context, db *gorm.DB, p Provisioner, appt *models.Appointment) bool {
	if appt.VisitType != models.VisitOnline || appt.MeetingLink != "" {
		return false
	}
	if p == nil {
		log.Printf("meet: provisioner not configured, appointment %s stays without a link for now", appt.Reference)
		return false
	}

	link, err := p.CreateMeeting(ctx, appt)
	if err != nil {
		log.Printf("meet: provisioning failed for appointment %s: %v", appt.Reference, err)
		return false
	}

	if err := db.Model(appt).Update("meeting_link", link).Error; err != nil {
		log.Printf("meet: failed to store link for appointment %s: %v", appt.Reference, err)
		return false
	}
	appt.MeetingLink = link
	return true
}
