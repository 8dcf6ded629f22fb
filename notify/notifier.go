// Package notify delivers booking messages over email and WhatsApp. Delivery
// is best effort everywhere: a committed booking is authoritative and no send
// failure may surface back into the booking flow.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gopkg.in/gomail.v2"
)

// EmailSender sends one HTML email.
type EmailSender interface {
	Send(to, subject, body string) error
}

// WhatsAppSender sends one WhatsApp text message.
type WhatsAppSender interface {
	Send(toPhone, body string) error
}

// GomailSender delivers mail over SMTP.
type GomailSender struct {
	host string
	port int
	user string
	pass string
}

func NewGomailSender(host string, port int, user, pass string) *GomailSender {
	if host == "" || user == "" {
		return nil
	}
	return &GomailSender{host: host, port: port, user: user, pass: pass}
}

func (s *GomailSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.user)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}

// WhatsAppClient posts text messages to the WhatsApp cloud API.
type WhatsAppClient struct {
	apiURL  string
	token   string
	phoneID string
	client  *http.Client
}

func NewWhatsAppClient(apiURL, token, phoneID string) *WhatsAppClient {
	if apiURL == "" || token == "" {
		return nil
	}
	return &WhatsAppClient{
		apiURL:  apiURL,
		token:   token,
		phoneID: phoneID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WhatsAppClient) Send(toPhone, body string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"to":                toPhone,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", w.apiURL, w.phoneID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp api returned status %d", resp.StatusCode)
	}
	return nil
}
