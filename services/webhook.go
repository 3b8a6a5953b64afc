// services/webhook.go
package services

import (
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// Appointment confirmation statuses accepted by the automation webhook.
var AppointmentStatuses = []string{"Appointment Completed", "No Show", "Did Not Happen"}

func IsValidAppointmentStatus(status string) bool {
	for _, s := range AppointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// AppointmentIdentity is the identity carried as query-string parameters on
// the appointment-confirmation webhook.
type AppointmentIdentity struct {
	AgentEmail string
	Phone      string
	FirstName  string
	LastName   string
	LeadID     string
}

// WebhookClient posts submissions to the fixed lead webhook and forwards
// appointment confirmations to the automation endpoint. Any non-2xx
// response counts as failure.
type WebhookClient struct {
	http           *resty.Client
	leadURL        string
	appointmentURL string
}

func NewWebhookClient(leadURL, appointmentURL string) *WebhookClient {
	return &WebhookClient{
		http: resty.New().
			SetTimeout(15 * time.Second).
			SetHeader("Content-Type", "application/json"),
		leadURL:        leadURL,
		appointmentURL: appointmentURL,
	}
}

func NewWebhookClientFromEnv() *WebhookClient {
	return NewWebhookClient(
		os.Getenv("LEAD_WEBHOOK_URL"),
		os.Getenv("APPOINTMENT_WEBHOOK_URL"),
	)
}

// NotifyLead posts the full form snapshot (plus the flattened custom-fields
// map) to the lead webhook.
func (w *WebhookClient) NotifyLead(payload map[string]interface{}) error {
	resp, err := w.http.R().
		SetBody(payload).
		Post(w.leadURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("%d: %s", resp.StatusCode(), resp.Status())
	}
	return nil
}

// ConfirmAppointment forwards an agent's appointment outcome. Identity
// travels in the query string, the outcome in the JSON body.
func (w *WebhookClient) ConfirmAppointment(identity AppointmentIdentity, status, reason string) error {
	body := map[string]string{"status": status}
	if reason != "" {
		body["reason"] = reason
	}

	resp, err := w.http.R().
		SetQueryParams(map[string]string{
			"agent_email": identity.AgentEmail,
			"phone":       identity.Phone,
			"firstname":   identity.FirstName,
			"lastname":    identity.LastName,
			"lead_id":     identity.LeadID,
		}).
		SetBody(body).
		Post(w.appointmentURL)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("%d: %s", resp.StatusCode(), resp.Status())
	}
	return nil
}
