package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyLead(t *testing.T) {
	var received map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewWebhookClient(ts.URL, "")
	err := client.NotifyLead(map[string]interface{}{
		"firstName":             "Jane",
		"customFieldsFormatted": map[string]string{"roof_pitch_c": "4/12"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Jane", received["firstName"])
	flat, ok := received["customFieldsFormatted"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "4/12", flat["roof_pitch_c"])
}

func TestNotifyLeadNon2xxIsFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer ts.Close()

	client := NewWebhookClient(ts.URL, "")
	err := client.NotifyLead(map[string]interface{}{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "410")
}

func TestConfirmAppointment(t *testing.T) {
	var query map[string]string
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"agent_email": r.URL.Query().Get("agent_email"),
			"phone":       r.URL.Query().Get("phone"),
			"lead_id":     r.URL.Query().Get("lead_id"),
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewWebhookClient("", ts.URL)
	err := client.ConfirmAppointment(AppointmentIdentity{
		AgentEmail: "agent@example.com",
		Phone:      "+15125551234",
		FirstName:  "Jane",
		LastName:   "Doe",
		LeadID:     "lead-1",
	}, "Did Not Happen", "customer rescheduled")

	require.NoError(t, err)
	assert.Equal(t, "agent@example.com", query["agent_email"])
	assert.Equal(t, "+15125551234", query["phone"])
	assert.Equal(t, "lead-1", query["lead_id"])
	assert.Equal(t, "Did Not Happen", body["status"])
	assert.Equal(t, "customer rescheduled", body["reason"])
}

func TestConfirmAppointmentOmitsEmptyReason(t *testing.T) {
	var body map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewWebhookClient("", ts.URL)
	err := client.ConfirmAppointment(AppointmentIdentity{}, "Appointment Completed", "")

	require.NoError(t, err)
	_, hasReason := body["reason"]
	assert.False(t, hasReason)
}
