// services/notifier.go
package services

import (
	"fmt"
	"log"
	"os"
	"time"

	"solarlead-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// Notifier sends the assigned sales rep an SMS when routing hands them a
// new lead, and runs the daily integration-health summary. SMS is disabled
// when the Twilio credentials are absent; the health job runs regardless.
type Notifier struct {
	db     *gorm.DB
	client *twilio.RestClient
	from   string
}

func NewNotifier(db *gorm.DB) *Notifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	n := &Notifier{
		db:   db,
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
	if accountSid != "" && authToken != "" {
		n.client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
	} else {
		log.Println("Notifier: Twilio credentials not set, assignment SMS disabled")
	}
	return n
}

// NotifyAssignment texts the assigned rep about the new lead. Best-effort:
// failures are logged and never surface to the submission.
func (n *Notifier) NotifyAssignment(lead *models.Lead) {
	if n.client == nil || lead.AssignedSalesRepID == nil {
		return
	}

	var rep models.SalesRep
	if err := n.db.First(&rep, "id = ?", *lead.AssignedSalesRepID).Error; err != nil {
		log.Printf("Notifier: sales rep %s lookup failed: %v", *lead.AssignedSalesRepID, err)
		return
	}
	if rep.Phone == "" {
		log.Printf("Notifier: sales rep %s has no phone, skipping SMS", rep.ID)
		return
	}

	message := fmt.Sprintf("New lead assigned: %s %s, %s (%s). Source: %s.",
		lead.FirstName, lead.LastName, lead.City, lead.Phone, lead.LeadSource)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(rep.Phone)
	params.SetFrom(n.from)
	params.SetBody(message)

	resp, err := n.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Notifier: failed to send assignment SMS to %s: %v", rep.Phone, err)
		return
	}
	if resp.Sid != nil {
		log.Printf("Notifier: assignment SMS sent to %s, SID: %s", rep.Phone, *resp.Sid)
	} else {
		log.Printf("Notifier: assignment SMS sent to %s, but no SID returned", rep.Phone)
	}
}

// StartScheduler runs the integration-health summary every day at 9 AM.
func (n *Notifier) StartScheduler() {
	c := cron.New()

	c.AddFunc("0 9 * * *", n.LogIntegrationHealth)

	c.Start()
	log.Println("Integration-health scheduler started")
}

// LogIntegrationHealth counts leads from the trailing 24 hours whose CRM or
// webhook leg failed, so misconfigured integrations get noticed without
// anyone trawling the dashboard.
func (n *Notifier) LogIntegrationHealth() {
	since := time.Now().Add(-24 * time.Hour)

	var total, crmFailed, webhookFailed int64
	n.db.Model(&models.Lead{}).Where("date_created >= ?", since).Count(&total)
	n.db.Model(&models.Lead{}).Where("date_created >= ? AND api_sent = ?", since, false).Count(&crmFailed)
	n.db.Model(&models.Lead{}).Where("date_created >= ? AND webhook_sent = ?", since, false).Count(&webhookFailed)

	log.Printf("[HEALTH] leads last 24h: %d | CRM not synced: %d | webhook not sent: %d",
		total, crmFailed, webhookFailed)
}
