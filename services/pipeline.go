// services/pipeline.go
package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"solarlead-backend/models"
	"solarlead-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Failure classes of the submission pipeline. Only persistence failure
// aborts a submission; CRM and webhook failures are recorded on the lead
// row and recovered.
var (
	ErrInvalidPhone   = errors.New("phone number must have ten digits")
	ErrPersistFailure = errors.New("failed to save lead to database")
)

// CustomFieldValue is a dynamically-added form field with its submitted
// value.
type CustomFieldValue struct {
	Label         string `json:"label"`
	SugarCRMField string `json:"sugarCrmField"`
	FieldType     string `json:"type"`
	Value         string `json:"value"`
}

// SubmissionInput is the full intake form. The first ten fields are
// required at submission time; everything else is an optional qualifying
// answer.
type SubmissionInput struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Zip         string `json:"zip" binding:"required"`
	LeadSource  string `json:"leadSource" binding:"required"`
	ProductType string `json:"productType" binding:"required"`

	CreatedBy   string `json:"createdBy"`
	LeadStatus  string `json:"leadStatus"`
	DateCreated string `json:"dateCreated"`
	AssignedTo  string `json:"assignedTo"`

	AvgElectricBill     string `json:"avgElectricBill"`
	AvgKwhConsumption   string `json:"avgKwhConsumption"`
	HasEV               string `json:"hasEV"`
	InterestedInStorage string `json:"interestedInStorage"`
	Goals               string `json:"goals"`
	Notes               string `json:"notes"`
	HasHOA              string `json:"hasHOA"`
	JobType             string `json:"jobType"`
	ConstructionType    string `json:"constructionType"`
	InstallationType    string `json:"installationType"`
	RoofType            string `json:"roofType"`
	PrimaryPhoneType    string `json:"primaryPhoneType"`
	TitleOfLead         string `json:"titleOfLead"`
	FloorCount          string `json:"floorCount"`
	ReferralSource      string `json:"referralSource"`
	HasPool             string `json:"hasPool"`
	UtilityProvider     string `json:"utilityProvider"`
	HasBill             string `json:"hasBill"`
	RoofAge             string `json:"roofAge"`
	RoofCondition       string `json:"roofCondition"`
	RoofShade           string `json:"roofShade"`
	ProjectReadiness    string `json:"projectReadiness"`
	Referrals           string `json:"referrals"`
	FinancingMethod     string `json:"financingMethod"`
	PreferredProducts   string `json:"preferredProducts"`

	CustomFields []CustomFieldValue `json:"customFields"`
}

// SubmissionResult reports per-leg outcomes. Success means the CRM leg or
// the webhook leg went through; the persisted row is a prerequisite, not
// part of that OR.
type SubmissionResult struct {
	Success       bool      `json:"success"`
	LeadID        uuid.UUID `json:"leadId"`
	APISent       bool      `json:"apiSent"`
	WebhookSent   bool      `json:"webhookSent"`
	RoutingMethod string    `json:"routingMethod"`
}

// Router decides which sales rep owns an incoming lead.
type Router interface {
	Route(lead LeadContext) RoutingDecision
}

// CrmClient mirrors a lead into the CRM.
type CrmClient interface {
	CreateLead(lead SugarLead) (map[string]interface{}, error)
}

// LeadNotifier posts the submission payload to the generic webhook.
type LeadNotifier interface {
	NotifyLead(payload map[string]interface{}) error
}

// AssignmentNotifier tells the assigned sales rep about a new lead.
// Best-effort; a nil notifier disables it.
type AssignmentNotifier interface {
	NotifyAssignment(lead *models.Lead)
}

// LeadStore persists lead rows and their follow-up integration updates.
type LeadStore interface {
	CreateLead(lead *models.Lead) error
	UpdateLead(id uuid.UUID, updates map[string]interface{}) error
}

// GormLeadStore is the Postgres-backed LeadStore.
type GormLeadStore struct {
	DB *gorm.DB
}

func (s *GormLeadStore) CreateLead(lead *models.Lead) error {
	return s.DB.Create(lead).Error
}

func (s *GormLeadStore) UpdateLead(id uuid.UUID, updates map[string]interface{}) error {
	return s.DB.Model(&models.Lead{}).Where("id = ?", id).Updates(updates).Error
}

// SubmissionPipeline orchestrates the three submission destinations:
// persist, CRM sync, webhook notify. Each leg is independently
// fault-tolerant and nothing rolls back a prior leg.
type SubmissionPipeline struct {
	store    LeadStore
	router   Router
	crm      CrmClient
	webhook  LeadNotifier
	notifier AssignmentNotifier
}

func NewSubmissionPipeline(store LeadStore, router Router, crm CrmClient, webhook LeadNotifier, notifier AssignmentNotifier) *SubmissionPipeline {
	return &SubmissionPipeline{
		store:    store,
		router:   router,
		crm:      crm,
		webhook:  webhook,
		notifier: notifier,
	}
}

// Submit runs the full pipeline for one intake form. A returned error means
// the submission never persisted; a result with Success=false means the row
// exists but both outbound legs failed.
func (p *SubmissionPipeline) Submit(input SubmissionInput) (SubmissionResult, error) {
	var result SubmissionResult

	input.Phone = utils.NormalizePhone(input.Phone)
	if !utils.ValidatePhone(input.Phone) {
		return result, ErrInvalidPhone
	}

	// Routing runs before the insert so the assignment lands in the
	// initial row.
	decision := p.router.Route(LeadContext{
		Email:      input.Email,
		City:       input.City,
		LeadSource: input.LeadSource,
		LeadStatus: input.leadStatus(),
	})
	result.RoutingMethod = decision.Method

	lead := input.toLead(decision)
	if err := p.store.CreateLead(lead); err != nil {
		log.Printf("Submission: lead insert failed: %v", err)
		return result, ErrPersistFailure
	}
	result.LeadID = lead.ID

	result.APISent = p.runCrmLeg(lead.ID, input)
	result.WebhookSent = p.runWebhookLeg(lead.ID, input)
	result.Success = result.APISent || result.WebhookSent

	if result.Success && p.notifier != nil && decision.SalesRepID != nil {
		lead.APISent = result.APISent
		lead.WebhookSent = result.WebhookSent
		p.notifier.NotifyAssignment(lead)
	}

	return result, nil
}

// runCrmLeg syncs the lead into SugarCRM and records the outcome on the
// row. CRM failure never blocks the webhook step.
func (p *SubmissionPipeline) runCrmLeg(leadID uuid.UUID, input SubmissionInput) bool {
	record, err := p.crm.CreateLead(SugarLead{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Phone:       input.Phone,
		Email:       input.Email,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Zip:         input.Zip,
		LeadSource:  input.LeadSource,
		ProductType: input.ProductType,
	})
	if err != nil {
		log.Printf("Submission: SugarCRM sync failed for lead %s: %v", leadID, err)
		p.updateLead(leadID, map[string]interface{}{
			"api_sent": false,
			"api_response_data": models.JSONB{
				"error":   "Failed to create lead in SugarCRM",
				"details": err.Error(),
			},
		})
		return false
	}

	responseID := ""
	if id, ok := record["id"].(string); ok {
		responseID = id
	}
	p.updateLead(leadID, map[string]interface{}{
		"api_sent":          true,
		"api_response_id":   responseID,
		"api_response_data": models.JSONB(record),
	})
	return true
}

// runWebhookLeg posts the form snapshot plus the flattened custom-fields
// map, recording the outcome on the row.
func (p *SubmissionPipeline) runWebhookLeg(leadID uuid.UUID, input SubmissionInput) bool {
	payload := input.snapshot()
	payload["customFieldsFormatted"] = flattenCustomFields(input.CustomFields)

	if err := p.webhook.NotifyLead(payload); err != nil {
		log.Printf("Submission: webhook notify failed for lead %s: %v", leadID, err)
		p.updateLead(leadID, map[string]interface{}{
			"webhook_sent":  false,
			"webhook_error": err.Error(),
		})
		return false
	}

	p.updateLead(leadID, map[string]interface{}{"webhook_sent": true})
	return true
}

// updateLead is the best-effort follow-up write after a leg; a failure here
// leaves stale status flags, an accepted inconsistency window.
func (p *SubmissionPipeline) updateLead(id uuid.UUID, updates map[string]interface{}) {
	if err := p.store.UpdateLead(id, updates); err != nil {
		log.Printf("Submission: status update failed for lead %s: %v", id, err)
	}
}

// flattenCustomFields builds the sugarCrmField -> value map carried on the
// webhook payload.
func flattenCustomFields(fields []CustomFieldValue) map[string]string {
	flat := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.SugarCRMField == "" {
			continue
		}
		flat[f.SugarCRMField] = f.Value
	}
	return flat
}

func (in SubmissionInput) leadStatus() string {
	if in.LeadStatus == "" {
		return "New"
	}
	return in.LeadStatus
}

func (in SubmissionInput) dateCreated() time.Time {
	if in.DateCreated != "" {
		if t, err := time.Parse(time.RFC3339, in.DateCreated); err == nil {
			return t
		}
	}
	return time.Now()
}

// snapshot renders the whole form as the JSON map stored in form_data and
// posted to the webhook.
func (in SubmissionInput) snapshot() map[string]interface{} {
	raw, err := json.Marshal(in)
	if err != nil {
		log.Printf("Submission: snapshot marshal failed: %v", err)
		return map[string]interface{}{}
	}
	var snap map[string]interface{}
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Printf("Submission: snapshot unmarshal failed: %v", err)
		return map[string]interface{}{}
	}
	return snap
}

func (in SubmissionInput) toLead(decision RoutingDecision) *models.Lead {
	return &models.Lead{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Phone:       in.Phone,
		Email:       in.Email,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		PostalCode:  in.Zip,
		LeadSource:  in.LeadSource,
		ProductType: in.ProductType,

		LeadStatus:  in.leadStatus(),
		DateCreated: in.dateCreated(),
		CreatedBy:   in.CreatedBy,
		AssignedTo:  in.AssignedTo,

		AvgElectricBill:     in.AvgElectricBill,
		AvgKwhConsumption:   in.AvgKwhConsumption,
		HasEV:               in.HasEV,
		InterestedInStorage: in.InterestedInStorage,
		Goals:               in.Goals,
		Notes:               in.Notes,
		HasHOA:              in.HasHOA,
		JobType:             in.JobType,
		ConstructionType:    in.ConstructionType,
		InstallationType:    in.InstallationType,
		RoofType:            in.RoofType,
		PrimaryPhoneType:    in.PrimaryPhoneType,
		TitleOfLead:         in.TitleOfLead,
		FloorCount:          in.FloorCount,
		ReferralSource:      in.ReferralSource,
		HasPool:             in.HasPool,
		UtilityProvider:     in.UtilityProvider,
		HasBill:             in.HasBill,
		RoofAge:             in.RoofAge,
		RoofCondition:       in.RoofCondition,
		RoofShade:           in.RoofShade,
		ProjectReadiness:    in.ProjectReadiness,
		Referrals:           in.Referrals,
		FinancingMethod:     in.FinancingMethod,
		PreferredProducts:   in.PreferredProducts,

		AssignedSalesRepID: decision.SalesRepID,
		RoutingMethod:      decision.Method,

		FormData: models.JSONB(in.snapshot()),
	}
}
