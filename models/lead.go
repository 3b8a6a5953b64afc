package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadStatuses are the allowed values for Lead.LeadStatus.
var LeadStatuses = []string{"New", "Contacted", "Qualified", "Proposal", "Closed Won", "Closed Lost"}

func IsValidLeadStatus(status string) bool {
	for _, s := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Lead struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	FirstName  string `gorm:"not null" json:"first_name"`
	LastName   string `gorm:"not null" json:"last_name"`
	Phone      string `gorm:"not null" json:"phone"`
	Email      string `gorm:"not null" json:"email"`
	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	State      string `gorm:"not null" json:"state"`
	PostalCode string `gorm:"not null" json:"postal_code"`

	LeadSource  string `gorm:"not null" json:"lead_source"`
	ProductType string `gorm:"not null" json:"product_type"`

	LeadStatus  string    `gorm:"type:varchar(20);default:'New'" json:"lead_status"`
	DateCreated time.Time `gorm:"index" json:"date_created"`
	CreatedBy   string    `json:"created_by"`
	AssignedTo  string    `json:"assigned_to"`

	// Qualifying answers, all optional.
	AvgElectricBill     string `json:"avg_electric_bill"`
	AvgKwhConsumption   string `json:"avg_kwh_consumption"`
	HasEV               string `json:"has_ev"`
	InterestedInStorage string `json:"interested_in_storage"`
	Goals               string `gorm:"type:text" json:"goals"`
	Notes               string `gorm:"type:text" json:"notes"`
	HasHOA              string `json:"has_hoa"`
	JobType             string `json:"job_type"`
	ConstructionType    string `json:"construction_type"`
	InstallationType    string `json:"installation_type"`
	RoofType            string `json:"roof_type"`
	PrimaryPhoneType    string `json:"primary_phone_type"`
	TitleOfLead         string `json:"title_of_lead"`
	FloorCount          string `json:"floor_count"`
	ReferralSource      string `json:"referral_source"`
	HasPool             string `json:"has_pool"`
	UtilityProvider     string `json:"utility_provider"`
	HasBill             string `json:"has_bill"`
	RoofAge             string `json:"roof_age"`
	RoofCondition       string `json:"roof_condition"`
	RoofShade           string `json:"roof_shade"`
	ProjectReadiness    string `json:"project_readiness"`
	Referrals           string `json:"referrals"`
	FinancingMethod     string `json:"financing_method"`
	PreferredProducts   string `json:"preferred_products"`

	// Integration status for the last CRM / webhook attempt.
	APISent         bool   `gorm:"column:api_sent;default:false" json:"api_sent"`
	APIResponseID   string `gorm:"column:api_response_id" json:"api_response_id"`
	APIResponseData JSONB  `gorm:"column:api_response_data;type:jsonb" json:"api_response_data"`
	WebhookSent     bool   `gorm:"default:false" json:"webhook_sent"`
	WebhookError    string `json:"webhook_error"`

	AssignedSalesRepID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_sales_rep_id"`
	RoutingMethod      string     `gorm:"type:varchar(30)" json:"routing_method"`

	// Full snapshot of the submitted form, custom field values included.
	FormData JSONB `gorm:"type:jsonb" json:"form_data"`

	gorm.Model `json:"-"`
}

func (l *Lead) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

// Custom JSONB type for form snapshots and CRM response payloads
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &j)
}
