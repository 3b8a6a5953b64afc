package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoutingRule is a weighted-percentage assignment rule. Active percentages
// are expected to sum to 100; the router falls back to the last rule when
// they do not.
type RoutingRule struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SalesRepID uuid.UUID `gorm:"type:uuid;index;not null" json:"sales_rep_id"`
	Percentage float64   `gorm:"not null" json:"percentage"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`

	gorm.Model `json:"-"`
}

// CityRoutingRule overrides percentage routing for an exact city match.
// Matching is case-sensitive.
type CityRoutingRule struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	City       string    `gorm:"index;not null" json:"city"`
	SalesRepID uuid.UUID `gorm:"type:uuid;not null" json:"sales_rep_id"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`

	gorm.Model `json:"-"`
}

// RoutingLog is an append-only audit record of every routing decision,
// kept for rebalancing percentage rules over time.
type RoutingLog struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	LeadEmail          string     `json:"lead_email"`
	LeadCity           string     `json:"lead_city"`
	LeadSource         string     `json:"lead_source"`
	LeadStatus         string     `json:"lead_status"`
	AssignedSalesRepID *uuid.UUID `gorm:"type:uuid" json:"assigned_sales_rep_id"`
	RoutingMethod      string     `gorm:"type:varchar(30)" json:"routing_method"`
	RoutingCriteria    JSONB      `gorm:"type:jsonb" json:"routing_criteria"`
	RandomValue        *float64   `json:"random_value"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (r *RoutingLog) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
