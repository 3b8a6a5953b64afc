// services/router.go
package services

import (
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"solarlead-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Routing methods recorded on the lead and in the routing log.
const (
	RoutingMethodCity               = "city"
	RoutingMethodPercentage         = "percentage"
	RoutingMethodPercentageFallback = "percentage-fallback"
	RoutingMethodNone               = "none"
	RoutingMethodError              = "error"
)

// LeadContext is the slice of a lead the router looks at.
type LeadContext struct {
	Email      string
	City       string
	LeadSource string
	LeadStatus string
}

// RoutingDecision is the outcome of a routing run. RandomValue is set only
// for percentage-based methods, for audit logging.
type RoutingDecision struct {
	SalesRepID  *uuid.UUID
	Method      string
	RandomValue *float64
}

// LeadRouter assigns incoming leads to sales reps, preferring an exact-match
// city override, then a weighted-percentage random draw over the active
// rules. Routing never blocks a submission: any store failure yields the
// "error" method with no assignment.
type LeadRouter struct {
	db  *gorm.DB
	rng *rand.Rand
	mu  sync.Mutex
}

func NewLeadRouter(db *gorm.DB) *LeadRouter {
	return &LeadRouter{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewLeadRouterWithSeed builds a router with deterministic draws for tests.
func NewLeadRouterWithSeed(db *gorm.DB, seed int64) *LeadRouter {
	return &LeadRouter{
		db:  db,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Route decides the sales rep for a lead and appends the decision to the
// routing log.
func (r *LeadRouter) Route(lead LeadContext) RoutingDecision {
	decision := r.decide(lead)
	r.logRouting(lead, decision)
	return decision
}

func (r *LeadRouter) decide(lead LeadContext) RoutingDecision {
	// City override first. Exact, case-sensitive match.
	if lead.City != "" {
		var cityRule models.CityRoutingRule
		err := r.db.Where("is_active = ? AND city = ?", true, lead.City).First(&cityRule).Error
		if err == nil {
			repID := cityRule.SalesRepID
			return RoutingDecision{SalesRepID: &repID, Method: RoutingMethodCity}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Routing: city rule lookup failed for %q: %v", lead.City, err)
			return RoutingDecision{Method: RoutingMethodError}
		}
	}

	var rules []models.RoutingRule
	if err := r.db.Where("is_active = ?", true).Order("percentage DESC").Find(&rules).Error; err != nil {
		log.Printf("Routing: rule lookup failed: %v", err)
		return RoutingDecision{Method: RoutingMethodError}
	}

	if len(rules) == 0 {
		return RoutingDecision{Method: RoutingMethodNone}
	}

	r.mu.Lock()
	draw := r.rng.Float64() * 100
	r.mu.Unlock()

	repID, method := pickByPercentage(rules, draw)
	return RoutingDecision{SalesRepID: &repID, Method: method, RandomValue: &draw}
}

// pickByPercentage walks rules (ordered percentage DESC) accumulating
// percentages until the cumulative sum covers the draw. When the walk
// exhausts all rules (active percentages summing to under 100), the last
// rule wins with the fallback method.
func pickByPercentage(rules []models.RoutingRule, draw float64) (uuid.UUID, string) {
	cumulative := 0.0
	for _, rule := range rules {
		cumulative += rule.Percentage
		if draw <= cumulative {
			return rule.SalesRepID, RoutingMethodPercentage
		}
	}
	return rules[len(rules)-1].SalesRepID, RoutingMethodPercentageFallback
}

func (r *LeadRouter) logRouting(lead LeadContext, decision RoutingDecision) {
	entry := models.RoutingLog{
		LeadEmail:          lead.Email,
		LeadCity:           lead.City,
		LeadSource:         lead.LeadSource,
		LeadStatus:         lead.LeadStatus,
		AssignedSalesRepID: decision.SalesRepID,
		RoutingMethod:      decision.Method,
		RandomValue:        decision.RandomValue,
		RoutingCriteria: models.JSONB{
			"city":       lead.City,
			"leadSource": lead.LeadSource,
			"leadStatus": lead.LeadStatus,
		},
	}
	if err := r.db.Create(&entry).Error; err != nil {
		log.Printf("Routing: failed to write routing log for %s: %v", lead.Email, err)
	}
}
