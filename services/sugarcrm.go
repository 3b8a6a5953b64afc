// services/sugarcrm.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// CRM failure classes surfaced to the submission pipeline. Both are
// recovered there: recorded on the lead row, never re-thrown.
var (
	ErrCrmAuth    = errors.New("failed to authenticate with SugarCRM")
	ErrCrmRequest = errors.New("failed to create lead in SugarCRM")
)

// tokenExpiryBuffer treats a cached token as expired while less than five
// minutes remain before its actual expiry.
const tokenExpiryBuffer = 5 * time.Minute

type sugarAuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// SugarLead is the camelCase lead payload handed to the CRM client. The
// proxy endpoint receives it verbatim; the direct path maps it to Sugar's
// flat field names first.
type SugarLead struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	LeadSource  string `json:"leadSource"`
	ProductType string `json:"productType"`
}

// SugarClient talks to the SugarCRM v11 REST API with a password-grant
// bearer token, cached until shortly before expiry. When the direct call
// fails for any reason it retries the whole create through the server-side
// proxy endpoint, which performs the same token-fetch-and-post from a
// trusted origin.
type SugarClient struct {
	http     *resty.Client
	proxyURL string

	username     string
	password     string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewSugarClient(baseURL, proxyURL, username, password, clientID, clientSecret string) *SugarClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &SugarClient{
		http:         client,
		proxyURL:     proxyURL,
		username:     username,
		password:     password,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

func NewSugarClientFromEnv() *SugarClient {
	return NewSugarClient(
		os.Getenv("SUGAR_API_URL"),
		os.Getenv("SUGAR_PROXY_URL"),
		os.Getenv("SUGAR_USERNAME"),
		os.Getenv("SUGAR_PASSWORD"),
		os.Getenv("SUGAR_CLIENT_ID"),
		os.Getenv("SUGAR_CLIENT_SECRET"),
	)
}

// CreateLead creates a lead in SugarCRM, returning the CRM's JSON record.
// Only when both the direct path and the proxy path fail does it report an
// error upward.
func (c *SugarClient) CreateLead(lead SugarLead) (map[string]interface{}, error) {
	record, directErr := c.createDirect(lead)
	if directErr == nil {
		return record, nil
	}
	log.Printf("SugarCRM: direct create failed, retrying via proxy: %v", directErr)

	if c.proxyURL == "" {
		return nil, fmt.Errorf("%w: %v", ErrCrmRequest, directErr)
	}

	record, proxyErr := c.createViaProxy(lead)
	if proxyErr == nil {
		return record, nil
	}
	log.Printf("SugarCRM: proxy create failed: %v", proxyErr)

	return nil, fmt.Errorf("%w: direct: %v; proxy: %v", ErrCrmRequest, directErr, proxyErr)
}

func (c *SugarClient) createDirect(lead SugarLead) (map[string]interface{}, error) {
	token, err := c.getValidToken()
	if err != nil {
		return nil, err
	}

	var record map[string]interface{}
	resp, err := c.http.R().
		SetHeader("OAuth-Token", token).
		SetBody(mapSugarFields(lead, time.Now())).
		SetResult(&record).
		Post("/Leads")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("create lead returned %d: %s", resp.StatusCode(), resp.Status())
	}
	return record, nil
}

func (c *SugarClient) createViaProxy(lead SugarLead) (map[string]interface{}, error) {
	var record map[string]interface{}
	resp, err := resty.New().
		SetTimeout(15*time.Second).
		SetHeader("Content-Type", "application/json").
		R().
		SetBody(lead).
		SetResult(&record).
		Post(c.proxyURL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("proxy returned %d: %s", resp.StatusCode(), resp.Status())
	}
	return record, nil
}

// getValidToken returns the cached bearer token, refreshing it when less
// than the expiry buffer remains.
func (c *SugarClient) getValidToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExpiry) > tokenExpiryBuffer {
		return c.token, nil
	}

	var auth sugarAuthResponse
	resp, err := c.http.R().
		SetBody(map[string]interface{}{
			"grant_type":    "password",
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
			"username":      c.username,
			"password":      c.password,
			"platform":      "custom_api",
		}).
		SetResult(&auth).
		Post("/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCrmAuth, err)
	}
	if resp.IsError() || auth.AccessToken == "" {
		return "", fmt.Errorf("%w: token endpoint returned %d", ErrCrmAuth, resp.StatusCode())
	}

	c.token = auth.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(auth.ExpiresIn) * time.Second)
	return c.token, nil
}

// mapSugarFields translates the camelCase form fields to SugarCRM's flat
// field names.
func mapSugarFields(lead SugarLead, now time.Time) map[string]interface{} {
	fullName := lead.FirstName + " " + lead.LastName
	return map[string]interface{}{
		"account_name":               fullName,
		"phone_mobile":               lead.Phone,
		"email1":                     lead.Email,
		"primary_address_street":     lead.Address,
		"primary_address_city":       lead.City,
		"primary_address_state":      lead.State,
		"primary_address_postalcode": lead.Zip,
		"lead_source":                lead.LeadSource,
		"product_type_c":             lead.ProductType,
		"status":                     "New",
		"date_entered":               now.UTC().Format(time.RFC3339),
		"first_name":                 lead.FirstName,
		"last_name":                  lead.LastName,
		"full_name":                  fullName,
	}
}
