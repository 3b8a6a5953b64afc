package services

import (
	"errors"
	"testing"

	"solarlead-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	createErr error
	created   *models.Lead
	updates   []map[string]interface{}
}

func (f *fakeStore) CreateLead(lead *models.Lead) error {
	if f.createErr != nil {
		return f.createErr
	}
	lead.ID = uuid.New()
	f.created = lead
	return nil
}

func (f *fakeStore) UpdateLead(id uuid.UUID, updates map[string]interface{}) error {
	f.updates = append(f.updates, updates)
	return nil
}

func (f *fakeStore) lastUpdateWith(key string) map[string]interface{} {
	for i := len(f.updates) - 1; i >= 0; i-- {
		if _, ok := f.updates[i][key]; ok {
			return f.updates[i]
		}
	}
	return nil
}

type fakeRouter struct {
	decision RoutingDecision
	routed   []LeadContext
}

func (f *fakeRouter) Route(lead LeadContext) RoutingDecision {
	f.routed = append(f.routed, lead)
	return f.decision
}

type fakeCrm struct {
	record map[string]interface{}
	err    error
	calls  int
	leads  []SugarLead
}

func (f *fakeCrm) CreateLead(lead SugarLead) (map[string]interface{}, error) {
	f.calls++
	f.leads = append(f.leads, lead)
	return f.record, f.err
}

type fakeWebhook struct {
	err      error
	payloads []map[string]interface{}
}

func (f *fakeWebhook) NotifyLead(payload map[string]interface{}) error {
	f.payloads = append(f.payloads, payload)
	return f.err
}

func validInput() SubmissionInput {
	return SubmissionInput{
		FirstName:   "Jane",
		LastName:    "Doe",
		Phone:       "(512) 555-1234",
		Email:       "jane@example.com",
		Address:     "1 Main St",
		City:        "Austin",
		State:       "TX",
		Zip:         "78701",
		LeadSource:  "Website",
		ProductType: "Solar Panels",
	}
}

func newTestPipeline(store *fakeStore, router *fakeRouter, crm *fakeCrm, webhook *fakeWebhook) *SubmissionPipeline {
	return NewSubmissionPipeline(store, router, crm, webhook, nil)
}

func TestSubmitBothLegsSucceed(t *testing.T) {
	store := &fakeStore{}
	crm := &fakeCrm{record: map[string]interface{}{"id": "crm-1"}}
	webhook := &fakeWebhook{}
	p := newTestPipeline(store, &fakeRouter{decision: RoutingDecision{Method: RoutingMethodNone}}, crm, webhook)

	result, err := p.Submit(validInput())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.APISent)
	assert.True(t, result.WebhookSent)
	assert.NotEqual(t, uuid.Nil, result.LeadID)

	crmUpdate := store.lastUpdateWith("api_sent")
	require.NotNil(t, crmUpdate)
	assert.Equal(t, true, crmUpdate["api_sent"])
	assert.Equal(t, "crm-1", crmUpdate["api_response_id"])

	webhookUpdate := store.lastUpdateWith("webhook_sent")
	require.NotNil(t, webhookUpdate)
	assert.Equal(t, true, webhookUpdate["webhook_sent"])
}

func TestSubmitCrmFailureDoesNotBlockWebhook(t *testing.T) {
	store := &fakeStore{}
	crm := &fakeCrm{err: errors.New("sugar down")}
	webhook := &fakeWebhook{}
	p := newTestPipeline(store, &fakeRouter{decision: RoutingDecision{Method: RoutingMethodNone}}, crm, webhook)

	result, err := p.Submit(validInput())

	require.NoError(t, err)
	assert.True(t, result.Success, "webhook alone carries the submission")
	assert.False(t, result.APISent)
	assert.True(t, result.WebhookSent)
	assert.Len(t, webhook.payloads, 1)

	crmUpdate := store.lastUpdateWith("api_sent")
	require.NotNil(t, crmUpdate)
	assert.Equal(t, false, crmUpdate["api_sent"])
	data, ok := crmUpdate["api_response_data"].(models.JSONB)
	require.True(t, ok)
	assert.Contains(t, data["details"], "sugar down")
}

func TestSubmitBothLegsFail(t *testing.T) {
	store := &fakeStore{}
	crm := &fakeCrm{err: errors.New("sugar down")}
	webhook := &fakeWebhook{err: errors.New("502: Bad Gateway")}
	p := newTestPipeline(store, &fakeRouter{decision: RoutingDecision{Method: RoutingMethodNone}}, crm, webhook)

	result, err := p.Submit(validInput())

	require.NoError(t, err, "overall failure is a result, not an error: the row persisted")
	assert.False(t, result.Success)
	assert.False(t, result.APISent)
	assert.False(t, result.WebhookSent)

	webhookUpdate := store.lastUpdateWith("webhook_sent")
	require.NotNil(t, webhookUpdate)
	assert.Equal(t, false, webhookUpdate["webhook_sent"])
	assert.Equal(t, "502: Bad Gateway", webhookUpdate["webhook_error"])
}

func TestSubmitPersistFailureAbortsEverything(t *testing.T) {
	store := &fakeStore{createErr: errors.New("db unreachable")}
	crm := &fakeCrm{}
	webhook := &fakeWebhook{}
	p := newTestPipeline(store, &fakeRouter{decision: RoutingDecision{Method: RoutingMethodNone}}, crm, webhook)

	_, err := p.Submit(validInput())

	assert.ErrorIs(t, err, ErrPersistFailure)
	assert.Zero(t, crm.calls, "CRM must not be attempted without a persisted row")
	assert.Empty(t, webhook.payloads, "webhook must not be attempted without a persisted row")
}

func TestSubmitInvalidPhoneRejected(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store, &fakeRouter{}, &fakeCrm{}, &fakeWebhook{})

	input := validInput()
	input.Phone = "555-12"
	_, err := p.Submit(input)

	assert.ErrorIs(t, err, ErrInvalidPhone)
	assert.Nil(t, store.created)
}

func TestSubmitNormalizesPhoneBeforePersist(t *testing.T) {
	store := &fakeStore{}
	crm := &fakeCrm{record: map[string]interface{}{"id": "crm-1"}}
	p := newTestPipeline(store, &fakeRouter{decision: RoutingDecision{Method: RoutingMethodNone}}, crm, &fakeWebhook{})

	_, err := p.Submit(validInput())

	require.NoError(t, err)
	require.NotNil(t, store.created)
	assert.Equal(t, "+15125551234", store.created.Phone)
	// The CRM leg sees the normalized number too.
	require.Len(t, crm.leads, 1)
	assert.Equal(t, "+15125551234", crm.leads[0].Phone)
}

func TestSubmitCityRoutingRecordedOnRow(t *testing.T) {
	repID := uuid.New()
	store := &fakeStore{}
	router := &fakeRouter{decision: RoutingDecision{SalesRepID: &repID, Method: RoutingMethodCity}}
	p := newTestPipeline(store, router, &fakeCrm{record: map[string]interface{}{"id": "x"}}, &fakeWebhook{})

	input := validInput()
	input.City = "Dallas"
	result, err := p.Submit(input)

	require.NoError(t, err)
	assert.Equal(t, RoutingMethodCity, result.RoutingMethod)
	require.NotNil(t, store.created.AssignedSalesRepID)
	assert.Equal(t, repID, *store.created.AssignedSalesRepID)
	assert.Equal(t, RoutingMethodCity, store.created.RoutingMethod)

	require.Len(t, router.routed, 1)
	assert.Equal(t, "Dallas", router.routed[0].City)
}

func TestSubmitFlattensCustomFieldsForWebhook(t *testing.T) {
	store := &fakeStore{}
	webhook := &fakeWebhook{}
	p := newTestPipeline(store, &fakeRouter{decision: RoutingDecision{Method: RoutingMethodNone}}, &fakeCrm{err: errors.New("down")}, webhook)

	input := validInput()
	input.CustomFields = []CustomFieldValue{
		{Label: "Roof Pitch", SugarCRMField: "roof_pitch_c", FieldType: "text", Value: "4/12"},
		{Label: "Unmapped", SugarCRMField: "", FieldType: "text", Value: "ignored"},
	}
	_, err := p.Submit(input)

	require.NoError(t, err)
	require.Len(t, webhook.payloads, 1)
	flat, ok := webhook.payloads[0]["customFieldsFormatted"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "4/12", flat["roof_pitch_c"])
	assert.NotContains(t, flat, "")
}

func TestSubmitSnapshotStoredOnRow(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(store, &fakeRouter{decision: RoutingDecision{Method: RoutingMethodNone}}, &fakeCrm{record: map[string]interface{}{}}, &fakeWebhook{})

	input := validInput()
	input.Notes = "south-facing roof"
	_, err := p.Submit(input)

	require.NoError(t, err)
	require.NotNil(t, store.created)
	assert.Equal(t, "south-facing roof", store.created.FormData["notes"])
	assert.Equal(t, "Jane", store.created.FormData["firstName"])
}
