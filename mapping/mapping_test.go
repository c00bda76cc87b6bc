package mapping

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/hashing"
)

var now = time.Date(2024, time.March, 5, 12, 30, 0, 0, time.UTC)

func baseConfig() domain.Configuration {
	return domain.Configuration{
		OperatingCustomerID:         "1234567890",
		LoginCustomerID:             "1112223333",
		ConversionActionSource:      "111",
		ConversionActionDestination: "222",
		AuthFlow:                    domain.AuthFlowOwn,
	}
}

func decodeEvent(t *testing.T, raw string) domain.EventRecord {
	t.Helper()
	var event domain.EventRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &event))
	return event
}

func TestBuildAdjustmentWithoutOrderID(t *testing.T) {
	event := decodeEvent(t, `{"value": 10, "currency": "USD", "email": "a@b.com"}`)

	req, err := BuildAdjustment(baseConfig(), event, now)

	assert.Nil(t, req)
	assert.ErrorIs(t, err, ErrMissingOrderID)
	assert.ErrorIs(t, err, ErrUnbuildable)
}

func TestBuildAdjustmentRestatementClearsIdentifiers(t *testing.T) {
	event := decodeEvent(t, `{
		"transaction_id": "T-1",
		"value": 49.9,
		"currency": "EUR",
		"email": "buyer@example.com",
		"phone": "+1 555 123 4567"
	}`)

	req, err := BuildAdjustment(baseConfig(), event, now)
	require.NoError(t, err)
	require.Len(t, req.ConversionAdjustments, 1)

	adj := req.ConversionAdjustments[0]
	assert.Equal(t, domain.AdjustmentTypeRestatement, adj.AdjustmentType)
	assert.Empty(t, adj.UserIdentifiers)
	require.NotNil(t, adj.RestatementValue)
	assert.Equal(t, 49.9, adj.RestatementValue.AdjustedValue)
	assert.Equal(t, "EUR", adj.RestatementValue.CurrencyCode)
	assert.Equal(t, "T-1", adj.OrderID)
	assert.Equal(t, "customers/1234567890/conversionActions/111", adj.ConversionAction)
	assert.Equal(t, "2024-03-05 12:30:00+00:00", adj.AdjustmentDateTime)
	assert.True(t, req.PartialFailure)
	assert.True(t, req.ValidateOnly)
}

func TestBuildAdjustmentEnhancement(t *testing.T) {
	event := decodeEvent(t, `{
		"orderId": 42,
		"value": 10,
		"user_data": {"email_address": "First.Last@gmail.com", "phone_number": "(555) 123-4567"},
		"addressInfo": {"hashedFirstName": "Jane", "city": "Springfield"}
	}`)

	req, err := BuildAdjustment(baseConfig(), event, now)
	require.NoError(t, err)

	adj := req.ConversionAdjustments[0]
	assert.Equal(t, domain.AdjustmentTypeEnhancement, adj.AdjustmentType)
	assert.Nil(t, adj.RestatementValue, "value without currency is not a restatement")
	assert.Equal(t, "42", adj.OrderID)

	require.Len(t, adj.UserIdentifiers, 3)
	assert.Equal(t, hashing.KindEmail, adj.UserIdentifiers[0].Kind)
	assert.Equal(t, hashing.HashString(hashing.KindEmail, "firstlast@gmail.com"), adj.UserIdentifiers[0].Value)
	assert.Equal(t, SourceUnspecified, adj.UserIdentifiers[0].Source)
	assert.Equal(t, hashing.KindPhone, adj.UserIdentifiers[1].Kind)
	assert.Equal(t, hashing.HashString(hashing.KindPhone, "5551234567"), adj.UserIdentifiers[1].Value)

	address, ok := adj.UserIdentifiers[2].Value.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Springfield", address["city"])
	assert.Equal(t, hashing.HashString(hashing.KindAddress, "jane"), address["hashedFirstName"])
}

func TestBuildAdjustmentWithNothingToSend(t *testing.T) {
	event := decodeEvent(t, `{"order_id": "A-1"}`)

	_, err := BuildAdjustment(baseConfig(), event, now)

	assert.ErrorIs(t, err, ErrNoAdjustmentType)
}

func TestBuildAdjustmentOverridesWin(t *testing.T) {
	cfg := baseConfig()
	cfg.Mapping.OrderID = "OVR"
	cfg.Mapping.ConversionValue = "12.5"
	cfg.Mapping.CurrencyCode = "GBP"
	event := decodeEvent(t, `{"orderId": "EVT", "value": 99, "currency": "USD"}`)

	req, err := BuildAdjustment(cfg, event, now)
	require.NoError(t, err)

	adj := req.ConversionAdjustments[0]
	assert.Equal(t, "OVR", adj.OrderID)
	assert.Equal(t, &domain.RestatementValue{AdjustedValue: 12.5, CurrencyCode: "GBP"}, adj.RestatementValue)
}

func TestBuildAdjustmentRequiresConfiguration(t *testing.T) {
	event := decodeEvent(t, `{"orderId": "1", "value": 1, "currency": "USD"}`)

	cfg := baseConfig()
	cfg.OperatingCustomerID = ""
	_, err := BuildAdjustment(cfg, event, now)
	assert.ErrorIs(t, err, ErrMissingCustomerID)

	cfg = baseConfig()
	cfg.ConversionActionSource = ""
	_, err = BuildAdjustment(cfg, event, now)
	assert.ErrorIs(t, err, ErrMissingConversionAction)
}

func TestUserIdentifiersConfiguredEntriesClaimKinds(t *testing.T) {
	cfg := baseConfig()
	cfg.Mapping.UserDataList = []domain.UserDataEntry{
		{Name: hashing.KindEmail, Value: "configured@example.com", UserIdentifierSource: "FIRST_PARTY"},
		{Name: hashing.KindPhone, Value: ""},
		{Name: "thirdPartyUserId", Value: nil},
	}
	event := decodeEvent(t, `{"email": "event@example.com", "phone": "5551234567"}`)

	ids := UserIdentifiers(cfg, event)

	require.Len(t, ids, 2)
	assert.Equal(t, domain.UserIdentifier{
		Kind:   hashing.KindEmail,
		Value:  hashing.HashString(hashing.KindEmail, "configured@example.com"),
		Source: "FIRST_PARTY",
	}, ids[0])
	// the empty phone entry is invalid, so the event phone is still used
	assert.Equal(t, hashing.KindPhone, ids[1].Kind)
	assert.Equal(t, SourceUnspecified, ids[1].Source)
}

func TestUserIdentifiersEmailPriority(t *testing.T) {
	event := decodeEvent(t, `{
		"email_address": "third@example.com",
		"email": "second@example.com",
		"user": {"email": "fourth@example.com"}
	}`)

	ids := UserIdentifiers(baseConfig(), event)

	require.Len(t, ids, 1)
	assert.Equal(t, hashing.HashString(hashing.KindEmail, "second@example.com"), ids[0].Value)
}

func TestUserIdentifiersSkipsNonObjectUserData(t *testing.T) {
	event := decodeEvent(t, `{"user_data": "nope", "user_properties": {"phone": "123"}}`)

	ids := UserIdentifiers(baseConfig(), event)

	require.Len(t, ids, 1)
	assert.Equal(t, hashing.KindPhone, ids[0].Kind)
}

func TestUserIdentifierJSON(t *testing.T) {
	raw, err := json.Marshal(domain.UserIdentifier{Kind: "hashedEmail", Value: "abc", Source: SourceUnspecified})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hashedEmail":"abc","userIdentifierSource":"UNSPECIFIED"}`, string(raw))
}
