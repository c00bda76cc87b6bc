package validations

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kucukaslan/gadsconversion/domain"
)

func TestValidateEventRequest(t *testing.T) {
	tests := []struct {
		name    string
		request *domain.EventRequest
		wantErr string
	}{
		{"nil", nil, "event_data is required"},
		{"missing event data", &domain.EventRequest{}, "event_data is required"},
		{"array event data", &domain.EventRequest{EventData: json.RawMessage(`[1]`)}, "must be a JSON object"},
		{"string overrides", &domain.EventRequest{EventData: json.RawMessage(`{}`), Overrides: json.RawMessage(`"x"`)}, "overrides"},
		{"null overrides", &domain.EventRequest{EventData: json.RawMessage(`{}`), Overrides: json.RawMessage(`null`)}, ""},
		{"valid", &domain.EventRequest{EventData: json.RawMessage(` {"value": 1}`), Overrides: json.RawMessage(`{"orderId": "A"}`)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEventRequest(tt.request)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestToInvocation(t *testing.T) {
	meta := domain.RequestMeta{TraceID: "t-1"}
	inv, err := ToInvocation(&domain.EventRequest{
		EventData: json.RawMessage(`{"transaction_id": "T-9", "value": "12.5", "gclid": "G"}`),
		Overrides: json.RawMessage(`{"currencyCode": "EUR"}`),
	}, meta)
	require.NoError(t, err)

	assert.Equal(t, meta, inv.Meta)
	assert.Equal(t, "T-9", inv.Event.TransactionID)
	assert.Equal(t, "12.5", inv.Event.Value)
	assert.Equal(t, "G", inv.Event.Gclid)
	assert.JSONEq(t, `{"currencyCode": "EUR"}`, string(inv.Overrides))

	inv, err = ToInvocation(&domain.EventRequest{EventData: json.RawMessage(`{}`), Overrides: json.RawMessage(`null`)}, meta)
	require.NoError(t, err)
	assert.Nil(t, inv.Overrides)

	_, err = ToInvocation(&domain.EventRequest{EventData: json.RawMessage(`{"gclid": 5}`)}, meta)
	assert.Error(t, err)
}

func TestValidateBulkEventRequest(t *testing.T) {
	valid := domain.EventRequest{EventData: json.RawMessage(`{}`)}

	assert.Error(t, ValidateBulkEventRequest(nil, 10))
	assert.Error(t, ValidateBulkEventRequest(&domain.BulkEventRequest{}, 10))
	assert.Error(t, ValidateBulkEventRequest(&domain.BulkEventRequest{Events: []domain.EventRequest{}}, 10))
	assert.NoError(t, ValidateBulkEventRequest(&domain.BulkEventRequest{Events: []domain.EventRequest{valid, valid}}, 2))

	err := ValidateBulkEventRequest(&domain.BulkEventRequest{Events: []domain.EventRequest{valid, valid, valid}}, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum allowed size of 2")

	err = ValidateBulkEventRequest(&domain.BulkEventRequest{Events: []domain.EventRequest{valid, {}}}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 1")
}

func TestValidateMetricRequest(t *testing.T) {
	ptr := func(v int64) *int64 { return &v }
	str := func(v string) *string { return &v }
	future := time.Now().Add(time.Hour).Unix()

	assert.NoError(t, ValidateMetricRequest(&domain.MetricRequest{}))
	assert.NoError(t, ValidateMetricRequest(&domain.MetricRequest{From: ptr(100), To: ptr(200), GroupBy: str("type")}))

	assert.Error(t, ValidateMetricRequest(&domain.MetricRequest{From: ptr(0)}))
	assert.Error(t, ValidateMetricRequest(&domain.MetricRequest{To: ptr(future)}))
	assert.Error(t, ValidateMetricRequest(&domain.MetricRequest{From: ptr(200), To: ptr(100)}))
	assert.Error(t, ValidateMetricRequest(&domain.MetricRequest{GroupBy: str(" ")}))
	assert.Error(t, ValidateMetricRequest(&domain.MetricRequest{GroupBy: str("user_id; DROP TABLE")}))
	assert.Error(t, ValidateMetricRequest(&domain.MetricRequest{EventName: str("")}))
}
