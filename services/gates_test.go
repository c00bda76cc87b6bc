package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kucukaslan/gadsconversion/domain"
)

func TestConsentAllowsUpload(t *testing.T) {
	required := domain.Configuration{AdStorageConsent: domain.AdStorageConsentRequired}

	assert.True(t, ConsentAllowsUpload(domain.Configuration{}, domain.EventRecord{GCS: "G100"}), "gate off")

	for _, tc := range []struct {
		name  string
		event domain.EventRecord
		want  bool
	}{
		{"gcs granted", domain.EventRecord{GCS: "G111"}, true},
		{"gcs denied", domain.EventRecord{GCS: "G101"}, false},
		{"gcs too short", domain.EventRecord{GCS: "G1"}, false},
		{"no signal", domain.EventRecord{}, false},
		{"consent state granted", domain.EventRecord{ConsentState: &domain.ConsentState{AdStorage: true}, GCS: "G100"}, true},
		{"consent state denied", domain.EventRecord{ConsentState: &domain.ConsentState{AdStorage: false}, GCS: "G111"}, false},
	} {
		assert.Equal(t, tc.want, ConsentAllowsUpload(required, tc.event), tc.name)
	}
}

func TestIsSandboxURL(t *testing.T) {
	assert.True(t, IsSandboxURL("https://gtm-msr.appspot.com/render"))
	assert.False(t, IsSandboxURL("https://shop.example.com/?ref=https://gtm-msr.appspot.com/"))
	assert.False(t, IsSandboxURL(""))
}

func TestReplayKey(t *testing.T) {
	cfg := domain.Configuration{OperatingCustomerID: "1", ConversionActionSource: "2", ConversionActionDestination: "3"}

	key, ok := ReplayKey(cfg, domain.EventRecord{TransactionID: "T", Value: 9.5, Currency: "EUR"})
	assert.True(t, ok)
	assert.Equal(t, "1|2|3|T|9.5|EUR", key)

	_, ok = ReplayKey(cfg, domain.EventRecord{Value: 9.5})
	assert.False(t, ok)
}
