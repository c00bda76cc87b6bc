package services

import (
	"strings"

	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/normalize"
)

// SandboxURLPrefix is where Google's tag diagnostics replay events from.
const SandboxURLPrefix = "https://gtm-msr.appspot.com/"

// IsSandboxURL reports whether pageURL belongs to the tag diagnostics sandbox.
func IsSandboxURL(pageURL string) bool {
	return strings.HasPrefix(pageURL, SandboxURLPrefix)
}

// ConsentAllowsUpload applies the ad storage consent gate. Without the "required"
// setting everything passes. Otherwise the structured consent state decides when
// present, and the legacy x-ga-gcs string (e.g. "G111") when not: its third
// character is the ad storage flag.
func ConsentAllowsUpload(cfg domain.Configuration, event domain.EventRecord) bool {
	if cfg.AdStorageConsent != domain.AdStorageConsentRequired {
		return true
	}
	if event.ConsentState != nil {
		return normalize.IsPresent(event.ConsentState.AdStorage)
	}
	return len(event.GCS) > 2 && event.GCS[2] == '1'
}

// ReplayKey identifies a conversion for the replay guard. ok is false when the event
// has no order id, in which case it is never deduplicated.
func ReplayKey(cfg domain.Configuration, event domain.EventRecord) (string, bool) {
	orderID, ok := normalize.ResolveOrderID(cfg.Mapping.OrderID, event)
	if !ok {
		return "", false
	}
	value, _ := normalize.ResolveValue(cfg.Mapping.ConversionValue, event, 0)
	currency, _ := normalize.ResolveCurrency(cfg.Mapping.CurrencyCode, event, "")

	return strings.Join([]string{
		cfg.OperatingCustomerID,
		cfg.ConversionActionSource,
		cfg.ConversionActionDestination,
		orderID,
		normalize.MakeString(value),
		currency,
	}, "|"), true
}
