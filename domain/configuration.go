package domain

import (
	"encoding/json"
	"fmt"
)

// AuthFlow selects how requests reach the Google Ads API.
type AuthFlow string

const (
	// AuthFlowStape routes through the container's auth proxy, which holds the credentials.
	AuthFlowStape AuthFlow = "stape"
	// AuthFlowOwn calls googleapis.com directly with an OAuth bearer token and developer token.
	AuthFlowOwn AuthFlow = "own"
)

// LogMode toggles a log sink.
type LogMode string

const (
	LogModeUnset  LogMode = ""
	LogModeOff    LogMode = "no"
	LogModeDebug  LogMode = "debug"
	LogModeAlways LogMode = "always"
)

// AdStorageConsentRequired makes the consent gate active.
const AdStorageConsentRequired = "required"

// Configuration is the operator-supplied settings for one invocation.
type Configuration struct {
	OperatingCustomerID         string
	LoginCustomerID             string
	ConversionActionSource      string
	ConversionActionDestination string
	AuthFlow                    AuthFlow
	DeveloperToken              string
	ValidateOnly                bool
	UseOptimisticScenario       bool
	AdStorageConsent            string
	ConsoleLogMode              LogMode
	StorageLogMode              LogMode

	Mapping MappingOverrides
}

// MappingOverrides are the per-event values a tag configuration can bind explicitly.
// They take precedence over the matching event fields.
type MappingOverrides struct {
	OrderID            any    `json:"orderId,omitempty"`
	ConversionValue    any    `json:"conversionValue,omitempty"`
	CurrencyCode       string `json:"currencyCode,omitempty"`
	ConversionDateTime any    `json:"conversionDateTime,omitempty"`

	Gclid  string `json:"gclid,omitempty"`
	Gbraid string `json:"gbraid,omitempty"`
	Wbraid string `json:"wbraid,omitempty"`

	Items                []CartItem `json:"items,omitempty"`
	MerchantID           any        `json:"merchantId,omitempty"`
	FeedCountryCode      string     `json:"feedCountryCode,omitempty"`
	FeedLanguageCode     string     `json:"feedLanguageCode,omitempty"`
	LocalTransactionCost any        `json:"localTransactionCost,omitempty"`

	CustomVariables []CustomVariable `json:"customDataList,omitempty"`
	UserDataList    []UserDataEntry  `json:"userDataList,omitempty"`

	AdUserData        string `json:"adUserData,omitempty"`
	AdPersonalization string `json:"adPersonalization,omitempty"`
}

// CustomVariable binds a conversion custom variable id to a value.
type CustomVariable struct {
	ConversionCustomVariable string `json:"conversionCustomVariable"`
	Value                    any    `json:"value"`
}

// UserDataEntry is an operator-configured user identifier.
type UserDataEntry struct {
	Name                 string `json:"name"`
	Value                any    `json:"value"`
	UserIdentifierSource string `json:"userIdentifierSource,omitempty"`
}

// WithOverrides returns a copy of c whose Mapping is overlaid with the JSON object in raw.
// Keys absent from raw keep the configured default. c itself is never modified.
func (c Configuration) WithOverrides(raw []byte) (Configuration, error) {
	if len(raw) == 0 {
		return c, nil
	}
	var present map[string]json.RawMessage
	if err := json.Unmarshal(raw, &present); err != nil {
		return c, fmt.Errorf("invalid overrides: %w", err)
	}

	// Unmarshal decodes into the backing array of a non-nil slice, which is shared
	// with the default mapping.
	mapping := c.Mapping
	mapping.Items = nil
	mapping.CustomVariables = nil
	mapping.UserDataList = nil
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return c, fmt.Errorf("invalid overrides: %w", err)
	}

	if _, ok := present["items"]; !ok {
		mapping.Items = c.Mapping.Items
	}
	if _, ok := present["customDataList"]; !ok {
		mapping.CustomVariables = c.Mapping.CustomVariables
	}
	if _, ok := present["userDataList"]; !ok {
		mapping.UserDataList = c.Mapping.UserDataList
	}

	c.Mapping = mapping
	return c, nil
}
