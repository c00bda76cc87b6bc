package domain

import (
	"bytes"
	"encoding/json"
)

// AdjustmentType is the kind of conversion adjustment sent to uploadConversionAdjustments.
type AdjustmentType string

const (
	AdjustmentTypeEnhancement AdjustmentType = "ENHANCEMENT"
	AdjustmentTypeRestatement AdjustmentType = "RESTATEMENT"
)

// ConversionNotFound is the upload error that escalates an adjustment to an offline conversion.
const ConversionNotFound = "CONVERSION_NOT_FOUND"

// ConversionEnvironmentWeb marks click conversions as web conversions.
const ConversionEnvironmentWeb = "WEB"

// AdjustmentRequest is the uploadConversionAdjustments body.
type AdjustmentRequest struct {
	ConversionAdjustments []ConversionAdjustment `json:"conversionAdjustments"`
	PartialFailure        bool                   `json:"partialFailure"`
	ValidateOnly          bool                   `json:"validateOnly"`
}

type ConversionAdjustment struct {
	ConversionAction   string            `json:"conversionAction"`
	AdjustmentType     AdjustmentType    `json:"adjustmentType"`
	OrderID            string            `json:"orderId"`
	AdjustmentDateTime string            `json:"adjustmentDateTime"`
	RestatementValue   *RestatementValue `json:"restatementValue,omitempty"`
	UserIdentifiers    []UserIdentifier  `json:"userIdentifiers,omitempty"`
}

type RestatementValue struct {
	AdjustedValue float64 `json:"adjustedValue"`
	CurrencyCode  string  `json:"currencyCode"`
}

// OfflineConversionRequest is the uploadClickConversions body.
type OfflineConversionRequest struct {
	Conversions    []ClickConversion `json:"conversions"`
	PartialFailure bool              `json:"partialFailure"`
	ValidateOnly   bool              `json:"validateOnly"`
}

type ClickConversion struct {
	ConversionEnvironment string                `json:"conversionEnvironment"`
	ConversionAction      string                `json:"conversionAction"`
	CustomVariables       []CustomVariableValue `json:"customVariables,omitempty"`
	Gclid                 string                `json:"gclid,omitempty"`
	Gbraid                string                `json:"gbraid,omitempty"`
	Wbraid                string                `json:"wbraid,omitempty"`
	ConversionDateTime    string                `json:"conversionDateTime"`
	CartData              *CartData             `json:"cartData,omitempty"`
	OrderID               string                `json:"orderId,omitempty"`
	ConversionValue       *float64              `json:"conversionValue,omitempty"`
	CurrencyCode          string                `json:"currencyCode,omitempty"`
	Consent               *Consent              `json:"consent,omitempty"`
	UserIdentifiers       []UserIdentifier      `json:"userIdentifiers,omitempty"`
}

// HasClickID reports whether any of gclid, gbraid or wbraid is set.
func (c ClickConversion) HasClickID() bool {
	return c.Gclid != "" || c.Gbraid != "" || c.Wbraid != ""
}

type CustomVariableValue struct {
	ConversionCustomVariable string `json:"conversionCustomVariable"`
	Value                    any    `json:"value"`
}

type CartData struct {
	Items                []CartItem `json:"items,omitempty"`
	MerchantID           any        `json:"merchantId,omitempty"`
	FeedCountryCode      string     `json:"feedCountryCode,omitempty"`
	FeedLanguageCode     string     `json:"feedLanguageCode,omitempty"`
	LocalTransactionCost *float64   `json:"localTransactionCost,omitempty"`
}

type CartItem struct {
	ProductID string   `json:"productId,omitempty"`
	Quantity  *int64   `json:"quantity,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
}

type Consent struct {
	AdUserData        string `json:"adUserData,omitempty"`
	AdPersonalization string `json:"adPersonalization,omitempty"`
}

// UserIdentifier serializes as {"<Kind>": Value, "userIdentifierSource": Source}.
type UserIdentifier struct {
	Kind   string
	Value  any
	Source string
}

func (u UserIdentifier) MarshalJSON() ([]byte, error) {
	out := map[string]any{u.Kind: u.Value}
	if u.Source != "" {
		out["userIdentifierSource"] = u.Source
	}
	return json.Marshal(out)
}

// UploadResponse is the slice of an upload response body used for escalation.
type UploadResponse struct {
	PartialFailureError *PartialFailureError `json:"partialFailureError,omitempty"`
}

type PartialFailureError struct {
	Code    int                    `json:"code,omitempty"`
	Message string                 `json:"message,omitempty"`
	Details []PartialFailureDetail `json:"details,omitempty"`
}

type PartialFailureDetail struct {
	Errors []GoogleAdsError `json:"errors,omitempty"`
}

type GoogleAdsError struct {
	ErrorCode GoogleAdsErrorCode `json:"errorCode"`
	Message   string             `json:"message,omitempty"`
}

type GoogleAdsErrorCode struct {
	ConversionAdjustmentUploadError string `json:"conversionAdjustmentUploadError,omitempty"`
}

// ParseUploadResponse decodes body when it holds a JSON object. ok is false for empty
// bodies, non-object JSON and undecodable payloads.
func ParseUploadResponse(body []byte) (resp UploadResponse, ok bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return resp, false
	}
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return UploadResponse{}, false
	}
	return resp, true
}

// FirstAdjustmentUploadError returns the adjustment upload error code of the first
// reported partial failure, or "" when there is none.
func (r UploadResponse) FirstAdjustmentUploadError() string {
	if r.PartialFailureError == nil || len(r.PartialFailureError.Details) == 0 {
		return ""
	}
	errs := r.PartialFailureError.Details[0].Errors
	if len(errs) == 0 {
		return ""
	}
	return errs[0].ErrorCode.ConversionAdjustmentUploadError
}
