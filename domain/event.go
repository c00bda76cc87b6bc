package domain

import "context"

// ConversionService runs inbound events through the adjustment/offline-conversion chain.
type ConversionService interface {
	Process(ctx context.Context, invocation *Invocation) (*EventResponse, error)
	ProcessBulk(ctx context.Context, invocations []*Invocation) (*BulkEventResponse, error)
	GetMetrics(ctx context.Context, metricRequest *MetricRequest) (*MetricResponse, error)
}

// EventRecord is the inbound conversion event as produced by the tagging server.
// Fields that arrive either as numbers or strings are left untyped and coerced by
// the normalize package. Several logical fields have more than one spelling; the
// alias order is owned by normalize, not by this struct.
type EventRecord struct {
	PageLocation string `json:"page_location,omitempty"`

	OrderID       any `json:"orderId,omitempty"`
	OrderIDAlias  any `json:"order_id,omitempty"`
	TransactionID any `json:"transaction_id,omitempty"`

	Value              any    `json:"value,omitempty"`
	ConversionValue    any    `json:"conversionValue,omitempty"`
	MPEventValue       any    `json:"x-ga-mp1-ev,omitempty"`
	MPRevenue          any    `json:"x-ga-mp1-tr,omitempty"`
	CurrencyCode       string `json:"currencyCode,omitempty"`
	Currency           string `json:"currency,omitempty"`
	ConversionDateTime any    `json:"conversionDateTime,omitempty"`

	Gclid  string `json:"gclid,omitempty"`
	Gbraid string `json:"gbraid,omitempty"`
	Wbraid string `json:"wbraid,omitempty"`

	Items                []EventItem `json:"items,omitempty"`
	MerchantID           any         `json:"merchantId,omitempty"`
	FeedCountryCode      string      `json:"feedCountryCode,omitempty"`
	FeedLanguageCode     string      `json:"feedLanguageCode,omitempty"`
	LocalTransactionCost any         `json:"localTransactionCost,omitempty"`

	HashedEmail    any `json:"hashedEmail,omitempty"`
	Email          any `json:"email,omitempty"`
	EmailAddress   any `json:"email_address,omitempty"`
	Phone          any `json:"phone,omitempty"`
	PhoneNumber    any `json:"phone_number,omitempty"`
	AddressInfo    any `json:"addressInfo,omitempty"`
	UserData       any `json:"user_data,omitempty"`
	UserProperties any `json:"user_properties,omitempty"`
	User           any `json:"user,omitempty"`

	ConsentState *ConsentState `json:"consent_state,omitempty"`
	GCS          string        `json:"x-ga-gcs,omitempty"`
}

// EventItem is one line item of an e-commerce event.
type EventItem struct {
	ItemID       any    `json:"item_id,omitempty"`
	ID           any    `json:"id,omitempty"`
	ItemQuantity any    `json:"item_quantity,omitempty"`
	Quantity     any    `json:"quantity,omitempty"`
	ItemPrice    any    `json:"item_price,omitempty"`
	Price        any    `json:"price,omitempty"`
	Currency     string `json:"currency,omitempty"`
}

// ConsentState is the structured consent object attached by the tagging server.
type ConsentState struct {
	AdStorage any `json:"ad_storage,omitempty"`
}

// RequestMeta carries the per-request values that come from transport headers
// rather than from the event body.
type RequestMeta struct {
	TraceID string
	Referer string
	// Proxy routing values, only used by the stape auth flow.
	ContainerIdentifier string
	DefaultDomain       string
	ContainerAPIKey     string
	Debug               bool
}

// Invocation is one unit of work for the ConversionService.
type Invocation struct {
	Meta      RequestMeta
	Event     EventRecord
	Overrides []byte
}
