package domain

import "encoding/json"

// EventRequest is the ingest payload: the event as the tagging server saw it plus
// optional per-event mapping overrides.
type EventRequest struct {
	EventData json.RawMessage `json:"event_data" swaggertype:"object"`
	Overrides json.RawMessage `json:"overrides,omitempty" swaggertype:"object"`
}

// BulkEventRequest represents a batch of independent events
type BulkEventRequest struct {
	Events []EventRequest `json:"events"`
}

// MetricRequest represents a query for aggregated upload log metrics
type MetricRequest struct {
	EventName *string `json:"event_name" example:"Adjustment 123456"`
	From      *int64  `json:"from" example:"1732147200"`
	To        *int64  `json:"to" example:"1732233600"`
	GroupBy   *string `json:"group_by" example:"type"`
}
