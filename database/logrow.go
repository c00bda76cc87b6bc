package database

import "context"

// LogRow is one upload log entry in the analytical store. Object-valued fields of
// the originating LogEvent arrive here already serialized to JSON text.
type LogRow struct {
	TagName            string `bigquery:"tag_name" json:"tag_name"`
	Type               string `bigquery:"type" json:"type"`
	TraceID            string `bigquery:"trace_id" json:"trace_id"`
	EventName          string `bigquery:"event_name" json:"event_name"`
	Message            string `bigquery:"message" json:"message,omitempty"`
	Reason             string `bigquery:"reason" json:"reason,omitempty"`
	RequestMethod      string `bigquery:"request_method" json:"request_method,omitempty"`
	RequestURL         string `bigquery:"request_url" json:"request_url,omitempty"`
	RequestBody        string `bigquery:"request_body" json:"request_body,omitempty"`
	ResponseStatusCode int64  `bigquery:"response_status_code" json:"response_status_code,omitempty"`
	ResponseHeaders    string `bigquery:"response_headers" json:"response_headers,omitempty"`
	ResponseBody       string `bigquery:"response_body" json:"response_body,omitempty"`
	Timestamp          int64  `bigquery:"timestamp" json:"timestamp"` // unix milliseconds
}

// LogRowWriter persists log rows. Implementations may buffer.
type LogRowWriter interface {
	WriteLogRow(ctx context.Context, row LogRow) error
}
