package domain

// LogEventType classifies a LogEvent.
type LogEventType string

const (
	LogEventMessage  LogEventType = "Message"
	LogEventRequest  LogEventType = "Request"
	LogEventResponse LogEventType = "Response"
)

// LogTagName is the Name every LogEvent of this service carries.
const LogTagName = "GAdsConversionImprover"

// LogEvent is a structured record fanned out to the configured log sinks.
// The JSON keys are the console representation; storage sinks remap them.
type LogEvent struct {
	Name               string            `json:"Name"`
	Type               LogEventType      `json:"Type"`
	TraceID            string            `json:"TraceId"`
	EventName          string            `json:"EventName"`
	Message            string            `json:"Message,omitempty"`
	Reason             string            `json:"Reason,omitempty"`
	RequestMethod      string            `json:"RequestMethod,omitempty"`
	RequestURL         string            `json:"RequestUrl,omitempty"`
	RequestBody        any               `json:"RequestBody,omitempty"`
	ResponseStatusCode int               `json:"ResponseStatusCode,omitempty"`
	ResponseHeaders    map[string]string `json:"ResponseHeaders,omitempty"`
	ResponseBody       string            `json:"ResponseBody,omitempty"`
}
