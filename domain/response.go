package domain

import (
	"kucukaslan/gadsconversion/buildinfo"
	"time"
)

// HealthResponse represents the health status of the service
type HealthResponse struct {
	Status    string              `json:"status" example:"healthy"`
	Timestamp time.Time           `json:"timestamp" example:"2025-11-22T10:00:00Z"`
	BuildInfo buildinfo.Info      `json:"buildInfo"`
	Services  ServiceHealthStatus `json:"services"`
}

// ServiceHealthStatus represents the health status of dependent services.
// Disabled dependencies report status "disabled".
type ServiceHealthStatus struct {
	ClickHouse ServiceStatus `json:"clickhouse"`
	Redis      ServiceStatus `json:"redis"`
	RabbitMQ   ServiceStatus `json:"rabbitmq"`
}

// ServiceStatus represents the status of a single service
type ServiceStatus struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message,omitempty" example:""`
}

// EventResponse is the binary outcome of one conversion chain
type EventResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Conversion processed"`
	TraceID string `json:"trace_id,omitempty" example:"5f0c2a4e-8d1b-4c59-9d7e-2f7a1c3b9e10"`
}

// MetricResponse represents aggregated upload log metrics
type MetricResponse struct {
	Success bool           `json:"success" example:"true"`
	Message string         `json:"message" example:"Metrics retrieved successfully"`
	Metrics []MetricResult `json:"metrics"`
}

type MetricResult struct {
	// The "Bucket" holds the group name (e.g., "2024-08-25 10:00:00" or "Response")
	Bucket       string `json:"bucket"`
	TotalLogs    uint64 `json:"total_logs"`
	UniqueTraces uint64 `json:"unique_traces"`
}

// BulkEventResponse represents the response after processing bulk events
type BulkEventResponse struct {
	Success      bool   `json:"success" example:"true"`
	Message      string `json:"message" example:"Bulk events processed"`
	TotalCount   int    `json:"total_count" example:"100"`
	SuccessCount int    `json:"success_count" example:"100"`
	FailureCount int    `json:"failure_count" example:"0"`
}
