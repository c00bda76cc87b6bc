package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/go-clickhouse/ch"
	"go.uber.org/zap"

	"kucukaslan/gadsconversion/config"
	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/logger"
)

var clickHouseDB *ch.DB

// InitClickHouse connects to ClickHouse and creates the log table
func InitClickHouse(cfg *config.ClickHouseConfig) error {
	// native protocol, no TLS
	db := ch.Connect(
		ch.WithDSN(cfg.GetClickHouseDSN()),
		ch.WithInsecure(true),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := InitLogTable(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize gads_logs table: %w", err)
	}

	clickHouseDB = db
	logger.Info("ClickHouse connection established", zap.String("database", cfg.Database))
	return nil
}

// CloseClickHouse closes the ClickHouse database connection
func CloseClickHouse() error {
	if clickHouseDB != nil {
		if err := clickHouseDB.Close(); err != nil {
			return fmt.Errorf("failed to close ClickHouse connection: %w", err)
		}
		logger.Info("ClickHouse connection closed")
	}
	return nil
}

// InitLogTable creates the gads_logs table if it doesn't exist
func InitLogTable(ctx context.Context, db *ch.DB) error {
	_, err := db.NewCreateTable().
		Model((*GadsLog)(nil)).
		Engine("MergeTree").
		Order("timestamp, event_name, type").
		IfNotExists().
		Exec(ctx)

	return err
}

// ClickHouseHealthCheck verifies that the ClickHouse connection is alive
func ClickHouseHealthCheck(ctx context.Context) error {
	if clickHouseDB == nil {
		return fmt.Errorf("ClickHouse connection is not initialized")
	}
	return clickHouseDB.Ping(ctx)
}

// ClickHouseEnabled reports whether InitClickHouse has succeeded
func ClickHouseEnabled() bool {
	return clickHouseDB != nil
}

// GetClickHouseDB returns the ClickHouse database instance
func GetClickHouseDB() ClickHouseDB {
	return ClickHouseDB{clickHouseDB}
}

type ClickHouseDB struct {
	*ch.DB
}

// GadsLog is the gads_logs table
type GadsLog struct {
	ch.CHModel         `ch:"table:gads_logs,partition:toYYYYMMDD(timestamp)"`
	TagName            string    `ch:"tag_name,lc"`
	Type               string    `ch:"type,lc"`
	TraceID            string    `ch:"trace_id"`
	EventName          string    `ch:"event_name,lc"`
	Message            string    `ch:"message"`
	Reason             string    `ch:"reason"`
	RequestMethod      string    `ch:"request_method,lc"`
	RequestURL         string    `ch:"request_url"`
	RequestBody        string    `ch:"request_body,type:String"`
	ResponseStatusCode int64     `ch:"response_status_code"`
	ResponseHeaders    string    `ch:"response_headers,type:String"`
	ResponseBody       string    `ch:"response_body,type:String"`
	Timestamp          time.Time `ch:"timestamp,type:DateTime64(3)"`
}

// GadsLogColumnar is gads_logs in columnar form for batch inserts
type GadsLogColumnar struct {
	ch.CHModel         `ch:"table:gads_logs,partition:toYYYYMMDD(timestamp),columnar"`
	TagName            []string    `ch:"tag_name,lc"`
	Type               []string    `ch:"type,lc"`
	TraceID            []string    `ch:"trace_id"`
	EventName          []string    `ch:"event_name,lc"`
	Message            []string    `ch:"message"`
	Reason             []string    `ch:"reason"`
	RequestMethod      []string    `ch:"request_method,lc"`
	RequestURL         []string    `ch:"request_url"`
	RequestBody        []string    `ch:"request_body,type:String"`
	ResponseStatusCode []int64     `ch:"response_status_code"`
	ResponseHeaders    []string    `ch:"response_headers,type:String"`
	ResponseBody       []string    `ch:"response_body,type:String"`
	Timestamp          []time.Time `ch:"timestamp,type:DateTime64(3)"`
}

// NewGadsLogColumnar turns rows into one columnar insert model
func NewGadsLogColumnar(rows []LogRow) *GadsLogColumnar {
	n := len(rows)
	m := &GadsLogColumnar{
		TagName:            make([]string, 0, n),
		Type:               make([]string, 0, n),
		TraceID:            make([]string, 0, n),
		EventName:          make([]string, 0, n),
		Message:            make([]string, 0, n),
		Reason:             make([]string, 0, n),
		RequestMethod:      make([]string, 0, n),
		RequestURL:         make([]string, 0, n),
		RequestBody:        make([]string, 0, n),
		ResponseStatusCode: make([]int64, 0, n),
		ResponseHeaders:    make([]string, 0, n),
		ResponseBody:       make([]string, 0, n),
		Timestamp:          make([]time.Time, 0, n),
	}
	for _, r := range rows {
		m.TagName = append(m.TagName, r.TagName)
		m.Type = append(m.Type, r.Type)
		m.TraceID = append(m.TraceID, r.TraceID)
		m.EventName = append(m.EventName, r.EventName)
		m.Message = append(m.Message, r.Message)
		m.Reason = append(m.Reason, r.Reason)
		m.RequestMethod = append(m.RequestMethod, r.RequestMethod)
		m.RequestURL = append(m.RequestURL, r.RequestURL)
		m.RequestBody = append(m.RequestBody, r.RequestBody)
		m.ResponseStatusCode = append(m.ResponseStatusCode, r.ResponseStatusCode)
		m.ResponseHeaders = append(m.ResponseHeaders, r.ResponseHeaders)
		m.ResponseBody = append(m.ResponseBody, r.ResponseBody)
		m.Timestamp = append(m.Timestamp, time.UnixMilli(r.Timestamp).UTC())
	}
	return m
}

// SaveLogRows writes rows with a single columnar insert
func (c ClickHouseDB) SaveLogRows(ctx context.Context, rows []LogRow) error {
	if c.DB == nil {
		return fmt.Errorf("database connection is nil")
	}
	if len(rows) == 0 {
		return nil
	}

	_, err := c.DB.NewInsert().
		Model(NewGadsLogColumnar(rows)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to columnar insert log rows: %w", err)
	}
	return nil
}

type LogMetricRow struct {
	Bucket       string `ch:"bucket"`
	TotalLogs    uint64 `ch:"total_logs"`
	UniqueTraces uint64 `ch:"unique_traces"`
}

// metricGroups maps the accepted group_by values to their SQL expressions.
var metricGroups = map[string]string{
	"hour":                 "toString(toStartOfHour(timestamp))",
	"day":                  "toString(toStartOfDay(timestamp))",
	"week":                 "toString(toStartOfWeek(timestamp))",
	"month":                "toString(toStartOfMonth(timestamp))",
	"year":                 "toString(toStartOfYear(timestamp))",
	"event_name":           "event_name",
	"type":                 "type",
	"response_status_code": "toString(response_status_code)",
}

// IsMetricGroup reports whether group is an accepted group_by value
func IsMetricGroup(group string) bool {
	_, ok := metricGroups[group]
	return ok
}

// GetLogMetrics aggregates gads_logs, optionally grouped and filtered
func (c ClickHouseDB) GetLogMetrics(ctx context.Context, request domain.MetricRequest) ([]LogMetricRow, error) {
	if c.DB == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var groupExpr string
	if request.GroupBy != nil {
		// allowlisted, never interpolated from input
		groupExpr = metricGroups[*request.GroupBy]
	}

	query := c.NewSelect().TableExpr("gads_logs")

	if groupExpr != "" {
		query = query.ColumnExpr("? AS bucket", ch.Safe(groupExpr))
	} else {
		query = query.ColumnExpr("'total' AS bucket")
	}
	query = query.
		ColumnExpr("count() AS total_logs").
		ColumnExpr("uniqExact(trace_id) AS unique_traces")

	if request.EventName != nil && *request.EventName != "" {
		query = query.Where("event_name = ?", *request.EventName)
	}
	if request.From != nil {
		query = query.Where("timestamp >= ?", time.Unix(*request.From, 0))
	}
	if request.To != nil {
		query = query.Where("timestamp <= ?", time.Unix(*request.To, 0))
	}
	if groupExpr != "" {
		query = query.GroupExpr(groupExpr).OrderExpr("bucket ASC")
	}

	var results []LogMetricRow
	if err := query.Scan(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
