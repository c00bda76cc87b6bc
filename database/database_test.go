package database

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kucukaslan/gadsconversion/domain"
)

func TestNewGadsLogColumnar(t *testing.T) {
	rows := []LogRow{
		{TagName: "GAdsConversionImprover", Type: "Request", TraceID: "t1", EventName: "Adjustment 1", RequestMethod: "POST", RequestBody: `{"a":1}`, Timestamp: 1700000000123},
		{TagName: "GAdsConversionImprover", Type: "Response", TraceID: "t1", EventName: "Adjustment 1", ResponseStatusCode: 200, ResponseBody: "{}", Timestamp: 1700000000456},
	}

	m := NewGadsLogColumnar(rows)

	assert.Equal(t, []string{"Request", "Response"}, m.Type)
	assert.Equal(t, []string{"t1", "t1"}, m.TraceID)
	assert.Equal(t, []int64{0, 200}, m.ResponseStatusCode)
	assert.Equal(t, []string{`{"a":1}`, ""}, m.RequestBody)
	require.Len(t, m.Timestamp, 2)
	assert.Equal(t, time.UnixMilli(1700000000123).UTC(), m.Timestamp[0])
	assert.Len(t, m.ResponseHeaders, 2)
}

func TestIsMetricGroup(t *testing.T) {
	for _, g := range []string{"hour", "day", "week", "month", "year", "event_name", "type", "response_status_code"} {
		assert.True(t, IsMetricGroup(g), g)
	}
	assert.False(t, IsMetricGroup("trace_id; DROP TABLE gads_logs"))
	assert.False(t, IsMetricGroup(""))
}

func TestSaveLogRowsWithoutConnection(t *testing.T) {
	err := ClickHouseDB{}.SaveLogRows(context.Background(), []LogRow{{}})
	assert.Error(t, err)

	_, err = ClickHouseDB{}.GetLogMetrics(context.Background(), domainMetricRequest())
	assert.Error(t, err)
}

func TestReplayStoreExpiration(t *testing.T) {
	assert.Equal(t, time.Duration(0), ReplayStore{expirationMilliseconds: 0}.getExpirationDuration())
	assert.Equal(t, 2*time.Second, ReplayStore{expirationMilliseconds: 2000}.getExpirationDuration())
}

func TestReplayStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := NewReplayStore(client, 1000)

	processed, err := store.IsProcessed(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, processed)
	assert.Error(t, store.MarkProcessed(context.Background(), "k"))
}

func TestHealthChecksWithoutInit(t *testing.T) {
	assert.False(t, ClickHouseEnabled())
	assert.False(t, RedisEnabled())
	assert.Error(t, ClickHouseHealthCheck(context.Background()))
	assert.Error(t, RedisHealthCheck(context.Background()))
}

func domainMetricRequest() domain.MetricRequest {
	group := "type"
	return domain.MetricRequest{GroupBy: &group}
}
