package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kucukaslan/gadsconversion/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "stape", cfg.GoogleAds.AuthFlow)
	assert.Equal(t, "https://googleads.googleapis.com", cfg.GoogleAds.APIBaseURL)
	assert.False(t, cfg.GoogleAds.ValidateOnly)
	assert.Equal(t, StorageBackendClickHouse, cfg.Logging.StorageBackend)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GADS_OPERATING_CUSTOMER_ID", "1234567890")
	t.Setenv("GADS_AUTH_FLOW", "OWN")
	t.Setenv("GADS_VALIDATE_ONLY", "true")
	t.Setenv("GADS_REQUESTS_PER_SECOND", "2.5")
	t.Setenv("LOG_CONSOLE_MODE", "always")
	t.Setenv("LOG_STORAGE_BACKEND", "BigQuery")
	t.Setenv("GADS_DEFAULT_MAPPING", `{"currencyCode":"EUR","customDataList":[{"conversionCustomVariable":"7","value":"x"}]}`)

	cfg := Load()
	assert.Equal(t, 2.5, cfg.GoogleAds.RequestsPerSecond)
	assert.Equal(t, StorageBackendBigQuery, cfg.Logging.StorageBackend)

	runtime, err := cfg.Configuration()
	require.NoError(t, err)
	assert.Equal(t, "1234567890", runtime.OperatingCustomerID)
	assert.Equal(t, domain.AuthFlowOwn, runtime.AuthFlow)
	assert.True(t, runtime.ValidateOnly)
	assert.Equal(t, domain.LogModeAlways, runtime.ConsoleLogMode)
	assert.Equal(t, domain.LogModeUnset, runtime.StorageLogMode)
	assert.Equal(t, "EUR", runtime.Mapping.CurrencyCode)
	require.Len(t, runtime.Mapping.CustomVariables, 1)
	assert.Equal(t, "7", runtime.Mapping.CustomVariables[0].ConversionCustomVariable)
}

func TestConfigurationRejectsBadValues(t *testing.T) {
	cfg := Load()

	cfg.GoogleAds.AuthFlow = "basic"
	_, err := cfg.Configuration()
	assert.Error(t, err)

	cfg.GoogleAds.AuthFlow = "stape"
	cfg.Logging.StorageLogMode = "sometimes"
	_, err = cfg.Configuration()
	assert.Error(t, err)

	cfg.Logging.StorageLogMode = ""
	cfg.GoogleAds.DefaultMapping = `[1,2]`
	_, err = cfg.Configuration()
	assert.Error(t, err)
}

func TestGetClickHouseDSN(t *testing.T) {
	cfg := ClickHouseConfig{Host: "ch", Port: "9000", Database: "logs", User: "u", Password: "p"}
	assert.Equal(t, "clickhouse://u:p@ch:9000/logs", cfg.GetClickHouseDSN())

	cfg.AsyncInsertEnabled = true
	cfg.AsyncInsertWait = 1
	cfg.AsyncInsertMaxDataSize = 100
	cfg.AsyncInsertBusyTimeout = 200
	assert.Equal(t,
		"clickhouse://u:p@ch:9000/logs?wait_for_async_insert=1&async_insert_max_data_size=100&async_insert_busy_timeout_ms=200",
		cfg.GetClickHouseDSN())

	cfg.DSN = "clickhouse://override"
	assert.Equal(t, "clickhouse://override", cfg.GetClickHouseDSN())
}

func TestGetRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "localhost", Port: "6380"}
	assert.Equal(t, "localhost:6380", r.GetRedisAddr())
	r.Endpoint = "redis.internal:6379"
	assert.Equal(t, "redis.internal:6379", r.GetRedisAddr())
}
