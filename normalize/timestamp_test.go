package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestampEpoch(t *testing.T) {
	assert.Equal(t, "1970-01-01 00:00:00+00:00", FormatTimestamp(0))
}

func TestFormatTimestampMatchesCalendar(t *testing.T) {
	cases := []time.Time{
		time.Date(1970, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(1972, 2, 29, 12, 0, 0, 0, time.UTC),
		time.Date(1972, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2000, 2, 29, 8, 30, 15, 0, time.UTC),
		time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 59, 999_000_000, time.UTC),
		time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	for _, tc := range cases {
		want := tc.Format("2006-01-02 15:04:05") + "+00:00"
		assert.Equal(t, want, FormatTimestamp(tc.UnixMilli()), tc.String())
	}
}

func TestFormatTimestampBeforeEpoch(t *testing.T) {
	ts := time.Date(1969, 12, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "1969-12-31 23:00:00+00:00", FormatTimestamp(ts.UnixMilli()))
}

func TestFormatTimestampCenturyLeapLimitation(t *testing.T) {
	// 2100 is not a Gregorian leap year; the four-year rule treats it as one.
	ts := time.Date(2100, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2100-02-29 00:00:00+00:00", FormatTimestamp(ts.UnixMilli()))
}

func TestConversionDateTime(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	assert.Equal(t, "2024-05-06 07:08:09+00:00", ConversionDateTime(nil, now))
	assert.Equal(t, "2024-05-06 07:08:09+00:00", ConversionDateTime("", now))

	// 10 digits are seconds
	assert.Equal(t, "2023-11-14 22:13:20+00:00", ConversionDateTime(1700000000.0, now))
	assert.Equal(t, "2023-11-14 22:13:20+00:00", ConversionDateTime("1700000000", now))

	// anything else numeric is milliseconds
	assert.Equal(t, "2023-11-14 22:13:20+00:00", ConversionDateTime("1700000000000", now))

	// preformatted input passes through
	assert.Equal(t, "2024-01-15 10:00:00+02:00", ConversionDateTime("2024-01-15 10:00:00+02:00", now))
}
