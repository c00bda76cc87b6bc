package normalize

import (
	"fmt"
	"time"
)

const (
	msPerSecond    int64 = 1000
	msPerMinute          = 60 * msPerSecond
	msPerHour            = 60 * msPerMinute
	msPerDay             = 24 * msPerHour
	msPerFourYears       = (365*4 + 1) * msPerDay
)

// ConversionDateTime turns an optional timestamp into the Ads API date-time format.
// No input means now. Numeric input with exactly 10 digits is read as epoch seconds,
// any other numeric input as epoch milliseconds. Anything else is assumed to be
// formatted already and returned unchanged.
func ConversionDateTime(input any, now time.Time) string {
	if !IsPresent(input) {
		return FormatTimestamp(now.UnixMilli())
	}
	ms, ok := MakeInteger(input)
	if !ok || ms == 0 {
		return MakeString(input)
	}
	if len(MakeString(input)) == 10 {
		ms *= msPerSecond
	}
	return FormatTimestamp(ms)
}

// FormatTimestamp renders epoch milliseconds as "YYYY-MM-DD HH:MM:SS+00:00" by plain
// calendar arithmetic. Every year divisible by 4 is a leap year, so dates after
// 2100-02-28 are one day late.
func FormatTimestamp(ms int64) string {
	year := 1970 + floorDiv(ms, msPerFourYears)*4
	rem := floorMod(ms, msPerFourYears)

	for {
		yearMs := daysInYear(year) * msPerDay
		if rem < yearMs {
			break
		}
		rem -= yearMs
		year++
	}

	day := rem / msPerDay
	rem %= msPerDay

	months := monthLengths(year)
	month := 0
	for month < len(months)-1 && day >= months[month] {
		day -= months[month]
		month++
	}

	hours := rem / msPerHour
	rem %= msPerHour
	minutes := rem / msPerMinute
	rem %= msPerMinute
	seconds := rem / msPerSecond

	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d+00:00",
		year, month+1, day+1, hours, minutes, seconds)
}

func isLeapYear(year int64) bool {
	return year%4 == 0
}

func daysInYear(year int64) int64 {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func monthLengths(year int64) [12]int64 {
	february := int64(28)
	if isLeapYear(year) {
		february = 29
	}
	return [12]int64{31, february, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
