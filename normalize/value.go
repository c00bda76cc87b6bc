// Package normalize coerces loosely typed event values and resolves the logical
// conversion fields (value, currency, order id) from their alias chains.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"kucukaslan/gadsconversion/domain"
)

// IsPresent reports whether v counts as set: nil, "", "undefined", false, 0 and NaN do not.
func IsPresent(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != "" && t != "undefined"
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	default:
		return true
	}
}

// FirstPresent returns the first value that IsPresent, or nil.
func FirstPresent(values ...any) any {
	for _, v := range values {
		if IsPresent(v) {
			return v
		}
	}
	return nil
}

// FirstNonEmpty returns the first non-empty string.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// MakeString renders v the way the tagging runtime stringifies values:
// integral floats lose their fraction, nil becomes "".
func MakeString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// MakeNumber coerces v to a finite float64. ok is false when v has no numeric reading.
func MakeNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MakeInteger coerces v to an integer, truncating toward zero.
func MakeInteger(v any) (int64, bool) {
	f, ok := MakeNumber(v)
	if !ok {
		return 0, false
	}
	return int64(math.Trunc(f)), true
}

// ResolveValue resolves the conversion value: override, then the event's value,
// conversionValue, x-ga-mp1-ev and x-ga-mp1-tr, then fallback. The first present
// candidate decides; if it is not numeric the value is unresolved.
// Adjustments use this order too, although the legacy tag checked conversionValue
// before value on the adjustment path; one chain keeps both builders consistent.
func ResolveValue(override any, event domain.EventRecord, fallback float64) (float64, bool) {
	candidate := FirstPresent(
		override,
		event.Value,
		event.ConversionValue,
		event.MPEventValue,
		event.MPRevenue,
		fallback,
	)
	if candidate == nil {
		return 0, false
	}
	return MakeNumber(candidate)
}

// ResolveCurrency resolves the currency code: override, currencyCode, currency, fallback.
func ResolveCurrency(override string, event domain.EventRecord, fallback string) (string, bool) {
	currency := FirstNonEmpty(override, event.CurrencyCode, event.Currency, fallback)
	return currency, currency != ""
}

// ResolveOrderID resolves the order id: override, orderId, order_id, transaction_id.
func ResolveOrderID(override any, event domain.EventRecord) (string, bool) {
	candidate := FirstPresent(override, event.OrderID, event.OrderIDAlias, event.TransactionID)
	if candidate == nil {
		return "", false
	}
	id := MakeString(candidate)
	return id, id != ""
}
