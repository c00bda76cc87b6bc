package normalize

import (
	"encoding/json"
	"testing"

	"kucukaslan/gadsconversion/domain"

	"github.com/stretchr/testify/assert"
)

func TestIsPresent(t *testing.T) {
	assert.False(t, IsPresent(nil))
	assert.False(t, IsPresent(""))
	assert.False(t, IsPresent("undefined"))
	assert.False(t, IsPresent(0.0))
	assert.False(t, IsPresent(false))
	assert.False(t, IsPresent(json.Number("0")))
	assert.True(t, IsPresent("0"))
	assert.True(t, IsPresent(12.5))
	assert.True(t, IsPresent([]any{}))
	assert.True(t, IsPresent(map[string]any{}))
}

func TestMakeString(t *testing.T) {
	assert.Equal(t, "5551234567", MakeString(5551234567.0))
	assert.Equal(t, "12.5", MakeString(12.5))
	assert.Equal(t, "abc", MakeString("abc"))
	assert.Equal(t, "", MakeString(nil))
	assert.Equal(t, "true", MakeString(true))
}

func TestMakeNumber(t *testing.T) {
	n, ok := MakeNumber(" 42.10 ")
	assert.True(t, ok)
	assert.Equal(t, 42.1, n)

	_, ok = MakeNumber("forty")
	assert.False(t, ok)

	_, ok = MakeNumber("")
	assert.False(t, ok)

	n, ok = MakeNumber(int64(7))
	assert.True(t, ok)
	assert.Equal(t, 7.0, n)
}

func TestMakeInteger(t *testing.T) {
	n, ok := MakeInteger("2.9")
	assert.True(t, ok)
	assert.Equal(t, int64(2), n)

	n, ok = MakeInteger(-3.7)
	assert.True(t, ok)
	assert.Equal(t, int64(-3), n)
}

func TestResolveValuePriority(t *testing.T) {
	event := domain.EventRecord{
		Value:           "10",
		ConversionValue: 20.0,
		MPEventValue:    30.0,
	}

	v, ok := ResolveValue(99.0, event, 0)
	assert.True(t, ok)
	assert.Equal(t, 99.0, v)

	v, ok = ResolveValue(nil, event, 0)
	assert.True(t, ok)
	assert.Equal(t, 10.0, v)

	event.Value = nil
	v, ok = ResolveValue(nil, event, 0)
	assert.True(t, ok)
	assert.Equal(t, 20.0, v)

	v, ok = ResolveValue(nil, domain.EventRecord{MPRevenue: "5.5"}, 0)
	assert.True(t, ok)
	assert.Equal(t, 5.5, v)
}

func TestResolveValueFallbackAndFailure(t *testing.T) {
	v, ok := ResolveValue(nil, domain.EventRecord{}, 12.0)
	assert.True(t, ok)
	assert.Equal(t, 12.0, v)

	_, ok = ResolveValue(nil, domain.EventRecord{}, 0)
	assert.False(t, ok)

	// the first present candidate decides even when it is not numeric
	_, ok = ResolveValue(nil, domain.EventRecord{Value: "n/a", ConversionValue: 3.0}, 0)
	assert.False(t, ok)
}

func TestResolveCurrency(t *testing.T) {
	c, ok := ResolveCurrency("", domain.EventRecord{Currency: "EUR"}, "USD")
	assert.True(t, ok)
	assert.Equal(t, "EUR", c)

	c, ok = ResolveCurrency("GBP", domain.EventRecord{CurrencyCode: "EUR"}, "")
	assert.True(t, ok)
	assert.Equal(t, "GBP", c)

	c, ok = ResolveCurrency("", domain.EventRecord{}, "TRY")
	assert.True(t, ok)
	assert.Equal(t, "TRY", c)

	_, ok = ResolveCurrency("", domain.EventRecord{}, "")
	assert.False(t, ok)
}

func TestResolveOrderID(t *testing.T) {
	id, ok := ResolveOrderID(nil, domain.EventRecord{OrderIDAlias: "o-2", TransactionID: "t-3"})
	assert.True(t, ok)
	assert.Equal(t, "o-2", id)

	id, ok = ResolveOrderID(nil, domain.EventRecord{TransactionID: 123456.0})
	assert.True(t, ok)
	assert.Equal(t, "123456", id)

	id, ok = ResolveOrderID("override", domain.EventRecord{OrderID: "o-1"})
	assert.True(t, ok)
	assert.Equal(t, "override", id)

	_, ok = ResolveOrderID(nil, domain.EventRecord{})
	assert.False(t, ok)
}
