package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sha(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestHashIsIdempotent(t *testing.T) {
	for _, tc := range []struct {
		kind  string
		value any
	}{
		{KindEmail, "Someone@Example.com"},
		{KindPhone, "+1 (555) 123-4567"},
		{"thirdPartyUserId", 123456.0},
	} {
		once := Hash(tc.kind, tc.value)
		twice := Hash(tc.kind, once)
		assert.Equal(t, once, twice, tc.kind)
	}
}

func TestHashEmailNormalization(t *testing.T) {
	assert.Equal(t, Hash(KindEmail, "firstlast@gmail.com"), Hash(KindEmail, "First.Last@gmail.com"))
	assert.Equal(t, sha("firstlast@googlemail.com"), Hash(KindEmail, " first.last@GoogleMail.com "))
	// dots only matter for gmail
	assert.Equal(t, sha("first.last@example.com"), Hash(KindEmail, "First.Last@example.com"))
}

func TestHashPhoneNormalization(t *testing.T) {
	assert.Equal(t, Hash(KindPhone, "5551234567"), Hash(KindPhone, "(555) 123-4567"))
	assert.Equal(t, sha("+15551234567"), Hash(KindPhone, "+1 555-123-4567"))
}

func TestHashNumericValue(t *testing.T) {
	assert.Equal(t, sha("5551234567"), Hash(KindPhone, 5551234567.0))
}

func TestHashPassesThroughDigest(t *testing.T) {
	digest := sha("already")
	assert.Equal(t, digest, Hash(KindEmail, digest))
}

func TestHashAbsentValues(t *testing.T) {
	assert.Nil(t, Hash(KindEmail, nil))
	assert.Equal(t, "", Hash(KindEmail, ""))
	assert.Nil(t, Hash(KindEmail, "undefined"))
}

func TestHashSlices(t *testing.T) {
	out := Hash(KindEmail, []any{"a@b.com", "c@d.com"})
	require.IsType(t, []any{}, out)
	assert.Equal(t, []any{sha("a@b.com"), sha("c@d.com")}, out)
}

func TestHashAddressInfoKeepsPlainFields(t *testing.T) {
	address := map[string]any{
		"hashedFirstName":     "Jane",
		"hashedLastName":      "Doe",
		"hashedStreetAddress": "1 Main St",
		"city":                "Springfield",
		"state":               "IL",
		"countryCode":         "US",
		"postalCode":          "62701",
	}

	out, ok := Hash(KindAddress, address).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "Springfield", out["city"])
	assert.Equal(t, "IL", out["state"])
	assert.Equal(t, "US", out["countryCode"])
	assert.Equal(t, "62701", out["postalCode"])
	assert.Equal(t, sha("jane"), out["hashedFirstName"])
	assert.Equal(t, sha("doe"), out["hashedLastName"])
	assert.Equal(t, sha("1 main st"), out["hashedStreetAddress"])
}

func TestHashNestedMapOutsideAddressHashesEverything(t *testing.T) {
	out, ok := Hash(KindEmail, map[string]any{"city": "Springfield"}).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, sha("springfield"), out["city"])
}
