// Package hashing canonicalizes and SHA-256 hashes user identifiers the way the
// Google Ads API expects them.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"

	"kucukaslan/gadsconversion/normalize"
)

// Identifier kinds with kind-specific canonicalization.
const (
	KindEmail   = "hashedEmail"
	KindPhone   = "hashedPhoneNumber"
	KindAddress = "addressInfo"
)

var sha256Hex = regexp.MustCompile(`^[A-Fa-f0-9]{64}$`)

// addressInfo sub-fields the API wants in clear text.
var plainAddressFields = map[string]bool{
	"city":        true,
	"state":       true,
	"countryCode": true,
	"postalCode":  true,
}

var phoneNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// IsHashed reports whether s already looks like a hex SHA-256 digest.
func IsHashed(s string) bool {
	return sha256Hex.MatchString(s)
}

// Hash hashes value for the given identifier kind. Absent values are returned as they
// are and the literal "undefined" becomes nil. Slices and maps are hashed element-wise;
// address sub-fields listed in plainAddressFields stay unhashed under KindAddress.
// Values that are already digests pass through, so Hash is idempotent.
func Hash(kind string, value any) any {
	if s, ok := value.(string); ok && s == "undefined" {
		return nil
	}
	if !normalize.IsPresent(value) {
		return value
	}

	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Hash(kind, elem)
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, elem := range v {
			out[i] = Hash(kind, elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			if kind == KindAddress && plainAddressFields[key] {
				out[key] = elem
				continue
			}
			out[key] = Hash(kind, elem)
		}
		return out
	}

	s := normalize.MakeString(value)
	if IsHashed(s) {
		return value
	}
	return HashString(kind, s)
}

// HashString canonicalizes s for kind and returns its hex SHA-256 digest.
func HashString(kind, s string) string {
	sum := sha256.Sum256([]byte(Canonicalize(kind, s)))
	return hex.EncodeToString(sum[:])
}

// Canonicalize lowercases and trims s, strips phone punctuation, and removes dots from
// the local part of gmail.com/googlemail.com addresses.
func Canonicalize(kind, s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	switch kind {
	case KindPhone:
		s = phoneNoise.Replace(s)
	case KindEmail:
		parts := strings.Split(s, "@")
		if len(parts) > 1 && (parts[1] == "gmail.com" || parts[1] == "googlemail.com") {
			s = strings.ReplaceAll(parts[0], ".", "") + "@" + parts[1]
		}
	}
	return s
}
