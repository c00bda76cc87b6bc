// Package mapping builds Google Ads upload request bodies from inbound events.
// Builders are pure: they read the configuration and event and return a new request.
package mapping

import (
	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/hashing"
	"kucukaslan/gadsconversion/normalize"
)

// SourceUnspecified labels identifiers taken from the event itself.
const SourceUnspecified = "UNSPECIFIED"

// UserIdentifiers collects hashed user identifiers. Operator-configured entries come
// first and claim their kind; the event's email, phone and address fill the kinds
// that are still free.
func UserIdentifiers(cfg domain.Configuration, event domain.EventRecord) []domain.UserIdentifier {
	var ids []domain.UserIdentifier
	used := make(map[string]bool)

	for _, entry := range cfg.Mapping.UserDataList {
		if entry.Name == "" || entry.Value == nil || entry.Value == "" {
			continue
		}
		hashed := hashing.Hash(entry.Name, entry.Value)
		if hashed == nil {
			continue
		}
		ids = append(ids, domain.UserIdentifier{
			Kind:   entry.Name,
			Value:  hashed,
			Source: entry.UserIdentifierSource,
		})
		used[entry.Name] = true
	}

	user := userObject(event)

	email := normalize.FirstPresent(
		event.HashedEmail,
		event.Email,
		event.EmailAddress,
		user["email"],
		user["email_address"],
	)
	phone := normalize.FirstPresent(
		event.Phone,
		event.PhoneNumber,
		user["phone"],
		user["phone_number"],
	)

	for _, candidate := range []struct {
		kind  string
		value any
	}{
		{hashing.KindEmail, email},
		{hashing.KindPhone, phone},
		{hashing.KindAddress, normalize.FirstPresent(event.AddressInfo)},
	} {
		if used[candidate.kind] || candidate.value == nil {
			continue
		}
		hashed := hashing.Hash(candidate.kind, candidate.value)
		if hashed == nil {
			continue
		}
		ids = append(ids, domain.UserIdentifier{
			Kind:   candidate.kind,
			Value:  hashed,
			Source: SourceUnspecified,
		})
	}

	return ids
}

// userObject returns the first of user_data, user_properties and user that is a JSON object.
func userObject(event domain.EventRecord) map[string]any {
	for _, v := range []any{event.UserData, event.UserProperties, event.User} {
		if m, ok := v.(map[string]any); ok {
			return m
		}
	}
	return nil
}

func withoutKind(ids []domain.UserIdentifier, kind string) []domain.UserIdentifier {
	out := ids[:0:0]
	for _, id := range ids {
		if id.Kind != kind {
			out = append(out, id)
		}
	}
	return out
}

// ConversionActionResource is the resource name of a conversion action.
func ConversionActionResource(customerID, actionID string) string {
	return "customers/" + customerID + "/conversionActions/" + actionID
}

// CustomVariableResource is the resource name of a conversion custom variable.
func CustomVariableResource(customerID, variableID string) string {
	return "customers/" + customerID + "/conversionCustomVariables/" + variableID
}
