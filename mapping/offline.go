package mapping

import (
	"time"

	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/hashing"
	"kucukaslan/gadsconversion/normalize"
)

// BuildOfflineConversion builds the uploadClickConversions body for event.
func BuildOfflineConversion(cfg domain.Configuration, event domain.EventRecord, now time.Time) (*domain.OfflineConversionRequest, error) {
	if cfg.OperatingCustomerID == "" {
		return nil, ErrMissingCustomerID
	}
	if cfg.ConversionActionDestination == "" {
		return nil, ErrMissingConversionAction
	}

	m := cfg.Mapping
	conversion := domain.ClickConversion{
		ConversionEnvironment: domain.ConversionEnvironmentWeb,
		ConversionAction:      ConversionActionResource(cfg.OperatingCustomerID, cfg.ConversionActionDestination),
		CustomVariables:       customVariables(cfg),
	}

	// gclid > gbraid > wbraid, each one override first
	switch gclid, gbraid, wbraid := normalize.FirstNonEmpty(m.Gclid, event.Gclid),
		normalize.FirstNonEmpty(m.Gbraid, event.Gbraid),
		normalize.FirstNonEmpty(m.Wbraid, event.Wbraid); {
	case gclid != "":
		conversion.Gclid = gclid
	case gbraid != "":
		conversion.Gbraid = gbraid
	case wbraid != "":
		conversion.Wbraid = wbraid
	}

	conversion.ConversionDateTime = normalize.ConversionDateTime(
		normalize.FirstPresent(m.ConversionDateTime, event.ConversionDateTime), now)

	cart, itemsTotal, itemsCurrency := buildCart(m, event)
	conversion.CartData = cart

	if orderID, ok := normalize.ResolveOrderID(m.OrderID, event); ok {
		conversion.OrderID = orderID
	}

	value, hasValue := normalize.ResolveValue(m.ConversionValue, event, itemsTotal)
	currency, hasCurrency := normalize.ResolveCurrency(m.CurrencyCode, event, itemsCurrency)
	if hasValue && hasCurrency {
		conversion.ConversionValue = &value
		conversion.CurrencyCode = currency
	}

	if m.AdUserData != "" && m.AdPersonalization != "" {
		conversion.Consent = &domain.Consent{
			AdUserData:        m.AdUserData,
			AdPersonalization: m.AdPersonalization,
		}
	}

	// Click ids and identifiers are mutually exclusive on this endpoint, and it has no addressInfo.
	if !conversion.HasClickID() {
		ids := withoutKind(UserIdentifiers(cfg, event), hashing.KindAddress)
		if len(ids) > 0 {
			conversion.UserIdentifiers = ids
		}
	}

	return &domain.OfflineConversionRequest{
		Conversions:    []domain.ClickConversion{conversion},
		PartialFailure: true,
		ValidateOnly:   cfg.ValidateOnly,
	}, nil
}

func customVariables(cfg domain.Configuration) []domain.CustomVariableValue {
	var out []domain.CustomVariableValue
	for _, v := range cfg.Mapping.CustomVariables {
		if v.ConversionCustomVariable == "" {
			continue
		}
		out = append(out, domain.CustomVariableValue{
			ConversionCustomVariable: CustomVariableResource(cfg.OperatingCustomerID, v.ConversionCustomVariable),
			Value:                    v.Value,
		})
	}
	return out
}

// buildCart returns the cart block, or nil when there is nothing to put in it, along
// with the total and currency derived from event items. Explicit items suppress the
// derivation.
func buildCart(m domain.MappingOverrides, event domain.EventRecord) (*domain.CartData, float64, string) {
	var (
		total    float64
		currency string
	)

	items := m.Items
	if len(items) == 0 && len(event.Items) > 0 {
		currency = event.Items[0].Currency
		items = make([]domain.CartItem, 0, len(event.Items))
		for _, it := range event.Items {
			item, lineTotal := cartItem(it)
			total += lineTotal
			items = append(items, item)
		}
	}

	merchantID := normalize.FirstPresent(m.MerchantID, event.MerchantID)
	feedCountry := normalize.FirstNonEmpty(m.FeedCountryCode, event.FeedCountryCode)
	feedLanguage := normalize.FirstNonEmpty(m.FeedLanguageCode, event.FeedLanguageCode)
	cost := normalize.FirstPresent(m.LocalTransactionCost, event.LocalTransactionCost)

	if len(items) == 0 && merchantID == nil && feedCountry == "" && feedLanguage == "" && cost == nil {
		return nil, total, currency
	}

	cart := &domain.CartData{
		Items:            items,
		MerchantID:       merchantID,
		FeedCountryCode:  feedCountry,
		FeedLanguageCode: feedLanguage,
	}
	if n, ok := normalize.MakeNumber(cost); ok {
		cart.LocalTransactionCost = &n
	}
	return cart, total, currency
}

// cartItem maps one event line item and returns its contribution to the cart total:
// quantity times price, or the price alone without a quantity.
func cartItem(it domain.EventItem) (domain.CartItem, float64) {
	var item domain.CartItem

	if id := normalize.FirstPresent(it.ItemID, it.ID); id != nil {
		item.ProductID = normalize.MakeString(id)
	}
	if q := normalize.FirstPresent(it.ItemQuantity, it.Quantity); q != nil {
		if n, ok := normalize.MakeInteger(q); ok {
			item.Quantity = &n
		}
	}

	price := normalize.FirstPresent(it.ItemPrice, it.Price)
	if price == nil {
		return item, 0
	}
	unit, ok := normalize.MakeNumber(price)
	if !ok {
		return item, 0
	}
	item.UnitPrice = &unit

	if item.Quantity != nil && *item.Quantity != 0 {
		return item, float64(*item.Quantity) * unit
	}
	return item, unit
}
