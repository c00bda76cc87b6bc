package mapping

import (
	"time"

	"kucukaslan/gadsconversion/domain"
	"kucukaslan/gadsconversion/normalize"
)

// BuildAdjustment builds the uploadConversionAdjustments body for event.
//
// A resolvable value and currency make a RESTATEMENT, which never carries user
// identifiers. Otherwise at least one identifier makes an ENHANCEMENT. The request is
// always a dry run.
func BuildAdjustment(cfg domain.Configuration, event domain.EventRecord, now time.Time) (*domain.AdjustmentRequest, error) {
	if cfg.OperatingCustomerID == "" {
		return nil, ErrMissingCustomerID
	}
	if cfg.ConversionActionSource == "" {
		return nil, ErrMissingConversionAction
	}

	orderID, ok := normalize.ResolveOrderID(cfg.Mapping.OrderID, event)
	if !ok {
		return nil, ErrMissingOrderID
	}

	adjustment := domain.ConversionAdjustment{
		ConversionAction:   ConversionActionResource(cfg.OperatingCustomerID, cfg.ConversionActionSource),
		OrderID:            orderID,
		AdjustmentDateTime: normalize.ConversionDateTime(nil, now),
	}

	value, hasValue := normalize.ResolveValue(cfg.Mapping.ConversionValue, event, 0)
	currency, hasCurrency := normalize.ResolveCurrency(cfg.Mapping.CurrencyCode, event, "")

	switch {
	case hasValue && hasCurrency:
		adjustment.AdjustmentType = domain.AdjustmentTypeRestatement
		adjustment.RestatementValue = &domain.RestatementValue{
			AdjustedValue: value,
			CurrencyCode:  currency,
		}
	default:
		ids := UserIdentifiers(cfg, event)
		if len(ids) == 0 {
			return nil, ErrNoAdjustmentType
		}
		adjustment.AdjustmentType = domain.AdjustmentTypeEnhancement
		adjustment.UserIdentifiers = ids
	}

	return &domain.AdjustmentRequest{
		ConversionAdjustments: []domain.ConversionAdjustment{adjustment},
		PartialFailure:        true,
		ValidateOnly:          true,
	}, nil
}
