package booking

import (
	"context"
	"errors"
	"time"

	catalogRepo "spabook/database/repository/catalog"
	"spabook/models"
)

// PricingCalculator derives a booking price from the service base price,
// requested duration, location surcharge and an optional promo code.
type PricingCalculator interface {
	Quote(ctx context.Context, svc *models.Service, requestedDurationMinutes int, promoCode string, now time.Time) (models.PriceQuote, error)
}

// DefaultPricingCalculator resolves promo codes through the catalog.
type DefaultPricingCalculator struct {
	Catalog catalogRepo.Repository
}

func (p *DefaultPricingCalculator) Quote(ctx context.Context, svc *models.Service, requestedDurationMinutes int, promoCode string, now time.Time) (models.PriceQuote, error) {
	if requestedDurationMinutes <= 0 {
		return models.PriceQuote{}, NewInvalidDurationError(requestedDurationMinutes)
	}

	var discount float64
	if promoCode != "" {
		promo, err := p.Catalog.GetPromoCode(ctx, promoCode)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrNotFound) {
				return models.PriceQuote{}, NewInvalidPromoCodeError(promoCode)
			}
			return models.PriceQuote{}, err
		}
		if promo.Expired(now) {
			return models.PriceQuote{}, NewInvalidPromoCodeError(promoCode)
		}
		discount = promo.DiscountAmount
	}

	quote, err := CalculateQuote(svc.BasePrice, svc.BaseDurationMinutes, requestedDurationMinutes, svc.LocationSurcharge, discount)
	if err != nil {
		return models.PriceQuote{}, err
	}
	quote.PromoCode = promoCode
	return quote, nil
}

// CalculateQuote computes the itemized price. The duration adjustment scales
// linearly with requestedDuration/baseDuration, the discount is capped at the
// pre-discount total, and the total never goes negative. A non-positive base
// duration is a catalog defect and is rejected before it can poison the ratio.
func CalculateQuote(servicePrice float64, baseDurationMinutes, requestedDurationMinutes int, locationSurcharge, discountAmount float64) (models.PriceQuote, error) {
	if baseDurationMinutes <= 0 {
		return models.PriceQuote{}, NewInvalidDurationError(baseDurationMinutes)
	}
	if requestedDurationMinutes <= 0 {
		return models.PriceQuote{}, NewInvalidDurationError(requestedDurationMinutes)
	}
	ratio := float64(requestedDurationMinutes) / float64(baseDurationMinutes)
	adjustment := servicePrice * (ratio - 1)

	subtotal := servicePrice + adjustment + locationSurcharge
	if subtotal < 0 {
		subtotal = 0
	}
	discount := discountAmount
	if discount > subtotal {
		discount = subtotal
	}

	return models.PriceQuote{
		BasePrice:          servicePrice,
		DurationAdjustment: adjustment,
		LocationFee:        locationSurcharge,
		Discount:           discount,
		Total:              subtotal - discount,
	}, nil
}
