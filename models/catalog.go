package models

import "time"

// Provider is the read-model view of a service professional. Profile
// management lives elsewhere; the booking engine only needs identity and
// active status.
type Provider struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Timezone string `bson:"timezone" json:"timezone"` // IANA name, e.g. "Europe/Moscow"
	Active   bool   `bson:"active" json:"active"`
}

// Service is a bookable offering of a provider.
type Service struct {
	ID                  string  `bson:"id" json:"id"`
	ProviderID          string  `bson:"provider_id" json:"providerId"`
	Name                string  `bson:"name" json:"name"`
	BasePrice           float64 `bson:"base_price" json:"basePrice"`
	BaseDurationMinutes int     `bson:"base_duration_minutes" json:"baseDurationMinutes"`
	LocationSurcharge   float64 `bson:"location_surcharge" json:"locationSurcharge"`
	Active              bool    `bson:"active" json:"active"`
}

// PromoCode is a flat-amount discount with an expiry.
type PromoCode struct {
	Code           string    `bson:"code" json:"code"`
	DiscountAmount float64   `bson:"discount_amount" json:"discountAmount"`
	ExpiresAt      time.Time `bson:"expires_at" json:"expiresAt"`
	Active         bool      `bson:"active" json:"active"`
}

// Expired reports whether the promo can no longer be applied.
func (p *PromoCode) Expired(now time.Time) bool {
	return !p.Active || now.After(p.ExpiresAt)
}
