package catalogRepo

import (
	"context"

	"spabook/models"
)

// Repository is the read model over providers, services and promo codes.
// These records are owned by the profile/marketing surfaces; the booking
// engine only resolves and validates them.
type Repository interface {
	GetProvider(ctx context.Context, id string) (*models.Provider, error)
	GetService(ctx context.Context, id string) (*models.Service, error)
	GetPromoCode(ctx context.Context, code string) (*models.PromoCode, error)
}
