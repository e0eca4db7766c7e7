package payment

import (
	"context"

	"spabook/models"
)

// PaymentProcessor is the outbound port invoked on Complete. Settlement runs
// asynchronously; the booking status never waits on the gateway result.
type PaymentProcessor interface {
	Settle(ctx context.Context, b *models.Booking) (*models.Invoice, error)
}
