package payment

import (
	"context"
	"fmt"
	"math"

	"spabook/config"
	"spabook/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// StripePaymentProcessor settles bookings through Stripe payment intents.
// stripe.Key is set once at startup from configuration.
type StripePaymentProcessor struct{}

func NewStripePaymentProcessor() *StripePaymentProcessor {
	return &StripePaymentProcessor{}
}

func (p *StripePaymentProcessor) Settle(ctx context.Context, b *models.Booking) (*models.Invoice, error) {
	amountCents := int64(math.Round(b.Price.Total * 100))

	inv := &models.Invoice{
		InvoiceID: uuid.New().String(),
		BookingID: b.ID,
		Amount:    b.Price.Total,
		Currency:  config.AppConfig.Currency,
		Status:    "pending",
	}

	if amountCents == 0 {
		// Fully discounted bookings settle without touching the gateway.
		inv.Status = "paid"
		return inv, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(config.AppConfig.Currency),
		Description: stripe.String(fmt.Sprintf("booking %s", b.ID)),
	}
	params.Context = ctx
	params.AddMetadata("booking_id", b.ID)
	params.AddMetadata("provider_id", b.ProviderID)
	params.AddMetadata("client_id", b.ClientID)

	pi, err := paymentintent.New(params)
	if err != nil {
		inv.Status = "failed"
		return inv, fmt.Errorf("stripe payment intent failed for booking %s: %w", b.ID, err)
	}

	inv.Reference = pi.ID
	if pi.Status == stripe.PaymentIntentStatusSucceeded {
		inv.Status = "paid"
	}
	return inv, nil
}
