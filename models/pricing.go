package models

// PriceQuote is the itemized outcome of a pricing calculation.
type PriceQuote struct {
	BasePrice          float64 `bson:"base_price" json:"basePrice"`
	DurationAdjustment float64 `bson:"duration_adjustment" json:"durationAdjustment"`
	LocationFee        float64 `bson:"location_fee" json:"locationFee"`
	Discount           float64 `bson:"discount" json:"discount"`
	Total              float64 `bson:"total" json:"total"`
	PromoCode          string  `bson:"promo_code,omitempty" json:"promoCode,omitempty"`
}

// Invoice is the record of a settlement attempt against the payment gateway.
type Invoice struct {
	InvoiceID string  `bson:"invoice_id" json:"invoiceId"`
	BookingID string  `bson:"booking_id" json:"bookingId"`
	Amount    float64 `bson:"amount" json:"amount"`
	Currency  string  `bson:"currency" json:"currency"`
	Status    string  `bson:"status" json:"status"` // "pending", "paid", "failed"
	Reference string  `bson:"reference,omitempty" json:"reference,omitempty"`
}
