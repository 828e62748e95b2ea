package services

import (
	"github.com/shopspring/decimal"

	"venue-booking/models"
)

// serviceFeeRate is the fixed platform fee applied on top of the subtotal.
var serviceFeeRate = decimal.NewFromFloat(0.10)

// Quote is the price breakdown shown to the requester and fixed onto the
// booking at creation.
type Quote struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	ServiceFee decimal.Decimal `json:"service_fee"`
	Total      decimal.Decimal `json:"total"`
}

// QuotePrice derives the charge from an hourly rate and fractional hours.
// Duration validation happens upstream; the calculator assumes a positive
// duration and does not re-check.
func QuotePrice(rate, hours decimal.Decimal) Quote {
	subtotal := rate.Mul(hours)
	fee := subtotal.Mul(serviceFeeRate)
	return Quote{
		Subtotal:   subtotal,
		ServiceFee: fee,
		Total:      subtotal.Add(fee),
	}
}

// QuoteForRange is the range-based convenience used by handlers.
func QuoteForRange(rate decimal.Decimal, r models.TimeRange) Quote {
	return QuotePrice(rate, r.Hours())
}
