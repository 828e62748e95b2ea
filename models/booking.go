package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the closed set of reservation states.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// bookingTransitions is the exhaustive transition table. Nothing leaves
// cancelled and nothing re-enters pending.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCancelled},
	BookingCancelled: {},
}

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionTo reports whether the table permits s -> target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Booking is a reservation of a venue's time slot on a single date.
// TotalPrice is fixed at creation; there is no retroactive repricing.
type Booking struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	VenueID     string          `json:"venue_id"`
	RequesterID string          `json:"requester_id"`
	Date        string          `json:"date"`
	Range       TimeRange       `json:"range"`
	Guests      int             `json:"guests"`
	Status      BookingStatus   `json:"status"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Active reports whether the booking still blocks its time slot.
func (b Booking) Active() bool {
	return b.Status != BookingCancelled
}
