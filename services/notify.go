package services

import (
	"context"
	"log/slog"

	pubnub "github.com/pubnub/go"

	"venue-booking/models"
	"venue-booking/utils"
)

// NotifyService publishes workflow decisions to the affected user's channel.
// Publishing is fire-and-forget: a notification failure never fails the
// operation that triggered it. The circuit breaker keeps a dead PubNub
// upstream from stalling request handling.
type NotifyService struct {
	pubnub  *pubnub.PubNub
	breaker *utils.CircuitBreaker
}

func NewNotifyService(pn *pubnub.PubNub) *NotifyService {
	return &NotifyService{
		pubnub:  pn,
		breaker: utils.NewCircuitBreaker("notify"),
	}
}

func (s *NotifyService) publish(userID string, message map[string]any) {
	if s == nil || s.pubnub == nil {
		return
	}

	channel := "user-" + userID

	_, err := s.breaker.Execute(context.Background(), func() (any, error) {
		_, st, err := s.pubnub.Publish().
			Channel(channel).
			Message(message).
			Execute()
		if err != nil {
			return nil, err
		}
		return st, nil
	})
	if err != nil {
		slog.Error("publish notification", "channel", channel, "type", message["type"], "error", err)
	}
}

// BookingRequested tells a venue owner a new pending booking arrived.
func (s *NotifyService) BookingRequested(ownerID string, b models.Booking) {
	s.publish(ownerID, map[string]any{
		"type":       "booking_requested",
		"booking_id": b.ID,
		"reference":  b.Reference,
		"date":       b.Date,
		"range":      b.Range.String(),
	})
}

// BookingStatusChanged tells the requester their booking moved state.
func (s *NotifyService) BookingStatusChanged(requesterID string, b models.Booking) {
	s.publish(requesterID, map[string]any{
		"type":       "booking_status",
		"booking_id": b.ID,
		"reference":  b.Reference,
		"status":     string(b.Status),
	})
}

// ClaimDecision tells the filer their claim moved state.
func (s *NotifyService) ClaimDecision(filerID string, c models.Claim) {
	s.publish(filerID, map[string]any{
		"type":      "claim_status",
		"claim_id":  c.ID,
		"reference": c.Reference,
		"status":    string(c.Status),
	})
}

// ListingDecision tells the owner their listing was approved or rejected.
func (s *NotifyService) ListingDecision(ownerID string, v models.Venue) {
	s.publish(ownerID, map[string]any{
		"type":                "listing_verification",
		"venue_id":            v.ID,
		"verification_status": string(v.Verification),
	})
}
