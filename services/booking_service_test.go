package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venue-booking/internal/status"
	"venue-booking/models"
)

func newBookingService() *BookingService {
	return NewBookingService(NewAvailabilityService(nil), nil, nil)
}

func approvedVenue() models.Venue {
	return models.Venue{
		ID:           "v1",
		Name:         "Loft",
		Location:     "Midtown",
		HourlyRate:   decimal.NewFromInt(50),
		Capacity:     30,
		OwnerID:      "owner1",
		Verification: models.VerificationApproved,
	}
}

func TestBookingService_ValidateCreate(t *testing.T) {
	svc := newBookingService()
	visitor := models.User{ID: "u1", Role: models.RoleVisitor}
	venue := approvedVenue()
	req := BookingRequest{
		VenueID: venue.ID,
		Date:    "2026-09-01",
		Range:   models.TimeRange{Start: 540, End: 780},
		Guests:  10,
	}

	b, err := svc.ValidateCreate(visitor, venue, req, nil)
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, venue.ID, b.VenueID)
	assert.Equal(t, visitor.ID, b.RequesterID)
	assert.True(t, b.TotalPrice.Equal(decimal.NewFromInt(220)), "total %s", b.TotalPrice)
	assert.Regexp(t, `^BK-[0-9A-F]{8}$`, b.Reference)
	assert.False(t, b.CreatedAt.IsZero())
}

func TestBookingService_ValidateCreate_Preconditions(t *testing.T) {
	svc := newBookingService()
	visitor := models.User{ID: "u1", Role: models.RoleVisitor}
	goodRange := models.TimeRange{Start: 540, End: 780}
	taken := []models.Booking{
		booking("b1", "v1", "2026-09-01", 600, 720, models.BookingConfirmed),
	}

	pendingVenue := approvedVenue()
	pendingVenue.Verification = models.VerificationPending
	removedVenue := approvedVenue()
	removedVenue.Removed = true

	tests := []struct {
		name     string
		actor    models.User
		venue    models.Venue
		req      BookingRequest
		existing []models.Booking
		wantErr  error
	}{
		{
			name:    "malformed date",
			actor:   visitor,
			venue:   approvedVenue(),
			req:     BookingRequest{VenueID: "v1", Date: "09/01/2026", Range: goodRange, Guests: 5},
			wantErr: status.ErrValidation,
		},
		{
			name:    "inverted range",
			actor:   visitor,
			venue:   approvedVenue(),
			req:     BookingRequest{VenueID: "v1", Date: "2026-09-01", Range: models.TimeRange{Start: 780, End: 540}, Guests: 5},
			wantErr: status.ErrInvalidRange,
		},
		{
			name:    "zero-duration range",
			actor:   visitor,
			venue:   approvedVenue(),
			req:     BookingRequest{VenueID: "v1", Date: "2026-09-01", Range: models.TimeRange{Start: 540, End: 540}, Guests: 5},
			wantErr: status.ErrInvalidRange,
		},
		{
			name:    "zero guests",
			actor:   visitor,
			venue:   approvedVenue(),
			req:     BookingRequest{VenueID: "v1", Date: "2026-09-01", Range: goodRange, Guests: 0},
			wantErr: status.ErrValidation,
		},
		{
			name:    "unverified venue",
			actor:   visitor,
			venue:   pendingVenue,
			req:     BookingRequest{VenueID: "v1", Date: "2026-09-01", Range: goodRange, Guests: 5},
			wantErr: status.ErrVenueNotApproved,
		},
		{
			name:    "removed venue",
			actor:   visitor,
			venue:   removedVenue,
			req:     BookingRequest{VenueID: "v1", Date: "2026-09-01", Range: goodRange, Guests: 5},
			wantErr: status.ErrVenueNotApproved,
		},
		{
			name:    "over capacity",
			actor:   visitor,
			venue:   approvedVenue(),
			req:     BookingRequest{VenueID: "v1", Date: "2026-09-01", Range: goodRange, Guests: 31},
			wantErr: status.ErrCapacityExceeded,
		},
		{
			name:     "slot taken",
			actor:    visitor,
			venue:    approvedVenue(),
			req:      BookingRequest{VenueID: "v1", Date: "2026-09-01", Range: goodRange, Guests: 5},
			existing: taken,
			wantErr:  status.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateCreate(tt.actor, tt.venue, tt.req, tt.existing)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// A malformed request on an unverified venue reports the validation failure,
// not the business-rule one. The check order is fixed.
func TestBookingService_ValidateCreate_CheckOrder(t *testing.T) {
	svc := newBookingService()
	visitor := models.User{ID: "u1", Role: models.RoleVisitor}
	venue := approvedVenue()
	venue.Verification = models.VerificationPending

	_, err := svc.ValidateCreate(visitor, venue, BookingRequest{
		VenueID: venue.ID,
		Date:    "not-a-date",
		Range:   models.TimeRange{Start: 540, End: 780},
		Guests:  5,
	}, nil)

	assert.ErrorIs(t, err, status.ErrValidation)
	assert.NotErrorIs(t, err, status.ErrVenueNotApproved)
}

func TestBookingService_Transition(t *testing.T) {
	svc := newBookingService()
	admin := models.User{ID: "a1", Role: models.RoleAdmin}
	requester := models.User{ID: "u1", Role: models.RoleVisitor}
	stranger := models.User{ID: "u2", Role: models.RoleVisitor}

	base := models.Booking{ID: "b1", RequesterID: requester.ID, Status: models.BookingPending}

	tests := []struct {
		name    string
		actor   models.User
		from    models.BookingStatus
		target  models.BookingStatus
		wantErr error
	}{
		{"admin confirms pending", admin, models.BookingPending, models.BookingConfirmed, nil},
		{"admin cancels confirmed", admin, models.BookingConfirmed, models.BookingCancelled, nil},
		{"requester cancels own pending", requester, models.BookingPending, models.BookingCancelled, nil},
		{"requester cannot confirm", requester, models.BookingPending, models.BookingConfirmed, status.ErrUnauthorized},
		{"stranger cannot cancel", stranger, models.BookingPending, models.BookingCancelled, status.ErrUnauthorized},
		{"cancelled is absorbing", admin, models.BookingCancelled, models.BookingConfirmed, status.ErrInvalidTransition},
		{"no return to pending", admin, models.BookingConfirmed, models.BookingPending, status.ErrInvalidTransition},
		{"unknown status", admin, models.BookingPending, models.BookingStatus("archived"), status.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base
			b.Status = tt.from

			got, err := svc.Transition(tt.actor, b, tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, got.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, got.Status)
		})
	}
}

// The price is fixed at creation from the venue's current rate; a later rate
// change must not affect an existing booking.
func TestBookingService_PriceFixedAtCreation(t *testing.T) {
	svc := newBookingService()
	visitor := models.User{ID: "u1", Role: models.RoleVisitor}
	venue := approvedVenue()

	b, err := svc.ValidateCreate(visitor, venue, BookingRequest{
		VenueID: venue.ID,
		Date:    "2026-09-01",
		Range:   models.TimeRange{Start: 540, End: 660},
		Guests:  5,
	}, nil)
	require.NoError(t, err)

	priced := b.TotalPrice
	venue.HourlyRate = decimal.NewFromInt(500)
	assert.True(t, b.TotalPrice.Equal(priced))
}
