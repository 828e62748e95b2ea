package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"venue-booking/internal/status"
	"venue-booking/models"
)

// requireActor builds the acting user from the request's auth record. Role
// interpretation is ours; an auth record without a valid role acts as a
// plain visitor.
func requireActor(e *core.RequestEvent) (models.User, error) {
	if e.Auth == nil {
		return models.User{}, apis.NewUnauthorizedError("Authentication required", nil)
	}

	role := models.Role(e.Auth.GetString("role"))
	if !role.Valid() {
		role = models.RoleVisitor
	}

	return models.User{
		ID:     e.Auth.Id,
		Name:   e.Auth.GetString("name"),
		Email:  e.Auth.GetString("email"),
		Role:   role,
		Avatar: e.Auth.GetString("avatar"),
	}, nil
}

// mapError translates the service error taxonomy onto HTTP statuses.
// Validation 400, authorization 403, missing reference 404, everything that
// means "true now but not forever" 409.
func mapError(err error) error {
	switch {
	case errors.Is(err, status.ErrValidation), errors.Is(err, status.ErrInvalidRange):
		return apis.NewBadRequestError(err.Error(), err)
	case errors.Is(err, status.ErrUnauthorized):
		return apis.NewForbiddenError(err.Error(), err)
	case errors.Is(err, status.ErrNotFound):
		return apis.NewNotFoundError(err.Error(), err)
	case errors.Is(err, status.ErrConflict),
		errors.Is(err, status.ErrCapacityExceeded),
		errors.Is(err, status.ErrVenueNotApproved),
		errors.Is(err, status.ErrInvalidTransition),
		errors.Is(err, status.ErrTerminalState):
		return apis.NewApiError(http.StatusConflict, err.Error(), err)
	default:
		return apis.NewApiError(http.StatusInternalServerError, "Something went wrong", err)
	}
}

func venueFromRecord(r *core.Record) models.Venue {
	return models.Venue{
		ID:           r.Id,
		Name:         r.GetString("name"),
		Description:  r.GetString("description"),
		Location:     r.GetString("location"),
		HourlyRate:   decimal.NewFromFloat(r.GetFloat("hourly_rate")),
		Capacity:     r.GetInt("capacity"),
		SizeSqft:     r.GetInt("size_sqft"),
		Amenities:    r.GetStringSlice("amenities"),
		OwnerID:      r.GetString("owner"),
		Verification: models.VerificationStatus(r.GetString("verification_status")),
		Removed:      r.GetBool("removed"),
	}
}

func setVenueRecord(r *core.Record, v models.Venue) {
	r.Set("name", v.Name)
	r.Set("description", v.Description)
	r.Set("location", v.Location)
	r.Set("hourly_rate", v.HourlyRate.InexactFloat64())
	r.Set("capacity", v.Capacity)
	r.Set("size_sqft", v.SizeSqft)
	r.Set("amenities", v.Amenities)
	r.Set("owner", v.OwnerID)
	r.Set("verification_status", string(v.Verification))
	r.Set("removed", v.Removed)
}

func bookingFromRecord(r *core.Record) (models.Booking, error) {
	rng, err := models.NewTimeRange(r.GetString("start_time"), r.GetString("end_time"))
	if err != nil {
		return models.Booking{}, err
	}
	price, err := decimal.NewFromString(r.GetString("total_price"))
	if err != nil {
		price = decimal.Zero
	}
	return models.Booking{
		ID:          r.Id,
		Reference:   r.GetString("reference"),
		VenueID:     r.GetString("venue"),
		RequesterID: r.GetString("requester"),
		Date:        r.GetString("date"),
		Range:       rng,
		Guests:      r.GetInt("guests"),
		Status:      models.BookingStatus(r.GetString("status")),
		TotalPrice:  price,
		CreatedAt:   r.GetDateTime("created").Time(),
	}, nil
}

func setBookingRecord(r *core.Record, b models.Booking) {
	r.Set("reference", b.Reference)
	r.Set("venue", b.VenueID)
	r.Set("requester", b.RequesterID)
	r.Set("date", b.Date)
	r.Set("start_time", b.Range.StartClock())
	r.Set("end_time", b.Range.EndClock())
	r.Set("guests", b.Guests)
	r.Set("status", string(b.Status))
	r.Set("total_price", b.TotalPrice.String())
}

func claimFromRecord(r *core.Record) models.Claim {
	c := models.Claim{
		ID:          r.Id,
		Reference:   r.GetString("reference"),
		BookingID:   r.GetString("booking"),
		FilerID:     r.GetString("filer"),
		Title:       r.GetString("title"),
		Description: r.GetString("description"),
		Category:    models.ClaimCategory(r.GetString("category")),
		Status:      models.ClaimStatus(r.GetString("status")),
		AdminNotes:  r.GetString("admin_notes"),
		CreatedAt:   r.GetDateTime("created").Time(),
	}
	if resolved := r.GetDateTime("resolved_at").Time(); !resolved.IsZero() {
		c.ResolvedAt = &resolved
	}
	return c
}

func setClaimRecord(r *core.Record, c models.Claim) {
	r.Set("reference", c.Reference)
	r.Set("booking", c.BookingID)
	r.Set("filer", c.FilerID)
	r.Set("title", c.Title)
	r.Set("description", c.Description)
	r.Set("category", string(c.Category))
	r.Set("status", string(c.Status))
	r.Set("admin_notes", c.AdminNotes)
	if c.ResolvedAt != nil {
		r.Set("resolved_at", *c.ResolvedAt)
	}
}

func userFromRecord(r *core.Record) models.User {
	role := models.Role(r.GetString("role"))
	if !role.Valid() {
		role = models.RoleVisitor
	}
	return models.User{
		ID:     r.Id,
		Name:   r.GetString("name"),
		Email:  r.GetString("email"),
		Role:   role,
		Avatar: r.GetString("avatar"),
	}
}
