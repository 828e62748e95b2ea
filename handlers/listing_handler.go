package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"venue-booking/models"
	"venue-booking/services"
)

type ListingHandler struct {
	app            *pocketbase.PocketBase
	listingService *services.ListingService
	locks          *services.LockManager
}

func NewListingHandler(app *pocketbase.PocketBase, listingService *services.ListingService, locks *services.LockManager) *ListingHandler {
	return &ListingHandler{
		app:            app,
		listingService: listingService,
		locks:          locks,
	}
}

type venuePayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	HourlyRate  float64  `json:"hourly_rate"`
	Capacity    int      `json:"capacity"`
	SizeSqft    int      `json:"size_sqft"`
	Amenities   []string `json:"amenities"`
}

func (p venuePayload) toVenue() models.Venue {
	return models.Venue{
		Name:        p.Name,
		Description: p.Description,
		Location:    p.Location,
		HourlyRate:  decimal.NewFromFloat(p.HourlyRate),
		Capacity:    p.Capacity,
		SizeSqft:    p.SizeSqft,
		Amenities:   p.Amenities,
	}
}

// Submit creates a venue listing in the pending verification state.
func (h *ListingHandler) Submit(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	data := venuePayload{}
	if err := e.BindBody(&data); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	venue, err := h.listingService.ValidateSubmit(actor, data.toVenue())
	if err != nil {
		return mapError(err)
	}

	collection, err := h.app.FindCollectionByNameOrId("venues")
	if err != nil {
		return apis.NewBadRequestError("Failed to resolve venues collection", err)
	}
	record := core.NewRecord(collection)
	setVenueRecord(record, *venue)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save venue", err)
	}
	venue.ID = record.Id

	return e.JSON(http.StatusCreated, venue)
}

type verifyListingRequest struct {
	Status string `json:"status"`
}

// Verify records the admin's approval or rejection. The decision is
// absorbing, so two admins racing on the same listing serialize on the
// entity lock and the second one gets the transition error.
func (h *ListingHandler) Verify(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	data := verifyListingRequest{}
	if err := e.BindBody(&data); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	venueID := e.Request.PathValue("venueId")

	release, err := h.locks.AcquireEntity(e.Request.Context(), "venues", venueID)
	if err != nil {
		return mapError(err)
	}
	defer release()

	record, err := h.app.FindRecordById("venues", venueID)
	if err != nil {
		return apis.NewNotFoundError("Venue not found", err)
	}

	updated, err := h.listingService.Transition(actor, venueFromRecord(record), models.VerificationStatus(data.Status))
	if err != nil {
		return mapError(err)
	}

	record.Set("verification_status", string(updated.Verification))
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save venue", err)
	}

	h.listingService.AnnounceDecision(updated)

	return e.JSON(http.StatusOK, updated)
}

// Update edits a listing's profile fields. Ownership and verification state
// never change through this path.
func (h *ListingHandler) Update(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	data := venuePayload{}
	if err := e.BindBody(&data); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	record, err := h.app.FindRecordById("venues", e.Request.PathValue("venueId"))
	if err != nil {
		return apis.NewNotFoundError("Venue not found", err)
	}

	updated, err := h.listingService.ValidateUpdate(actor, venueFromRecord(record), data.toVenue())
	if err != nil {
		return mapError(err)
	}

	setVenueRecord(record, *updated)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save venue", err)
	}

	return e.JSON(http.StatusOK, updated)
}

// Remove soft-deletes a listing. Existing bookings keep their venue
// reference; the venue simply stops accepting new ones.
func (h *ListingHandler) Remove(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	record, err := h.app.FindRecordById("venues", e.Request.PathValue("venueId"))
	if err != nil {
		return apis.NewNotFoundError("Venue not found", err)
	}

	updated, err := h.listingService.ValidateRemove(actor, venueFromRecord(record))
	if err != nil {
		return mapError(err)
	}

	record.Set("removed", true)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save venue", err)
	}

	return e.JSON(http.StatusOK, updated)
}

// ListPending returns the admin verification queue, oldest first.
func (h *ListingHandler) ListPending(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}
	if !services.CanPerform(actor, services.ActionVerifyListing, services.Target{}) {
		return apis.NewForbiddenError("Admin access required", nil)
	}

	records, err := h.app.FindRecordsByFilter(
		"venues",
		"verification_status = 'pending' && removed = false",
		"created",
		200,
		0,
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to load pending listings", err)
	}

	venues := make([]models.Venue, 0, len(records))
	for _, r := range records {
		venues = append(venues, venueFromRecord(r))
	}

	return e.JSON(http.StatusOK, venues)
}
