package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"venue-booking/models"
	"venue-booking/services"
)

type BookingHandler struct {
	app            *pocketbase.PocketBase
	bookingService *services.BookingService
	availability   *services.AvailabilityService
	locks          *services.LockManager
}

func NewBookingHandler(app *pocketbase.PocketBase, bookingService *services.BookingService, availability *services.AvailabilityService, locks *services.LockManager) *BookingHandler {
	return &BookingHandler{
		app:            app,
		bookingService: bookingService,
		availability:   availability,
		locks:          locks,
	}
}

func (h *BookingHandler) loadVenueBookings(venueID, date string) ([]models.Booking, error) {
	records, err := h.app.FindAllRecords("bookings", dbx.HashExp{"venue": venueID, "date": date})
	if err != nil {
		return nil, err
	}

	bookings := make([]models.Booking, 0, len(records))
	for _, r := range records {
		b, err := bookingFromRecord(r)
		if err != nil {
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// CheckAvailability answers whether a venue slot is free right now. The
// answer is advisory; creation re-checks under the slot lock.
func (h *BookingHandler) CheckAvailability(e *core.RequestEvent) error {
	venueID := e.Request.PathValue("venueId")
	query := e.Request.URL.Query()
	date := query.Get("date")

	if err := models.ValidateDate(date); err != nil {
		return mapError(err)
	}
	candidate, err := models.NewTimeRange(query.Get("start"), query.Get("end"))
	if err != nil {
		return mapError(err)
	}

	if _, err := h.app.FindRecordById("venues", venueID); err != nil {
		return apis.NewNotFoundError("Venue not found", err)
	}

	// best-effort per-venue demand counter, 24h sliding window
	ctx := e.Request.Context()
	attemptsKey := fmt.Sprintf("availability:attempts:%s", venueID)
	if err := h.locks.Redis.Incr(ctx, attemptsKey).Err(); err == nil {
		h.locks.Redis.Expire(ctx, attemptsKey, 24*time.Hour)
	}

	existing, err := h.loadVenueBookings(venueID, date)
	if err != nil {
		return apis.NewBadRequestError("Failed to load bookings", err)
	}

	if err := h.availability.Check(venueID, date, candidate, existing); err != nil {
		return e.JSON(http.StatusOK, map[string]any{
			"available": false,
			"reason":    err.Error(),
		})
	}

	return e.JSON(http.StatusOK, map[string]any{"available": true})
}

type createBookingRequest struct {
	VenueID string `json:"venue_id"`
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Guests  int    `json:"guests"`
}

// Create books a venue slot. The venue+date slot lock is held from before
// the availability scan until the record is saved, so two concurrent
// requests for the same slot serialize and the loser sees the conflict.
func (h *BookingHandler) Create(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	data := createBookingRequest{}
	if err := e.BindBody(&data); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	rng, err := models.NewTimeRange(data.Start, data.End)
	if err != nil {
		return mapError(err)
	}

	venueRecord, err := h.app.FindRecordById("venues", data.VenueID)
	if err != nil {
		return apis.NewNotFoundError("Venue not found", err)
	}
	venue := venueFromRecord(venueRecord)

	ctx := e.Request.Context()
	release, err := h.locks.AcquireSlot(ctx, venue.ID, data.Date)
	if err != nil {
		return mapError(err)
	}
	defer release()

	existing, err := h.loadVenueBookings(venue.ID, data.Date)
	if err != nil {
		return apis.NewBadRequestError("Failed to load bookings", err)
	}

	booking, err := h.bookingService.ValidateCreate(actor, venue, services.BookingRequest{
		VenueID: venue.ID,
		Date:    data.Date,
		Range:   rng,
		Guests:  data.Guests,
	}, existing)
	if err != nil {
		return mapError(err)
	}

	collection, err := h.app.FindCollectionByNameOrId("bookings")
	if err != nil {
		return apis.NewBadRequestError("Failed to resolve bookings collection", err)
	}
	record := core.NewRecord(collection)
	setBookingRecord(record, *booking)
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save booking", err)
	}
	booking.ID = record.Id

	h.bookingService.AnnounceCreated(venue.OwnerID, *booking)

	return e.JSON(http.StatusCreated, booking)
}

type transitionBookingRequest struct {
	Status string `json:"status"`
}

// Transition moves a booking through its status table. The entity lock
// serializes concurrent transitions; the record is re-read after acquiring
// it so the decision runs against committed state.
func (h *BookingHandler) Transition(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	data := transitionBookingRequest{}
	if err := e.BindBody(&data); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	bookingID := e.Request.PathValue("bookingId")

	release, err := h.locks.AcquireEntity(e.Request.Context(), "bookings", bookingID)
	if err != nil {
		return mapError(err)
	}
	defer release()

	record, err := h.app.FindRecordById("bookings", bookingID)
	if err != nil {
		return apis.NewNotFoundError("Booking not found", err)
	}
	booking, err := bookingFromRecord(record)
	if err != nil {
		return mapError(err)
	}

	updated, err := h.bookingService.Transition(actor, booking, models.BookingStatus(data.Status))
	if err != nil {
		return mapError(err)
	}

	record.Set("status", string(updated.Status))
	if err := h.app.Save(record); err != nil {
		return apis.NewBadRequestError("Failed to save booking", err)
	}

	h.bookingService.AnnounceTransition(updated)

	return e.JSON(http.StatusOK, updated)
}

// History lists the requester's own bookings, newest first.
func (h *BookingHandler) History(e *core.RequestEvent) error {
	actor, err := requireActor(e)
	if err != nil {
		return err
	}

	records, err := h.app.FindRecordsByFilter(
		"bookings",
		"requester = {:requester}",
		"-created",
		100,
		0,
		dbx.Params{"requester": actor.ID},
	)
	if err != nil {
		return apis.NewBadRequestError("Failed to load bookings", err)
	}

	bookings := make([]models.Booking, 0, len(records))
	for _, r := range records {
		b, err := bookingFromRecord(r)
		if err != nil {
			continue
		}
		bookings = append(bookings, b)
	}

	return e.JSON(http.StatusOK, bookings)
}

// Quote prices a slot without creating anything.
func (h *BookingHandler) Quote(e *core.RequestEvent) error {
	query := e.Request.URL.Query()

	rate, err := decimal.NewFromString(query.Get("rate"))
	if err != nil || !rate.IsPositive() {
		return apis.NewBadRequestError("A positive rate is required", err)
	}
	rng, err := models.NewTimeRange(query.Get("start"), query.Get("end"))
	if err != nil {
		return mapError(err)
	}

	return e.JSON(http.StatusOK, services.QuoteForRange(rate, rng))
}
