package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/authz"
	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/queue"
	"github.com/courtside/facility-booking/internal/repository"
	"github.com/courtside/facility-booking/internal/service"
)

// BookingHandler manages the booking lifecycle. Visibility follows the
// shared policy: admins see everything, a client admin sees bookings at
// their own locations, a user sees their own bookings.
type BookingHandler struct {
	Bookings   *repository.BookingRepo
	Locations  *repository.LocationRepo
	Facilities *repository.FacilityRepo
}

func NewBookingHandler(b *repository.BookingRepo, l *repository.LocationRepo, f *repository.FacilityRepo) *BookingHandler {
	return &BookingHandler{Bookings: b, Locations: l, Facilities: f}
}

type createBookingReq struct {
	LocationID uint64    `json:"location_id"`
	FacilityID *uint64   `json:"facility_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}
type updateStatusReq struct {
	Status string `json:"status"`
}

// Create places a booking. A client admin can only book at their own
// locations; a plain user can book anywhere. The facility, when given,
// must belong to the location.
func (h *BookingHandler) Create(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createBookingReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.LocationID == 0 || body.StartTime.IsZero() || body.EndTime.IsZero() || !body.EndTime.After(body.StartTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "location and a valid time window required"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	loc, err := h.Locations.GetByID(ctx, body.LocationID)
	if err != nil {
		return respondError(c, err)
	}
	if req.Role == model.RoleClient && loc.ClientID != req.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if body.FacilityID != nil {
		f, err := h.Facilities.GetByID(ctx, *body.FacilityID)
		if err != nil {
			return respondError(c, err)
		}
		if f.LocationID == nil || *f.LocationID != loc.ID {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "facility not found for this location"})
		}
	}

	b := &model.Booking{
		UserID:     req.ID,
		LocationID: body.LocationID,
		FacilityID: body.FacilityID,
		StartTime:  body.StartTime.UTC(),
		EndTime:    body.EndTime.UTC(),
		Status:     model.BookingPending,
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List returns bookings in the requester's reach.
func (h *BookingHandler) List(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	var out []*model.Booking
	switch {
	case authz.IsAdmin(req.Role):
		out, err = h.Bookings.ListAll(ctx)
	case req.Role == model.RoleClient:
		out, err = h.Bookings.ListByClient(ctx, req.ID)
	default:
		out, err = h.Bookings.ListByUser(ctx, req.ID)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one booking if the requester may see it.
func (h *BookingHandler) Get(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.authorize(ctx, req, b); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// UpdateStatus moves a booking along its lifecycle. A transition to
// confirmed publishes a BookingConfirmedEvent; publish failures are
// logged and swallowed, the booking stays confirmed.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body updateStatusReq
	if err := c.Bind(&body); err != nil || !model.ValidBookingStatus(body.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid status required"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.authorize(ctx, req, b); err != nil {
		return respondError(c, err)
	}
	if err := h.Bookings.UpdateStatus(ctx, id, body.Status); err != nil {
		return respondError(c, err)
	}
	prev := b.Status
	b.Status = body.Status

	if body.Status == model.BookingConfirmed && prev != model.BookingConfirmed {
		h.publishConfirmed(ctx, b)
	}
	return c.JSON(http.StatusOK, b)
}

// authorize applies the shared ownership policy to a booking: the
// booking's creator, the client admin owning its location, or an admin.
func (h *BookingHandler) authorize(ctx context.Context, req authz.Requester, b *model.Booking) error {
	if authz.CanAccess(req, b.UserID) {
		return nil
	}
	if req.Role == model.RoleClient {
		loc, err := h.Locations.GetByID(ctx, b.LocationID)
		if err != nil {
			return err
		}
		if authz.CanAccess(req, loc.ClientID) {
			return nil
		}
	}
	return service.ErrForbidden
}

func (h *BookingHandler) publishConfirmed(ctx context.Context, b *model.Booking) {
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		LocationID:  b.LocationID,
		StartsAt:    b.StartTime.UTC().Format(time.RFC3339),
		EndsAt:      b.EndTime.UTC().Format(time.RFC3339),
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if loc, err := h.Locations.GetByID(ctx, b.LocationID); err == nil {
		ev.ClientID = loc.ClientID
		ev.LocationName = loc.Name
	}
	if b.FacilityID != nil {
		if f, err := h.Facilities.GetByID(ctx, *b.FacilityID); err == nil {
			ev.FacilityID = f.ID
			ev.FacilityKind = f.Kind
			ev.FacilityName = f.Name
		}
	}
	_ = queue.PublishBookingConfirmed(ctx, ev)
}
