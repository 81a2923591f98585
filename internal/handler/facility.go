package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/authz"
	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/service"
)

// FacilityStore is the storage surface the facility handler needs. The
// SQL implementation is repository.FacilityRepo; tests substitute an
// in-memory fake.
type FacilityStore interface {
	Create(ctx context.Context, f *model.Facility) error
	GetByID(ctx context.Context, id uint64) (*model.Facility, error)
	List(ctx context.Context, clientID uint64, kind string) ([]*model.Facility, error)
	Update(ctx context.Context, f *model.Facility) error
	Delete(ctx context.Context, id uint64) error
}

// LocationStore is the location surface shared by the facility and
// location handlers, implemented by repository.LocationRepo.
type LocationStore interface {
	Create(ctx context.Context, l *model.Location) error
	GetByID(ctx context.Context, id uint64) (*model.Location, error)
	ListByClient(ctx context.Context, clientID uint64) ([]*model.Location, error)
	FindOrCreateByAddress(ctx context.Context, l *model.Location) (*model.Location, error)
	Update(ctx context.Context, l *model.Location) error
	Delete(ctx context.Context, id uint64) error
}

// FacilityHandler is the thin CRUD surface for facilities of every kind.
// All ownership decisions go through authz.CanAccess; nothing here
// re-derives the predicate.
type FacilityHandler struct {
	Facilities FacilityStore
	Locations  LocationStore
}

func NewFacilityHandler(f FacilityStore, l LocationStore) *FacilityHandler {
	return &FacilityHandler{Facilities: f, Locations: l}
}

type facilityReq struct {
	Kind            string  `json:"kind"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	HourlyRateCents uint32  `json:"hourly_rate_cents"`
	LocationID      *uint64 `json:"location_id"`
	ClientID        uint64  `json:"client_id"` // admins only; ignored for clients
	// Optional inline address; creates or reuses a location.
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

// updateFacilityReq uses pointers so a PATCH can distinguish "leave
// unchanged" (absent) from "set to the zero value" (present).
type updateFacilityReq struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	HourlyRateCents *uint32 `json:"hourly_rate_cents"`
	LocationID      *uint64 `json:"location_id"`
}

// Create registers a facility. A client admin always creates inside
// their own tenant; platform admins may create on behalf of a client.
// A referenced location must belong to the facility's owning tenant.
func (h *FacilityHandler) Create(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body facilityReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidKind(body.Kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown facility kind"})
	}
	if body.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	clientID := req.ID
	if authz.IsAdmin(req.Role) && body.ClientID != 0 {
		clientID = body.ClientID
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	locationID := body.LocationID
	if locationID != nil {
		if err := h.checkLocationTenant(ctx, *locationID, clientID); err != nil {
			return respondError(c, err)
		}
	} else if body.Address != "" || body.City != "" || body.Country != "" {
		loc, err := h.Locations.FindOrCreateByAddress(ctx, &model.Location{
			ClientID: clientID, Name: body.Name,
			Address: body.Address, City: body.City, State: body.State,
			Country: body.Country, PostalCode: body.PostalCode, Phone: body.Phone,
		})
		if err != nil {
			return respondError(c, err)
		}
		locationID = &loc.ID
	}

	f := &model.Facility{
		ClientID:        clientID,
		LocationID:      locationID,
		Kind:            body.Kind,
		Name:            body.Name,
		Description:     body.Description,
		HourlyRateCents: body.HourlyRateCents,
	}
	if err := h.Facilities.Create(ctx, f); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, f)
}

// List returns facilities in the requester's visible domain, optionally
// filtered by ?kind=.
func (h *FacilityHandler) List(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	kind := c.QueryParam("kind")
	if kind != "" && !model.ValidKind(kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown facility kind"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	out, err := h.Facilities.List(ctx, authz.VisibleDomain(req), kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// PublicList is the unauthenticated browse endpoint.
func (h *FacilityHandler) PublicList(c echo.Context) error {
	kind := c.QueryParam("kind")
	if kind != "" && !model.ValidKind(kind) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown facility kind"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	out, err := h.Facilities.List(ctx, 0, kind)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one facility if the requester's domain covers it.
func (h *FacilityHandler) Get(c echo.Context) error {
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

	f, err := h.Facilities.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !authz.CanAccess(req, f.ClientID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, f)
}

// Update rewrites mutable fields of an owned facility. Absent fields
// stay unchanged; a relinked location must belong to the facility's
// tenant.
func (h *FacilityHandler) Update(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body updateFacilityReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	f, err := h.Facilities.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !authz.CanAccess(req, f.ClientID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if body.Name != nil {
		if *body.Name == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
		}
		f.Name = *body.Name
	}
	if body.Description != nil {
		f.Description = *body.Description
	}
	if body.HourlyRateCents != nil {
		f.HourlyRateCents = *body.HourlyRateCents
	}
	if body.LocationID != nil {
		if err := h.checkLocationTenant(ctx, *body.LocationID, f.ClientID); err != nil {
			return respondError(c, err)
		}
		f.LocationID = body.LocationID
	}
	if err := h.Facilities.Update(ctx, f); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, f)
}

// Delete removes an owned facility and its bookings.
func (h *FacilityHandler) Delete(c echo.Context) error {
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

	f, err := h.Facilities.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !authz.CanAccess(req, f.ClientID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Facilities.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// checkLocationTenant verifies that the location exists and is owned by
// the tenant the facility belongs to. Linking across tenants is
// forbidden for everyone, admins included: the facility's owner must own
// its location.
func (h *FacilityHandler) checkLocationTenant(ctx context.Context, locationID, clientID uint64) error {
	loc, err := h.Locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc.ClientID != clientID {
		return service.ErrForbidden
	}
	return nil
}
