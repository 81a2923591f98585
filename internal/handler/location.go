package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/authz"
	"github.com/courtside/facility-booking/internal/model"
)

// LocationHandler is the thin CRUD surface for locations.
type LocationHandler struct {
	Locations LocationStore
}

func NewLocationHandler(l LocationStore) *LocationHandler {
	return &LocationHandler{Locations: l}
}

type locationReq struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
	ClientID   uint64 `json:"client_id"` // admins only; ignored for clients
}

func (h *LocationHandler) Create(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body locationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
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

	l := &model.Location{
		ClientID: clientID, Name: body.Name,
		Address: body.Address, City: body.City, State: body.State,
		Country: body.Country, PostalCode: body.PostalCode, Phone: body.Phone,
	}
	if err := h.Locations.Create(ctx, l); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LocationHandler) List(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	out, err := h.Locations.ListByClient(ctx, authz.VisibleDomain(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LocationHandler) Get(c echo.Context) error {
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

	l, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !authz.CanAccess(req, l.ClientID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LocationHandler) Update(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body locationReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	l, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !authz.CanAccess(req, l.ClientID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if body.Name != "" {
		l.Name = body.Name
	}
	if body.Address != "" {
		l.Address = body.Address
	}
	if body.City != "" {
		l.City = body.City
	}
	if body.State != "" {
		l.State = body.State
	}
	if body.Country != "" {
		l.Country = body.Country
	}
	if body.PostalCode != "" {
		l.PostalCode = body.PostalCode
	}
	if body.Phone != "" {
		l.Phone = body.Phone
	}
	if err := h.Locations.Update(ctx, l); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LocationHandler) Delete(c echo.Context) error {
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

	l, err := h.Locations.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !authz.CanAccess(req, l.ClientID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := h.Locations.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
