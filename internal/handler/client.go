package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/service"
)

// ClientHandler exposes client business profiles and their approval
// workflow. The workflow endpoints are gated to platform admins by
// middleware; ownership of reads is decided by the service.
type ClientHandler struct {
	Clients *service.ClientService
}

func NewClientHandler(clients *service.ClientService) *ClientHandler {
	return &ClientHandler{Clients: clients}
}

type createProfileReq struct {
	UserID             uint64 `json:"user_id"`
	CompanyName        string `json:"company_name"`
	RegistrationNumber string `json:"registration_number"`
	TaxID              string `json:"tax_id"`
	Description        string `json:"description"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	City               string `json:"city"`
	Country            string `json:"country"`
}
type reasonReq struct {
	Reason string `json:"reason"`
}

// List returns profiles, optionally filtered by ?status=.
func (h *ClientHandler) List(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	out, err := h.Clients.List(ctx, req, c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one profile if the requester may see it.
func (h *ClientHandler) Get(c echo.Context) error {
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

	p, err := h.Clients.Get(ctx, req, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Me returns the requester's own profile.
func (h *ClientHandler) Me(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	p, err := h.Clients.GetOwn(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Create attaches a profile to an existing user account. user_id
// defaults to the requester. A user with a profile already gets a 409.
func (h *ClientHandler) Create(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createProfileReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if body.UserID == 0 {
		body.UserID = req.ID
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	p, err := h.Clients.CreateProfile(ctx, req, body.UserID, service.ClientProfileInput{
		CompanyName:        body.CompanyName,
		RegistrationNumber: body.RegistrationNumber,
		TaxID:              body.TaxID,
		Description:        body.Description,
		Phone:              body.Phone,
		Address:            body.Address,
		City:               body.City,
		Country:            body.Country,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Approve moves a pending profile to approved.
func (h *ClientHandler) Approve(c echo.Context) error {
	return h.transition(c, "approve")
}

// Reject moves a pending profile to rejected; a reason is required.
func (h *ClientHandler) Reject(c echo.Context) error {
	return h.transition(c, "reject")
}

// Suspend puts a profile on hold.
func (h *ClientHandler) Suspend(c echo.Context) error {
	return h.transition(c, "suspend")
}

// Activate brings an approved or suspended profile into active use.
func (h *ClientHandler) Activate(c echo.Context) error {
	return h.transition(c, "activate")
}

func (h *ClientHandler) transition(c echo.Context, action string) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body reasonReq
	_ = c.Bind(&body) // reason is optional for suspend, absent for approve/activate

	ctx, cancel := opCtx(c)
	defer cancel()

	var p any
	switch action {
	case "approve":
		p, err = h.Clients.Approve(ctx, req, id)
	case "reject":
		p, err = h.Clients.Reject(ctx, req, id, body.Reason)
	case "suspend":
		p, err = h.Clients.Suspend(ctx, req, id, body.Reason)
	case "activate":
		p, err = h.Clients.Activate(ctx, req, id)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
