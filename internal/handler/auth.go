package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/service"
)

// AuthHandler exposes the session façade over HTTP.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}
type changePasswordReq struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type tokenPairResp struct {
	AccessToken            string    `json:"access_token"`
	AccessExpires          time.Time `json:"access_expires"`
	RefreshToken           string    `json:"refresh_token"`
	RefreshExpires         time.Time `json:"refresh_expires"`
	RequiresPasswordChange bool      `json:"requires_password_change"`
}

func toPairResp(p *service.TokenPair) tokenPairResp {
	return tokenPairResp{
		AccessToken:            p.Access.Token,
		AccessExpires:          p.Access.Exp,
		RefreshToken:           p.Refresh.Raw,
		RefreshExpires:         p.Refresh.Exp,
		RequiresPasswordChange: p.User.RequiresPasswordChange,
	}
}

// Register creates a user account. The response never contains the
// password hash.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	u, err := h.Auth.Register(ctx, service.RegisterInput{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

type registerClientReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	CompanyName        string `json:"company_name"`
	RegistrationNumber string `json:"registration_number"`
	TaxID              string `json:"tax_id"`
	Description        string `json:"description"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	City               string `json:"city"`
	Country            string `json:"country"`
}

// RegisterClient creates a client admin account with its business
// profile in one call. The role is always client, whatever the caller
// sends; the profile starts pending review.
func (h *AuthHandler) RegisterClient(c echo.Context) error {
	var req registerClientReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	res, err := h.Auth.RegisterClient(ctx,
		service.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password},
		service.ClientProfileInput{
			CompanyName:        req.CompanyName,
			RegistrationNumber: req.RegistrationNumber,
			TaxID:              req.TaxID,
			Description:        req.Description,
			Phone:              req.Phone,
			Address:            req.Address,
			City:               req.City,
			Country:            req.Country,
		})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Login verifies credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toPairResp(pair))
}

// Refresh exchanges a refresh token for a new pair, rotating the stored
// token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toPairResp(pair))
}

// Logout revokes the supplied refresh token. The endpoint always
// reports success: an absent or unknown token is not an error the
// caller can act on.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req) // empty body is fine

	ctx, cancel := opCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, req.RefreshToken); err != nil {
		c.Logger().Warnf("logout: revoke failed: %v", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// LogoutAll revokes every refresh token the authenticated user holds,
// ending all of their sessions at once.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	if err := h.Auth.LogoutAll(ctx, req.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// Profile returns the current user, re-read from the store.
func (h *AuthHandler) Profile(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	u, err := h.Auth.Profile(ctx, req.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// ChangePassword is the self-service password change; it requires the
// current password to verify.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	req, err := requester(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body changePasswordReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := opCtx(c)
	defer cancel()

	if err := h.Auth.ChangePassword(ctx, req.ID, body.CurrentPassword, body.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
