package handler // handler wires HTTP requests into the service layer

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/authz"
	"github.com/courtside/facility-booking/internal/repository"
	"github.com/courtside/facility-booking/internal/service"
)

// reqTimeout bounds every database-touching request.
const reqTimeout = 5 * time.Second

// opCtx derives a bounded context from the incoming request.
func opCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), reqTimeout)
}

// requester extracts the verified identity that JWTAuth stored in the
// context.
func requester(c echo.Context) (authz.Requester, error) {
	id, ok := c.Get("user_id").(uint64)
	if !ok || id == 0 {
		return authz.Requester{}, errors.New("missing user identity in context")
	}
	role, _ := c.Get("role").(string)
	return authz.Requester{ID: id, Role: role}, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// respondError maps the service error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is an opaque internal error; details
// stay in the logs, not in the response.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
