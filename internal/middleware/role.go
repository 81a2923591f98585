package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/model"
)

// RequireRole enforces that the authenticated user holds one of the
// given roles. super_admin always passes regardless of the list; the
// finer role-assignment limits live in the authz package, not here. It
// assumes JWTAuth already stored the role in the context.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			if role != model.RoleSuperAdmin && !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
