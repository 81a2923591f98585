package middleware // reusable HTTP middleware shared by all route groups

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the verified claims into the request context.
// Handlers behind it read the identity via c.Get("user_id"),
// c.Get("email") and c.Get("role"). Validity is purely cryptographic
// plus expiry; there is no server-side session lookup on this path.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.VerifyAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
