// Package router maps HTTP routes onto handlers and attaches the
// middleware each group needs.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/courtside/facility-booking/internal/config"
	"github.com/courtside/facility-booking/internal/handler"
	"github.com/courtside/facility-booking/internal/middleware"
	"github.com/courtside/facility-booking/internal/model"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserAdminHandler
	Clients    *handler.ClientHandler
	Facilities *handler.FacilityHandler
	Locations  *handler.LocationHandler
	Bookings   *handler.BookingHandler
}

// Register wires all routes. The credential endpoints sit behind the
// Redis token bucket; everything under the protected group requires a
// valid bearer token; the /v1/users group is additionally limited to
// administrative roles.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated browse.
	e.GET("/v1/facilities/public", h.Facilities.PublicList)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register, limiter)
	auth.POST("/register-client", h.Auth.RegisterClient, limiter)
	auth.POST("/login", h.Auth.Login, limiter)
	auth.POST("/refresh", h.Auth.Refresh, limiter)
	auth.POST("/logout", h.Auth.Logout)

	// Everything below needs a verified access token.
	v1 := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))

	v1.GET("/auth/profile", h.Auth.Profile)
	v1.POST("/auth/change-password", h.Auth.ChangePassword)
	v1.POST("/auth/logout-all", h.Auth.LogoutAll)

	// User administration: super_admin, admin and client admins only.
	users := v1.Group("/users", middleware.RequireRole(model.RoleAdmin, model.RoleClient))
	users.GET("", h.Users.List)
	users.POST("", h.Users.Create)
	users.GET("/:id", h.Users.Get)
	users.PATCH("/:id/role", h.Users.UpdateRole)
	users.PATCH("/:id/modules", h.Users.UpdateModules)
	users.PATCH("/:id/password", h.Users.SetPassword)
	users.POST("/:id/reset-password", h.Users.ResetPassword)

	// Client business profiles. A client admin reads their own profile;
	// the review workflow belongs to platform admins.
	v1.GET("/clients/me", h.Clients.Me)
	clients := v1.Group("/clients", middleware.RequireRole(model.RoleAdmin))
	clients.GET("", h.Clients.List)
	clients.POST("", h.Clients.Create)
	clients.GET("/:id", h.Clients.Get)
	clients.POST("/:id/approve", h.Clients.Approve)
	clients.POST("/:id/reject", h.Clients.Reject)
	clients.POST("/:id/suspend", h.Clients.Suspend)
	clients.POST("/:id/activate", h.Clients.Activate)

	// Facility and location management: client admins and platform admins.
	manage := v1.Group("", middleware.RequireRole(model.RoleAdmin, model.RoleClient))
	manage.POST("/facilities", h.Facilities.Create)
	manage.GET("/facilities", h.Facilities.List)
	manage.GET("/facilities/:id", h.Facilities.Get)
	manage.PATCH("/facilities/:id", h.Facilities.Update)
	manage.DELETE("/facilities/:id", h.Facilities.Delete)
	manage.POST("/locations", h.Locations.Create)
	manage.GET("/locations", h.Locations.List)
	manage.GET("/locations/:id", h.Locations.Get)
	manage.PATCH("/locations/:id", h.Locations.Update)
	manage.DELETE("/locations/:id", h.Locations.Delete)

	// Bookings: any authenticated role.
	v1.POST("/bookings", h.Bookings.Create)
	v1.GET("/bookings", h.Bookings.List)
	v1.GET("/bookings/:id", h.Bookings.Get)
	v1.PATCH("/bookings/:id/status", h.Bookings.UpdateStatus)
}
