package handler

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/middleware"
	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/service"
	"github.com/courtside/facility-booking/internal/service/servicetest"
	"github.com/courtside/facility-booking/internal/utils"
)

type clientEnv struct {
	e     *echo.Echo
	token map[string]string
}

// newClientEnv wires the client-profile routes the way the router does:
// /clients/me for any authenticated user, the rest behind the admin
// role gate.
func newClientEnv(t *testing.T) *clientEnv {
	t.Helper()
	svc := service.NewClientService(servicetest.NewClientStore())
	h := NewClientHandler(svc)

	e := echo.New()
	v1 := e.Group("/v1", middleware.JWTAuth(testSecret))
	v1.GET("/clients/me", h.Me)
	g := v1.Group("/clients", middleware.RequireRole(model.RoleAdmin))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	g.POST("/:id/suspend", h.Suspend)
	g.POST("/:id/activate", h.Activate)

	env := &clientEnv{e: e, token: map[string]string{}}
	for key, id := range map[string]uint64{"admin": 1, "client": 7} {
		role := model.RoleClient
		if key == "admin" {
			role = model.RoleAdmin
		}
		at, err := utils.NewAccessToken(testSecret, id, key+"@x.com", role, 15)
		if err != nil {
			t.Fatalf("token for %s: %v", key, err)
		}
		env.token[key] = at.Token
	}
	return env
}

func TestClientProfileRoutes(t *testing.T) {
	env := newClientEnv(t)

	// The admin attaches a profile to user 7.
	rec := doJSON(env.e, http.MethodPost, "/v1/clients",
		`{"user_id":7,"company_name":"Courtside Sports"}`, env.token["admin"])
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	id := decode(t, rec)["id"].(float64)

	// A second profile for the same user is a conflict.
	rec = doJSON(env.e, http.MethodPost, "/v1/clients",
		`{"user_id":7,"company_name":"Again"}`, env.token["admin"])
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate profile status = %d, want 409; body %s", rec.Code, rec.Body.String())
	}

	// The owner reads it through /clients/me without the admin gate.
	rec = doJSON(env.e, http.MethodGet, "/v1/clients/me", "", env.token["client"])
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["status"]; got != "pending" {
		t.Fatalf("me status field = %v, want pending", got)
	}

	// Workflow endpoints are admin-only.
	path := "/v1/clients/" + itoa(uint64(id))
	rec = doJSON(env.e, http.MethodPost, path+"/approve", "", env.token["client"])
	if rec.Code != http.StatusForbidden {
		t.Fatalf("client approve status = %d, want 403", rec.Code)
	}

	rec = doJSON(env.e, http.MethodPost, path+"/approve", "", env.token["admin"])
	if rec.Code != http.StatusOK {
		t.Fatalf("approve status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["status"]; got != "approved" {
		t.Fatalf("approved profile status = %v", got)
	}

	// Rejecting an approved profile is an invalid transition.
	rec = doJSON(env.e, http.MethodPost, path+"/reject",
		`{"reason":"late"}`, env.token["admin"])
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("reject approved status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(env.e, http.MethodPost, path+"/activate", "", env.token["admin"])
	if rec.Code != http.StatusOK {
		t.Fatalf("activate status = %d, body %s", rec.Code, rec.Body.String())
	}

	// Listing by status is admin-only and filters.
	rec = doJSON(env.e, http.MethodGet, "/v1/clients?status=active", "", env.token["admin"])
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(env.e, http.MethodGet, "/v1/clients", "", env.token["client"])
	if rec.Code != http.StatusForbidden {
		t.Fatalf("client list status = %d, want 403", rec.Code)
	}
}
