package handler

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/middleware"
	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/service"
	"github.com/courtside/facility-booking/internal/service/servicetest"
	"github.com/courtside/facility-booking/internal/utils"
)

func itoa(id uint64) string { return strconv.FormatUint(id, 10) }

type adminEnv struct {
	e     *echo.Echo
	users *servicetest.UserStore
	ids   map[string]uint64
	token map[string]string
}

// newAdminEnv wires the user-admin routes the way the router does,
// including the role gate, and seeds an admin, a client admin with one
// member, and a second tenant's member.
func newAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	users := servicetest.NewUserStore()
	tokens := servicetest.NewTokenStore()
	auth := service.NewAuthService(users, tokens, servicetest.NewClientStore(), testSecret, 15, 7, 4)
	usvc := service.NewUserService(users, 4)
	h := NewUserAdminHandler(usvc, auth)

	e := echo.New()
	g := e.Group("/v1/users",
		middleware.JWTAuth(testSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleClient))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id/role", h.UpdateRole)
	g.PATCH("/:id/modules", h.UpdateModules)
	g.PATCH("/:id/password", h.SetPassword)
	g.POST("/:id/reset-password", h.ResetPassword)

	env := &adminEnv{e: e, users: users, ids: map[string]uint64{}, token: map[string]string{}}
	seed := func(key, email, role string, clientID *uint64) uint64 {
		u := &model.User{Name: key, Email: email, PasswordHash: "x", Role: role, ClientID: clientID}
		if err := users.Create(context.Background(), u); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
		at, err := utils.NewAccessToken(testSecret, u.ID, u.Email, u.Role, 15)
		if err != nil {
			t.Fatalf("token for %s: %v", key, err)
		}
		env.ids[key] = u.ID
		env.token[key] = at.Token
		return u.ID
	}
	seed("admin", "admin@x.com", model.RoleAdmin, nil)
	c1 := seed("client", "client@x.com", model.RoleClient, nil)
	seed("member", "member@x.com", model.RoleUser, &c1)
	c2 := seed("other", "other@x.com", model.RoleClient, nil)
	seed("foreign", "foreign@x.com", model.RoleUser, &c2)
	return env
}

func TestUserRoutesRoleGate(t *testing.T) {
	env := newAdminEnv(t)

	// A plain user never reaches the group, whoever they are.
	memberTok, err := utils.NewAccessToken(testSecret, env.ids["member"], "member@x.com", model.RoleUser, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	rec := doJSON(env.e, http.MethodGet, "/v1/users", "", memberTok.Token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user role status = %d, want 403", rec.Code)
	}

	if rec := doJSON(env.e, http.MethodGet, "/v1/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec.Code)
	}
	if rec := doJSON(env.e, http.MethodGet, "/v1/users", "", env.token["admin"]); rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", rec.Code)
	}
	if rec := doJSON(env.e, http.MethodGet, "/v1/users", "", env.token["client"]); rec.Code != http.StatusOK {
		t.Fatalf("client status = %d, want 200", rec.Code)
	}
}

func TestUserCreateEndpoint(t *testing.T) {
	env := newAdminEnv(t)

	rec := doJSON(env.e, http.MethodPost, "/v1/users",
		`{"name":"New","email":"new@x.com","password":"secret1"}`, env.token["client"])
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if cid, _ := body["client_id"].(float64); uint64(cid) != env.ids["client"] {
		t.Fatalf("client_id = %v, want %d", body["client_id"], env.ids["client"])
	}

	rec = doJSON(env.e, http.MethodPost, "/v1/users",
		`{"email":"esc@x.com","password":"secret1","role":"admin"}`, env.token["client"])
	if rec.Code != http.StatusForbidden {
		t.Fatalf("client creating admin: status = %d, want 403", rec.Code)
	}
}

func TestUserUpdateRoleEndpoint(t *testing.T) {
	env := newAdminEnv(t)
	target := env.ids["member"]

	rec := doJSON(env.e, http.MethodPatch, "/v1/users/"+itoa(target)+"/role",
		`{"role":"client","modules":["bookings"]}`, env.token["admin"])
	if rec.Code != http.StatusOK {
		t.Fatalf("update role status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["role"] != "client" {
		t.Fatalf("role = %v, want client", body["role"])
	}

	// Cross-tenant mutation by a client admin is forbidden.
	rec = doJSON(env.e, http.MethodPatch, "/v1/users/"+itoa(env.ids["foreign"])+"/role",
		`{"role":"user"}`, env.token["client"])
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-tenant status = %d, want 403", rec.Code)
	}

	rec = doJSON(env.e, http.MethodPatch, "/v1/users/abc/role", `{"role":"user"}`, env.token["admin"])
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d, want 400", rec.Code)
	}
}

func TestUserResetPasswordEndpoint(t *testing.T) {
	env := newAdminEnv(t)
	target := env.ids["member"]

	rec := doJSON(env.e, http.MethodPost, "/v1/users/"+itoa(target)+"/reset-password", "", env.token["client"])
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	temp, _ := body["temporary_password"].(string)
	if body["email"] != "member@x.com" || temp == "" {
		t.Fatalf("reset body = %v", body)
	}
	u, err := env.users.GetByID(context.Background(), target)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !u.RequiresPasswordChange {
		t.Fatal("reset did not force a password change")
	}
	if !utils.VerifyPassword(u.PasswordHash, temp) {
		t.Fatal("stored hash does not match the returned temporary password")
	}

	rec = doJSON(env.e, http.MethodPost, "/v1/users/"+itoa(env.ids["foreign"])+"/reset-password", "", env.token["client"])
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-tenant reset status = %d, want 403", rec.Code)
	}
	rec = doJSON(env.e, http.MethodPost, "/v1/users/99999/reset-password", "", env.token["admin"])
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing user reset status = %d, want 404", rec.Code)
	}
}
