package handler

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/courtside/facility-booking/internal/middleware"
	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/repository"
	"github.com/courtside/facility-booking/internal/utils"
)

// fakeFacilityStore is a map-backed FacilityStore for handler tests.
type fakeFacilityStore struct {
	mu         sync.Mutex
	facilities map[uint64]*model.Facility
	nextID     uint64
}

func newFakeFacilityStore() *fakeFacilityStore {
	return &fakeFacilityStore{facilities: make(map[uint64]*model.Facility)}
}

func (s *fakeFacilityStore) Create(_ context.Context, f *model.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	f.ID = s.nextID
	cp := *f
	s.facilities[f.ID] = &cp
	return nil
}

func (s *fakeFacilityStore) GetByID(_ context.Context, id uint64) (*model.Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facilities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (s *fakeFacilityStore) List(_ context.Context, clientID uint64, kind string) ([]*model.Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Facility
	for _, f := range s.facilities {
		if clientID != 0 && f.ClientID != clientID {
			continue
		}
		if kind != "" && f.Kind != kind {
			continue
		}
		cp := *f
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeFacilityStore) Update(_ context.Context, f *model.Facility) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.facilities[f.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *f
	s.facilities[f.ID] = &cp
	return nil
}

func (s *fakeFacilityStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.facilities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.facilities, id)
	return nil
}

// fakeLocationStore is a map-backed LocationStore for handler tests.
type fakeLocationStore struct {
	mu        sync.Mutex
	locations map[uint64]*model.Location
	nextID    uint64
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{locations: make(map[uint64]*model.Location)}
}

func (s *fakeLocationStore) Create(_ context.Context, l *model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l.ID = s.nextID
	cp := *l
	s.locations[l.ID] = &cp
	return nil
}

func (s *fakeLocationStore) GetByID(_ context.Context, id uint64) (*model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (s *fakeLocationStore) ListByClient(_ context.Context, clientID uint64) ([]*model.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Location
	for _, l := range s.locations {
		if clientID != 0 && l.ClientID != clientID {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeLocationStore) FindOrCreateByAddress(ctx context.Context, l *model.Location) (*model.Location, error) {
	s.mu.Lock()
	for _, have := range s.locations {
		if have.ClientID == l.ClientID && have.Address == l.Address && have.City == l.City {
			cp := *have
			s.mu.Unlock()
			return &cp, nil
		}
	}
	s.mu.Unlock()
	if err := s.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *fakeLocationStore) Update(_ context.Context, l *model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[l.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *l
	s.locations[l.ID] = &cp
	return nil
}

func (s *fakeLocationStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.locations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.locations, id)
	return nil
}

type facilityEnv struct {
	e          *echo.Echo
	facilities *fakeFacilityStore
	locations  *fakeLocationStore
	token      map[string]string
}

// newFacilityEnv wires the facility routes against in-memory stores and
// mints tokens for an admin and two independent client admins.
func newFacilityEnv(t *testing.T) *facilityEnv {
	t.Helper()
	facilities := newFakeFacilityStore()
	locations := newFakeLocationStore()
	h := NewFacilityHandler(facilities, locations)

	e := echo.New()
	g := e.Group("/v1",
		middleware.JWTAuth(testSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleClient))
	g.POST("/facilities", h.Create)
	g.GET("/facilities/:id", h.Get)
	g.PATCH("/facilities/:id", h.Update)
	g.DELETE("/facilities/:id", h.Delete)

	env := &facilityEnv{e: e, facilities: facilities, locations: locations, token: map[string]string{}}
	for key, id := range map[string]uint64{"admin": 1, "client": 7, "rival": 8} {
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

func (env *facilityEnv) seedLocation(t *testing.T, clientID uint64, name string) uint64 {
	t.Helper()
	l := &model.Location{ClientID: clientID, Name: name, Address: name + " Rd", City: "Lahore", Country: "PK"}
	if err := env.locations.Create(context.Background(), l); err != nil {
		t.Fatalf("seed location: %v", err)
	}
	return l.ID
}

func (env *facilityEnv) seedFacility(t *testing.T, clientID uint64, locationID *uint64) *model.Facility {
	t.Helper()
	f := &model.Facility{
		ClientID:        clientID,
		LocationID:      locationID,
		Kind:            model.KindPadel,
		Name:            "Center Court",
		Description:     "covered court",
		HourlyRateCents: 2500,
	}
	if err := env.facilities.Create(context.Background(), f); err != nil {
		t.Fatalf("seed facility: %v", err)
	}
	return f
}

func TestFacilityCreateRejectsForeignLocation(t *testing.T) {
	env := newFacilityEnv(t)
	own := env.seedLocation(t, 7, "Own")
	foreign := env.seedLocation(t, 8, "Foreign")

	rec := doJSON(env.e, http.MethodPost, "/v1/facilities",
		`{"kind":"padel","name":"Court A","location_id":`+itoa(foreign)+`}`, env.token["client"])
	if rec.Code != http.StatusForbidden {
		t.Fatalf("link to another tenant's location: status = %d, want 403; body %s", rec.Code, rec.Body.String())
	}
	if n := len(env.facilities.facilities); n != 0 {
		t.Fatalf("facility stored anyway: %d records", n)
	}

	rec = doJSON(env.e, http.MethodPost, "/v1/facilities",
		`{"kind":"padel","name":"Court A","location_id":`+itoa(own)+`}`, env.token["client"])
	if rec.Code != http.StatusCreated {
		t.Fatalf("link to own location: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestFacilityCreateOnBehalfChecksOwnersLocation(t *testing.T) {
	env := newFacilityEnv(t)
	rivalLoc := env.seedLocation(t, 8, "Rival")

	// The admin creates for client 7, so client 8's location is off
	// limits even though the admin can read it.
	rec := doJSON(env.e, http.MethodPost, "/v1/facilities",
		`{"kind":"cricket","name":"Net 1","client_id":7,"location_id":`+itoa(rivalLoc)+`}`, env.token["admin"])
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admin cross-tenant link: status = %d, want 403; body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(env.e, http.MethodPost, "/v1/facilities",
		`{"kind":"cricket","name":"Net 1","client_id":8,"location_id":`+itoa(rivalLoc)+`}`, env.token["admin"])
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin matching-tenant link: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestFacilityCreateUnknownLocation(t *testing.T) {
	env := newFacilityEnv(t)
	rec := doJSON(env.e, http.MethodPost, "/v1/facilities",
		`{"kind":"padel","name":"Court A","location_id":424242}`, env.token["client"])
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown location: status = %d, want 404; body %s", rec.Code, rec.Body.String())
	}
}

func TestFacilityUpdateRejectsForeignLocation(t *testing.T) {
	env := newFacilityEnv(t)
	own := env.seedLocation(t, 7, "Own")
	foreign := env.seedLocation(t, 8, "Foreign")
	f := env.seedFacility(t, 7, nil)

	rec := doJSON(env.e, http.MethodPatch, "/v1/facilities/"+itoa(f.ID),
		`{"location_id":`+itoa(foreign)+`}`, env.token["client"])
	if rec.Code != http.StatusForbidden {
		t.Fatalf("relink to another tenant's location: status = %d, want 403; body %s", rec.Code, rec.Body.String())
	}
	got, err := env.facilities.GetByID(context.Background(), f.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LocationID != nil {
		t.Fatalf("facility relinked anyway: location %d", *got.LocationID)
	}

	rec = doJSON(env.e, http.MethodPatch, "/v1/facilities/"+itoa(f.ID),
		`{"location_id":`+itoa(own)+`}`, env.token["client"])
	if rec.Code != http.StatusOK {
		t.Fatalf("relink to own location: status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestFacilityUpdateZeroValues(t *testing.T) {
	env := newFacilityEnv(t)
	f := env.seedFacility(t, 7, nil)

	// Explicit zero values must stick: an empty description clears it
	// and a zero rate makes the facility free.
	rec := doJSON(env.e, http.MethodPatch, "/v1/facilities/"+itoa(f.ID),
		`{"description":"","hourly_rate_cents":0}`, env.token["client"])
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got, err := env.facilities.GetByID(context.Background(), f.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Description != "" || got.HourlyRateCents != 0 {
		t.Fatalf("zero values dropped: desc=%q rate=%d", got.Description, got.HourlyRateCents)
	}
	if got.Name != "Center Court" {
		t.Fatalf("absent field overwritten: name=%q", got.Name)
	}

	// Absent fields stay put on a later patch.
	rec = doJSON(env.e, http.MethodPatch, "/v1/facilities/"+itoa(f.ID),
		`{"name":"Court One"}`, env.token["client"])
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	got, _ = env.facilities.GetByID(context.Background(), f.ID)
	if got.Name != "Court One" || got.Description != "" || got.HourlyRateCents != 0 {
		t.Fatalf("after rename: %+v", got)
	}
}

func TestFacilityUpdateRejectsEmptyName(t *testing.T) {
	env := newFacilityEnv(t)
	f := env.seedFacility(t, 7, nil)

	rec := doJSON(env.e, http.MethodPatch, "/v1/facilities/"+itoa(f.ID),
		`{"name":""}`, env.token["client"])
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty name: status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestFacilityUpdateForeignFacilityForbidden(t *testing.T) {
	env := newFacilityEnv(t)
	f := env.seedFacility(t, 7, nil)

	rec := doJSON(env.e, http.MethodPatch, "/v1/facilities/"+itoa(f.ID),
		`{"name":"Hijacked"}`, env.token["rival"])
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign facility update: status = %d, want 403", rec.Code)
	}
}
