package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtside/facility-booking/internal/authz"
	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/repository"
)

// ClientService manages client business profiles and their approval
// workflow. Profiles are reviewed by platform admins; a client admin can
// only read their own.
type ClientService struct {
	Clients ClientStore
}

func NewClientService(clients ClientStore) *ClientService {
	return &ClientService{Clients: clients}
}

// ClientProfileInput is the business-profile payload.
type ClientProfileInput struct {
	CompanyName        string
	RegistrationNumber string
	TaxID              string
	Description        string
	Phone              string
	Address            string
	City               string
	Country            string
}

// CreateProfile attaches a business profile to a user account. Admins
// may create one for anyone; everyone else only for themselves. A second
// profile for the same user fails with ErrConflict.
func (s *ClientService) CreateProfile(ctx context.Context, req authz.Requester, userID uint64, in ClientProfileInput) (*model.ClientProfile, error) {
	if !authz.IsAdmin(req.Role) && userID != req.ID {
		return nil, ErrForbidden
	}
	if in.CompanyName == "" {
		return nil, fmt.Errorf("%w: company name required", ErrValidation)
	}
	p := newProfile(userID, in)
	if err := s.Clients.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProfileExists) {
			return nil, fmt.Errorf("%w: user already has a client profile", ErrConflict)
		}
		return nil, err
	}
	return p, nil
}

// List returns all profiles, optionally filtered by status. Admin only.
func (s *ClientService) List(ctx context.Context, req authz.Requester, status string) ([]*model.ClientProfile, error) {
	if !authz.IsAdmin(req.Role) {
		return nil, ErrForbidden
	}
	if status != "" && !model.ValidClientStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	return s.Clients.List(ctx, status)
}

// Get returns one profile: admins reach any, the owning user their own.
func (s *ClientService) Get(ctx context.Context, req authz.Requester, id uint64) (*model.ClientProfile, error) {
	p, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(req, p.UserID) {
		return nil, ErrForbidden
	}
	return p, nil
}

// GetOwn returns the requester's own profile.
func (s *ClientService) GetOwn(ctx context.Context, req authz.Requester) (*model.ClientProfile, error) {
	p, err := s.Clients.GetByUserID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Approve moves a pending profile to approved and records the deciding
// admin. Profiles in any other status cannot be approved.
func (s *ClientService) Approve(ctx context.Context, req authz.Requester, id uint64) (*model.ClientProfile, error) {
	return s.decide(ctx, req, id, model.ClientApproved, "", []string{model.ClientPending})
}

// Reject moves a pending profile to rejected with a reason.
func (s *ClientService) Reject(ctx context.Context, req authz.Requester, id uint64, reason string) (*model.ClientProfile, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason required", ErrValidation)
	}
	return s.decide(ctx, req, id, model.ClientRejected, reason, []string{model.ClientPending})
}

// Suspend puts a profile on hold from any status.
func (s *ClientService) Suspend(ctx context.Context, req authz.Requester, id uint64, reason string) (*model.ClientProfile, error) {
	return s.decide(ctx, req, id, model.ClientSuspended, reason, nil)
}

// Activate brings an approved or suspended profile into active use and
// clears any prior reason.
func (s *ClientService) Activate(ctx context.Context, req authz.Requester, id uint64) (*model.ClientProfile, error) {
	return s.decide(ctx, req, id, model.ClientActive, "",
		[]string{model.ClientApproved, model.ClientSuspended})
}

// decide applies one workflow transition. from lists the statuses the
// transition is legal from; nil means any.
func (s *ClientService) decide(ctx context.Context, req authz.Requester, id uint64, to, reason string, from []string) (*model.ClientProfile, error) {
	if !authz.IsAdmin(req.Role) {
		return nil, ErrForbidden
	}
	p, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if from != nil && !statusIn(p.Status, from) {
		return nil, fmt.Errorf("%w: cannot move a %s profile to %s", ErrValidation, p.Status, to)
	}
	adminID := req.ID
	if err := s.Clients.UpdateStatus(ctx, id, to, reason, &adminID); err != nil {
		return nil, err
	}
	return s.fetch(ctx, id)
}

func (s *ClientService) fetch(ctx context.Context, id uint64) (*model.ClientProfile, error) {
	p, err := s.Clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func newProfile(userID uint64, in ClientProfileInput) *model.ClientProfile {
	return &model.ClientProfile{
		UserID:             userID,
		CompanyName:        in.CompanyName,
		RegistrationNumber: in.RegistrationNumber,
		TaxID:              in.TaxID,
		Description:        in.Description,
		Phone:              in.Phone,
		Address:            in.Address,
		City:               in.City,
		Country:            in.Country,
		Status:             model.ClientPending,
	}
}

func statusIn(s string, set []string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
