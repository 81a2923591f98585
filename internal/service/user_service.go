package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/courtside/facility-booking/internal/authz"
	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/repository"
	"github.com/courtside/facility-booking/internal/utils"
)

// UserService implements the administrative user operations. Every
// operation takes the requester's identity and routes the decision
// through the authz package; the policy is never re-derived here or in
// the handlers.
type UserService struct {
	Users      UserStore
	BcryptCost int
}

func NewUserService(users UserStore, bcryptCost int) *UserService {
	return &UserService{Users: users, BcryptCost: bcryptCost}
}

// List returns users visible to the requester: admins see everyone, a
// client admin sees only their own tenant domain.
func (s *UserService) List(ctx context.Context, req authz.Requester) ([]model.SafeUser, error) {
	users, err := s.Users.List(ctx, authz.VisibleDomain(req))
	if err != nil {
		return nil, err
	}
	out := make([]model.SafeUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Safe())
	}
	return out, nil
}

// Get returns a single user if the requester's domain covers them.
func (s *UserService) Get(ctx context.Context, req authz.Requester, id uint64) (model.SafeUser, error) {
	u, err := s.fetch(ctx, id)
	if err != nil {
		return model.SafeUser{}, err
	}
	if !authz.CanManageUser(req, u.ID, u.ClientID) {
		return model.SafeUser{}, ErrForbidden
	}
	return u.Safe(), nil
}

// CreateInput is the admin-provisioning payload.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Modules  []string
}

// Create provisions a user. A client admin's creations always land in
// their own tenant domain, and a client admin may not hand out admin
// roles.
func (s *UserService) Create(ctx context.Context, req authz.Requester, in CreateInput) (model.SafeUser, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return model.SafeUser{}, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return model.SafeUser{}, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}
	if !authz.CanAssignRole(req.Role, role) {
		return model.SafeUser{}, ErrForbidden
	}

	var clientID *uint64
	if req.Role == model.RoleClient {
		id := req.ID
		clientID = &id
	}

	hash, err := utils.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return model.SafeUser{}, err
	}
	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		ClientID:     clientID,
		Modules:      in.Modules,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.SafeUser{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return model.SafeUser{}, err
	}
	return u.Safe(), nil
}

// UpdateRole changes the target's role, and optionally the modules
// override in the same call. A client admin can only touch users in
// their domain and can never assign super_admin or admin.
func (s *UserService) UpdateRole(ctx context.Context, req authz.Requester, id uint64, role string, modules []string, modulesSet bool) (model.SafeUser, error) {
	u, err := s.fetch(ctx, id)
	if err != nil {
		return model.SafeUser{}, err
	}
	if !authz.CanManageUser(req, u.ID, u.ClientID) {
		return model.SafeUser{}, ErrForbidden
	}
	if role != "" {
		if !model.ValidRole(role) {
			return model.SafeUser{}, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
		}
		if !authz.CanAssignRole(req.Role, role) {
			return model.SafeUser{}, ErrForbidden
		}
		if err := s.Users.UpdateRole(ctx, id, role); err != nil {
			return model.SafeUser{}, err
		}
	}
	if modulesSet {
		if err := s.Users.UpdateModules(ctx, id, modules); err != nil {
			return model.SafeUser{}, err
		}
	}
	u, err = s.fetch(ctx, id)
	if err != nil {
		return model.SafeUser{}, err
	}
	return u.Safe(), nil
}

// UpdateModules replaces the capability-set override. An empty list
// clears the override.
func (s *UserService) UpdateModules(ctx context.Context, req authz.Requester, id uint64, modules []string) (model.SafeUser, error) {
	u, err := s.fetch(ctx, id)
	if err != nil {
		return model.SafeUser{}, err
	}
	if !authz.CanManageUser(req, u.ID, u.ClientID) {
		return model.SafeUser{}, ErrForbidden
	}
	if err := s.Users.UpdateModules(ctx, id, modules); err != nil {
		return model.SafeUser{}, err
	}
	u.Modules = modules
	return u.Safe(), nil
}

// SetPassword is the administrative password update: no current-password
// check, clears requires_password_change.
func (s *UserService) SetPassword(ctx context.Context, req authz.Requester, id uint64, password string) error {
	if strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	u, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanManageUser(req, u.ID, u.ClientID) {
		return ErrForbidden
	}
	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, id, hash, false)
}

// CanManage exposes the domain check for flows orchestrated outside this
// service (e.g. the admin reset-password endpoint, which delegates the
// reset itself to the session façade).
func (s *UserService) CanManage(ctx context.Context, req authz.Requester, id uint64) error {
	u, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanManageUser(req, u.ID, u.ClientID) {
		return ErrForbidden
	}
	return nil
}

func (s *UserService) fetch(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
