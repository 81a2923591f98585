package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/repository"
	"github.com/courtside/facility-booking/internal/utils"
)

// AuthService is the session façade: it orchestrates the credential
// store, the password hasher, the token issuer and the refresh-token
// ledger into the login / refresh / logout / password flows.
type AuthService struct {
	Users   UserStore
	Tokens  TokenStore
	Clients ClientStore

	Secret         string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

func NewAuthService(users UserStore, tokens TokenStore, clients ClientStore, secret string, accessTTLMin, refreshTTLDays, bcryptCost int) *AuthService {
	return &AuthService{
		Users:          users,
		Tokens:         tokens,
		Clients:        clients,
		Secret:         secret,
		AccessTTLMin:   accessTTLMin,
		RefreshTTLDays: refreshTTLDays,
		BcryptCost:     bcryptCost,
	}
}

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	User    model.SafeUser
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// RegisterInput is the self-registration payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a user with a hashed password. The returned value
// never includes the hash. Duplicate emails fail with ErrConflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.SafeUser, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Email == "" || in.Password == "" {
		return model.SafeUser{}, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	if len(in.Password) < 6 {
		return model.SafeUser{}, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	role := in.Role
	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return model.SafeUser{}, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}

	hash, err := utils.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return model.SafeUser{}, err
	}
	u := &model.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Role: role}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.SafeUser{}, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return model.SafeUser{}, err
	}
	return u.Safe(), nil
}

// RegisterClientResult is what a successful client registration hands
// back: the account plus its pending business profile.
type RegisterClientResult struct {
	User    model.SafeUser       `json:"user"`
	Profile *model.ClientProfile `json:"profile"`
}

// RegisterClient creates a client admin account together with its
// business profile in one flow. The role is forced to client regardless
// of the input, and the profile starts pending review. A user who
// already holds a profile fails with ErrConflict.
func (s *AuthService) RegisterClient(ctx context.Context, user RegisterInput, profile ClientProfileInput) (*RegisterClientResult, error) {
	if profile.CompanyName == "" {
		return nil, fmt.Errorf("%w: company name required", ErrValidation)
	}
	user.Role = model.RoleClient
	u, err := s.Register(ctx, user)
	if err != nil {
		return nil, err
	}
	p := newProfile(u.ID, profile)
	if err := s.Clients.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrProfileExists) {
			return nil, fmt.Errorf("%w: user already has a client profile", ErrConflict)
		}
		return nil, err
	}
	return &RegisterClientResult{User: u, Profile: p}, nil
}

// Login verifies credentials and issues a fresh access/refresh pair. Any
// mismatch, unknown email or wrong password alike, fails with
// ErrUnauthorized; the two cases are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrUnauthorized
	}
	return s.issuePair(ctx, u)
}

// Refresh redeems a refresh token for a new access/refresh pair. The
// owning user is re-read from the store, so a role change applied since
// login takes effect on the next refresh without forcing re-login. The
// rotation itself is a compare-and-swap in the ledger: of two concurrent
// redemptions of the same token exactly one wins, the other sees the
// token already rotated and gets ErrUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrUnauthorized
	}
	oldHash := utils.HashRefreshRaw(raw)

	t, err := s.Tokens.Get(ctx, oldHash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if t.RevokedAt != nil || time.Now().UTC().After(t.ExpiresAt) {
		return nil, ErrUnauthorized
	}
	u, err := s.Users.GetByID(ctx, t.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	next, err := utils.NewRefreshToken(s.RefreshTTLDays)
	if err != nil {
		return nil, err
	}
	if err := s.Tokens.Rotate(ctx, oldHash, utils.HashRefreshRaw(next.Raw), next.Exp); err != nil {
		if errors.Is(err, repository.ErrTokenRotated) {
			return nil, ErrUnauthorized // replay detected
		}
		return nil, err
	}

	access, err := utils.NewAccessToken(s.Secret, u.ID, u.Email, u.Role, s.AccessTTLMin)
	if err != nil {
		return nil, err
	}
	return &TokenPair{User: u.Safe(), Access: access, Refresh: next}, nil
}

// Logout revokes the presented refresh token. A missing, unknown or
// already-revoked token is a silent no-op; logout never fails the
// caller-visible flow.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return s.Tokens.Revoke(ctx, utils.HashRefreshRaw(raw))
}

// LogoutAll revokes every active refresh token the user holds.
func (s *AuthService) LogoutAll(ctx context.Context, userID uint64) error {
	return s.Tokens.RevokeAllForUser(ctx, userID)
}

// ChangePassword is the self-service path: the current password must
// verify before anything mutates. On success the hash is replaced and
// requires_password_change is cleared.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, current, next string) error {
	if len(next) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", ErrValidation)
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthorized
		}
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		return ErrUnauthorized
	}
	hash, err := utils.HashPassword(next, s.BcryptCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, hash, false)
}

// ResetPasswordToRandom is the administrative path: it applies a random
// temporary password and marks the account as requiring a change on next
// login. The plain temporary password is returned for the admin to hand
// over; it is never logged or stored.
func (s *AuthService) ResetPasswordToRandom(ctx context.Context, userID uint64) (email, temporary string, err error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrNotFound
		}
		return "", "", err
	}
	temporary, err = utils.RandomPassword()
	if err != nil {
		return "", "", err
	}
	hash, err := utils.HashPassword(temporary, s.BcryptCost)
	if err != nil {
		return "", "", err
	}
	if err := s.Users.UpdatePassword(ctx, userID, hash, true); err != nil {
		return "", "", err
	}
	return u.Email, temporary, nil
}

// Profile returns the current user record, re-read from the store so
// the response reflects mutations applied after the token was minted.
func (s *AuthService) Profile(ctx context.Context, userID uint64) (model.SafeUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.SafeUser{}, ErrUnauthorized
		}
		return model.SafeUser{}, err
	}
	return u.Safe(), nil
}

// issuePair mints an access token and a brand-new refresh token for a
// freshly authenticated user and records the refresh token in the
// ledger.
func (s *AuthService) issuePair(ctx context.Context, u *model.User) (*TokenPair, error) {
	access, err := utils.NewAccessToken(s.Secret, u.ID, u.Email, u.Role, s.AccessTTLMin)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.NewRefreshToken(s.RefreshTTLDays)
	if err != nil {
		return nil, err
	}
	if err := s.Tokens.Store(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, err
	}
	return &TokenPair{User: u.Safe(), Access: access, Refresh: refresh}, nil
}
