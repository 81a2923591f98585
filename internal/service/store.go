package service

import (
	"context"
	"time"

	"github.com/courtside/facility-booking/internal/model"
)

// UserStore is the credential-store surface the services need. The SQL
// implementation lives in internal/repository; tests substitute an
// in-memory fake.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	List(ctx context.Context, clientID uint64) ([]*model.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string, requiresChange bool) error
	UpdateRole(ctx context.Context, id uint64, role string) error
	UpdateModules(ctx context.Context, id uint64, modules []string) error
	UpdateClientID(ctx context.Context, id uint64, clientID *uint64) error
}

// ClientStore is the client business-profile surface. Create must fail
// with repository.ErrProfileExists when the user already holds a
// profile.
type ClientStore interface {
	Create(ctx context.Context, p *model.ClientProfile) error
	GetByID(ctx context.Context, id uint64) (*model.ClientProfile, error)
	GetByUserID(ctx context.Context, userID uint64) (*model.ClientProfile, error)
	List(ctx context.Context, status string) ([]*model.ClientProfile, error)
	UpdateStatus(ctx context.Context, id uint64, status, reason string, approvedBy *uint64) error
}

// TokenStore is the refresh-token ledger surface. Rotate must be
// atomic: conditioned on the previous token value, failing with
// repository.ErrTokenRotated when the value no longer matches.
type TokenStore interface {
	Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	Get(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Rotate(ctx context.Context, oldHash, newHash string, exp time.Time) error
	Revoke(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}
