// Package servicetest provides in-memory implementations of the service
// store interfaces for tests. The token store mirrors the SQL ledger's
// compare-and-swap semantics under a mutex so rotation races behave the
// same way they do against the database.
package servicetest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/courtside/facility-booking/internal/model"
	"github.com/courtside/facility-booking/internal/repository"
)

// UserStore is a map-backed service.UserStore.
type UserStore struct {
	mu     sync.Mutex
	users  map[uint64]*model.User
	nextID uint64
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uint64]*model.User)}
}

func (s *UserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, e := range s.users {
		if e.Email == email {
			return repository.ErrEmailExists
		}
	}
	s.nextID++
	u.ID = s.nextID
	u.Email = email
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) List(_ context.Context, clientID uint64) ([]*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.User
	for id := uint64(1); id <= s.nextID; id++ {
		u, ok := s.users[id]
		if !ok {
			continue
		}
		if clientID != 0 && (u.ClientID == nil || *u.ClientID != clientID) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (s *UserStore) UpdatePassword(_ context.Context, id uint64, hash string, requiresChange bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	u.RequiresPasswordChange = requiresChange
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *UserStore) UpdateRole(_ context.Context, id uint64, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

func (s *UserStore) UpdateModules(_ context.Context, id uint64, modules []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Modules = modules
	return nil
}

func (s *UserStore) UpdateClientID(_ context.Context, id uint64, clientID *uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ClientID = clientID
	return nil
}

// ClientStore is a map-backed service.ClientStore with the same
// one-profile-per-user uniqueness the SQL table enforces.
type ClientStore struct {
	mu       sync.Mutex
	profiles map[uint64]*model.ClientProfile
	nextID   uint64
}

func NewClientStore() *ClientStore {
	return &ClientStore{profiles: make(map[uint64]*model.ClientProfile)}
}

func (s *ClientStore) Create(_ context.Context, p *model.ClientProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.profiles {
		if e.UserID == p.UserID {
			return repository.ErrProfileExists
		}
	}
	s.nextID++
	p.ID = s.nextID
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.profiles[p.ID] = &cp
	return nil
}

func (s *ClientStore) GetByID(_ context.Context, id uint64) (*model.ClientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *ClientStore) GetByUserID(_ context.Context, userID uint64) (*model.ClientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *ClientStore) List(_ context.Context, status string) ([]*model.ClientProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.ClientProfile
	for id := uint64(1); id <= s.nextID; id++ {
		p, ok := s.profiles[id]
		if !ok {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *ClientStore) UpdateStatus(_ context.Context, id uint64, status, reason string, approvedBy *uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	p.RejectionReason = reason
	p.ApprovedBy = approvedBy
	if status == model.ClientApproved {
		now := time.Now().UTC()
		p.ApprovedAt = &now
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// TokenStore is a map-backed service.TokenStore keyed by token hash.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]*model.RefreshToken
	nextID uint64
}

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]*model.RefreshToken)}
}

func (s *TokenStore) Store(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.tokens[tokenHash] = &model.RefreshToken{
		ID:        s.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: exp,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *TokenStore) Get(_ context.Context, tokenHash string) (*model.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenHash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// Rotate applies the same conditioned update the SQL ledger does: the
// swap only happens when the old hash is still present and not revoked.
func (s *TokenStore) Rotate(_ context.Context, oldHash, newHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[oldHash]
	if !ok || t.RevokedAt != nil {
		return repository.ErrTokenRotated
	}
	delete(s.tokens, oldHash)
	now := time.Now().UTC()
	t.TokenHash = newHash
	t.ExpiresAt = exp
	t.LastUsedAt = &now
	s.tokens[newHash] = t
	return nil
}

func (s *TokenStore) Revoke(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenHash]
	if !ok || t.RevokedAt != nil {
		return nil
	}
	now := time.Now().UTC()
	t.RevokedAt = &now
	return nil
}

func (s *TokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for _, t := range s.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

// Count reports live rows, letting tests assert that rotation never
// duplicates a session lineage.
func (s *TokenStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// ExpireAll backdates every token, for expiry tests.
func (s *TokenStore) ExpireAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		t.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	}
}
