package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/courtside/facility-booking/internal/model"
)

// TokenRepo persists refresh tokens. Only the SHA-256 digest of a token
// is ever stored (single `token_hash` column, unique index). Rotation
// mutates the existing row rather than appending a new one, so each row
// is one session lineage.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a refresh token row at login time.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// Get returns the token row for a hash, live or not. Callers decide what
// expiry or revocation means for them. Returns ErrNotFound when the hash
// is unknown.
func (r *TokenRepo) Get(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var (
		t          model.RefreshToken
		revokedAt  sql.NullTime
		lastUsedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, revoked_at, last_used_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &revokedAt, &lastUsedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}
	if lastUsedAt.Valid {
		t.LastUsedAt = &lastUsedAt.Time
	}
	return &t, nil
}

// Rotate replaces the stored hash with a fresh one, renewing expiry and
// stamping last_used_at. The update is conditioned on the previous hash
// and non-revoked state and the affected-row count is checked, which
// makes the rotation a compare-and-swap: when two redemptions race on
// the same token, exactly one UPDATE matches and the loser gets
// ErrTokenRotated. A read-then-write sequence here would reintroduce the
// replay window that rotation exists to close.
func (r *TokenRepo) Rotate(ctx context.Context, oldHash, newHash string, exp time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET token_hash=?, expires_at=?, last_used_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
		newHash, exp, oldHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTokenRotated
	}
	return nil
}

// Revoke marks a token as revoked. Unknown or already-revoked hashes are
// a silent no-op so logout stays idempotent.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes every active token a user holds, logging the
// user out of all sessions across devices.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=UTC_TIMESTAMP() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
