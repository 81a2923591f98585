package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/courtside/facility-booking/internal/model"
)

// UserRepo persists user records in the `users` table. Passwords arrive
// already hashed; hashing policy lives in the service layer.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, name, email, password_hash, role, client_id, modules, requires_password_change, created_at, updated_at"

// Create inserts a user and populates its ID. The unique index on email
// is the authority on duplicates; MySQL error 1062 maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, client_id, modules, requires_password_change) VALUES (?,?,?,?,?,?,?)",
		u.Name, email, u.PasswordHash, u.Role, u.ClientID, joinModules(u.Modules), u.RequiresPasswordChange)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	u.Email = email
	return nil
}

// GetByEmail fetches a user by normalized email. Returns ErrNotFound
// when no row matches.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id. Returns ErrNotFound when no row matches.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns users visible from the given tenant domain. clientID 0
// means unscoped (platform admins); otherwise only users whose client_id
// equals clientID are returned.
func (r *UserRepo) List(ctx context.Context, clientID uint64) ([]*model.User, error) {
	q := "SELECT " + userCols + " FROM users ORDER BY id"
	args := []any{}
	if clientID != 0 {
		q = "SELECT " + userCols + " FROM users WHERE client_id=? ORDER BY id"
		args = append(args, clientID)
	}
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdatePassword replaces the password hash and sets the
// requires_password_change flag in the same statement so the two can
// never drift apart.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string, requiresChange bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, requires_password_change=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		hash, requiresChange, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRole sets a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, id uint64, role string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", role, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateModules replaces the capability-set override. An empty slice
// clears the override so visibility falls back to the role.
func (r *UserRepo) UpdateModules(ctx context.Context, id uint64, modules []string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET modules=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", joinModules(modules), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateClientID re-homes a user into a tenant domain (nil detaches).
func (r *UserRepo) UpdateClientID(ctx context.Context, id uint64, clientID *uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET client_id=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", clientID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (*model.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface{ Scan(dest ...any) error }

func scanUser(s scanner) (*model.User, error) {
	var (
		u        model.User
		clientID sql.NullInt64
		modules  sql.NullString
	)
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&clientID, &modules, &u.RequiresPasswordChange, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if clientID.Valid {
		v := uint64(clientID.Int64)
		u.ClientID = &v
	}
	u.Modules = splitModules(modules)
	return &u, nil
}

// Modules are stored as a comma-separated string; null means no override.
func joinModules(mods []string) sql.NullString {
	if len(mods) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.Join(mods, ","), Valid: true}
}

func splitModules(ns sql.NullString) []string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	return strings.Split(ns.String, ",")
}
