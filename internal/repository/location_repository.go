// This file defines repository methods for locations. A Location is a
// physical address owned by a client admin; facilities reference it and
// bookings are placed against it.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/facility-booking/internal/model"
)

// LocationRepo encapsulates all database queries related to locations.
type LocationRepo struct{ db *sql.DB }

func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

const locationCols = "id, client_id, name, address, city, state, country, postal_code, phone, created_at, updated_at"

// Create inserts a new location. On success the ID and timestamp fields
// are populated from the stored row.
func (r *LocationRepo) Create(ctx context.Context, l *model.Location) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO locations (client_id, name, address, city, state, country, postal_code, phone) VALUES (?,?,?,?,?,?,?,?)",
		l.ClientID, l.Name, l.Address, l.City, l.State, l.Country, l.PostalCode, l.Phone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	got, err := r.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *got
	return nil
}

// GetByID fetches a location regardless of owner.
func (r *LocationRepo) GetByID(ctx context.Context, id uint64) (*model.Location, error) {
	var l model.Location
	err := r.db.QueryRowContext(ctx,
		"SELECT "+locationCols+" FROM locations WHERE id=?", id).
		Scan(&l.ID, &l.ClientID, &l.Name, &l.Address, &l.City, &l.State, &l.Country, &l.PostalCode, &l.Phone, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// ListByClient returns all locations for one tenant domain; clientID 0
// lists everything.
func (r *LocationRepo) ListByClient(ctx context.Context, clientID uint64) ([]*model.Location, error) {
	q := "SELECT " + locationCols + " FROM locations ORDER BY id"
	args := []any{}
	if clientID != 0 {
		q = "SELECT " + locationCols + " FROM locations WHERE client_id=? ORDER BY id"
		args = append(args, clientID)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.ClientID, &l.Name, &l.Address, &l.City, &l.State, &l.Country, &l.PostalCode, &l.Phone, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// FindOrCreateByAddress returns an existing location matching the
// address fields for this client, creating one when none exists. Used by
// facility registration so repeated registrations at one venue share a
// row.
func (r *LocationRepo) FindOrCreateByAddress(ctx context.Context, l *model.Location) (*model.Location, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM locations WHERE client_id=? AND address=? AND city=? AND country=? LIMIT 1",
		l.ClientID, l.Address, l.City, l.Country).Scan(&id)
	switch {
	case err == nil:
		return r.GetByID(ctx, id)
	case errors.Is(err, sql.ErrNoRows):
		if err := r.Create(ctx, l); err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, err
	}
}

// Update rewrites the mutable fields of a location.
func (r *LocationRepo) Update(ctx context.Context, l *model.Location) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE locations SET name=?, address=?, city=?, state=?, country=?, postal_code=?, phone=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		l.Name, l.Address, l.City, l.State, l.Country, l.PostalCode, l.Phone, l.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a location row.
func (r *LocationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM locations WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
