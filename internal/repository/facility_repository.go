// This file defines repository methods for facilities. One `facilities`
// table serves every kind (gaming, cricket, padel, snooker,
// table_tennis, futsal_turf); ownership is the client_id column and is
// enforced in the handlers through the authz package, never re-derived
// here.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/facility-booking/internal/model"
)

// FacilityRepo encapsulates all database queries related to facilities.
type FacilityRepo struct{ db *sql.DB }

func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{db: db} }

const facilityCols = "id, client_id, location_id, kind, name, description, hourly_rate_cents, created_at, updated_at"

// Create inserts a facility and populates its ID and timestamps.
func (r *FacilityRepo) Create(ctx context.Context, f *model.Facility) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO facilities (client_id, location_id, kind, name, description, hourly_rate_cents) VALUES (?,?,?,?,?,?)",
		f.ClientID, f.LocationID, f.Kind, f.Name, f.Description, f.HourlyRateCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	got, err := r.GetByID(ctx, f.ID)
	if err != nil {
		return err
	}
	*f = *got
	return nil
}

// GetByID fetches a facility regardless of owner; the caller applies the
// access policy.
func (r *FacilityRepo) GetByID(ctx context.Context, id uint64) (*model.Facility, error) {
	var f model.Facility
	err := r.db.QueryRowContext(ctx,
		"SELECT "+facilityCols+" FROM facilities WHERE id=?", id).Scan(scanFacilityDest(&f)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// List returns facilities filtered by tenant domain and/or kind. Zero
// clientID and empty kind mean "no filter" respectively.
func (r *FacilityRepo) List(ctx context.Context, clientID uint64, kind string) ([]*model.Facility, error) {
	q := "SELECT " + facilityCols + " FROM facilities WHERE 1=1"
	args := []any{}
	if clientID != 0 {
		q += " AND client_id=?"
		args = append(args, clientID)
	}
	if kind != "" {
		q += " AND kind=?"
		args = append(args, kind)
	}
	q += " ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Facility
	for rows.Next() {
		var f model.Facility
		if err := rows.Scan(scanFacilityDest(&f)...); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

// Update rewrites mutable facility fields.
func (r *FacilityRepo) Update(ctx context.Context, f *model.Facility) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE facilities SET location_id=?, name=?, description=?, hourly_rate_cents=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		f.LocationID, f.Name, f.Description, f.HourlyRateCents, f.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a facility and its bookings inside one transaction.
func (r *FacilityRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM bookings WHERE facility_id=?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM facilities WHERE id=?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrNotFound
		return err
	}
	return nil
}

func scanFacilityDest(f *model.Facility) []any {
	return []any{&f.ID, &f.ClientID, &f.LocationID, &f.Kind, &f.Name, &f.Description, &f.HourlyRateCents, &f.CreatedAt, &f.UpdatedAt}
}
