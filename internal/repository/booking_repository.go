// This file defines repository methods for bookings. A booking ties a
// user to a location (and optionally a specific facility) for a time
// window, with a plain status lifecycle.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/facility-booking/internal/model"
)

// BookingRepo encapsulates all database queries related to bookings.
type BookingRepo struct{ db *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = "id, user_id, location_id, facility_id, start_time, end_time, status, created_at, updated_at"

// Create inserts a booking and populates its ID and timestamps.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO bookings (user_id, location_id, facility_id, start_time, end_time, status) VALUES (?,?,?,?,?,?)",
		b.UserID, b.LocationID, b.FacilityID, b.StartTime, b.EndTime, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	got, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *got
	return nil
}

// GetByID fetches a booking regardless of owner.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := r.db.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=?", id).Scan(scanBookingDest(&b)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByUser returns bookings created by one user.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingCols+" FROM bookings WHERE user_id=? ORDER BY id", userID)
}

// ListByClient returns bookings placed against any location owned by the
// given client admin.
func (r *BookingRepo) ListByClient(ctx context.Context, clientID uint64) ([]*model.Booking, error) {
	const q = `SELECT b.id, b.user_id, b.location_id, b.facility_id, b.start_time, b.end_time, b.status, b.created_at, b.updated_at
	           FROM bookings b JOIN locations l ON l.id = b.location_id
	           WHERE l.client_id = ? ORDER BY b.id`
	return r.list(ctx, q, clientID)
}

// ListAll returns every booking; admin-only path.
func (r *BookingRepo) ListAll(ctx context.Context) ([]*model.Booking, error) {
	return r.list(ctx, "SELECT "+bookingCols+" FROM bookings ORDER BY id")
}

// UpdateStatus moves a booking to a new lifecycle status.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(scanBookingDest(&b)...); err != nil {
			return nil, err
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func scanBookingDest(b *model.Booking) []any {
	return []any{&b.ID, &b.UserID, &b.LocationID, &b.FacilityID, &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt}
}
