package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/courtside/facility-booking/internal/model"
)

// ClientRepo persists client business profiles.
type ClientRepo struct{ db *sql.DB }

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

const clientCols = "id, user_id, company_name, registration_number, tax_id, description, phone, address, city, country, status, rejection_reason, approved_at, approved_by, created_at, updated_at"

// Create inserts a profile and populates its ID. The unique index on
// user_id is the authority on duplicates; MySQL error 1062 maps to
// ErrProfileExists.
func (r *ClientRepo) Create(ctx context.Context, p *model.ClientProfile) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO clients (user_id, company_name, registration_number, tax_id, description, phone, address, city, country, status) VALUES (?,?,?,?,?,?,?,?,?,?)",
		p.UserID, p.CompanyName, p.RegistrationNumber, p.TaxID, p.Description,
		p.Phone, p.Address, p.City, p.Country, p.Status)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrProfileExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (r *ClientRepo) GetByID(ctx context.Context, id uint64) (*model.ClientProfile, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE id=? LIMIT 1", id))
}

// GetByUserID fetches the profile attached to a user account.
func (r *ClientRepo) GetByUserID(ctx context.Context, userID uint64) (*model.ClientProfile, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		"SELECT "+clientCols+" FROM clients WHERE user_id=? LIMIT 1", userID))
}

// List returns profiles, optionally filtered to one approval status.
func (r *ClientRepo) List(ctx context.Context, status string) ([]*model.ClientProfile, error) {
	q := "SELECT " + clientCols + " FROM clients ORDER BY id"
	args := []any{}
	if status != "" {
		q = "SELECT " + clientCols + " FROM clients WHERE status=? ORDER BY id"
		args = append(args, status)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ClientProfile
	for rows.Next() {
		p, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateStatus moves a profile through the approval workflow. The
// reason and approver columns are rewritten together with the status so
// a decision is always attributable.
func (r *ClientRepo) UpdateStatus(ctx context.Context, id uint64, status, reason string, approvedBy *uint64) error {
	q := "UPDATE clients SET status=?, rejection_reason=?, approved_by=?, updated_at=CURRENT_TIMESTAMP WHERE id=?"
	if status == model.ClientApproved {
		q = "UPDATE clients SET status=?, rejection_reason=?, approved_by=?, approved_at=UTC_TIMESTAMP(), updated_at=CURRENT_TIMESTAMP WHERE id=?"
	}
	res, err := r.db.ExecContext(ctx, q, status, nullIfEmpty(reason), approvedBy, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ClientRepo) scanOne(row *sql.Row) (*model.ClientProfile, error) {
	p, err := scanClient(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanClient(s scanner) (*model.ClientProfile, error) {
	var p model.ClientProfile
	var desc, reason sql.NullString
	var approvedAt sql.NullTime
	var approvedBy sql.NullInt64
	err := s.Scan(&p.ID, &p.UserID, &p.CompanyName, &p.RegistrationNumber,
		&p.TaxID, &desc, &p.Phone, &p.Address, &p.City, &p.Country,
		&p.Status, &reason, &approvedAt, &approvedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Description = desc.String
	p.RejectionReason = reason.String
	if approvedAt.Valid {
		t := approvedAt.Time
		p.ApprovedAt = &t
	}
	if approvedBy.Valid {
		id := uint64(approvedBy.Int64)
		p.ApprovedBy = &id
	}
	return &p, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
