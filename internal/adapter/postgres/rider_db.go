package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type RiderRepository struct {
	q querier
}

const riderColumns = `id, name, email, phone, license_number, license_expiry, date_of_birth,
	address, emergency_contact, status, current_assignments, total_assignments, rating,
	created_at, updated_at`

func scanRider(row rowScanner) (*domain.Rider, error) {
	var (
		rider            domain.Rider
		address, contact []byte
	)
	err := row.Scan(
		&rider.ID,
		&rider.Name,
		&rider.Email,
		&rider.Phone,
		&rider.LicenseNumber,
		&rider.LicenseExpiry,
		&rider.DateOfBirth,
		&address,
		&contact,
		&rider.Status,
		&rider.CurrentAssignments,
		&rider.TotalAssignments,
		&rider.Rating,
		&rider.CreatedAt,
		&rider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(address) > 0 {
		if err := json.Unmarshal(address, &rider.Address); err != nil {
			return nil, fmt.Errorf("decode address: %w", err)
		}
	}
	if len(contact) > 0 {
		if err := json.Unmarshal(contact, &rider.EmergencyContact); err != nil {
			return nil, fmt.Errorf("decode emergency contact: %w", err)
		}
	}
	return &rider, nil
}

func riderDocuments(rider *domain.Rider) ([]byte, []byte, error) {
	address, err := json.Marshal(rider.Address)
	if err != nil {
		return nil, nil, err
	}
	contact, err := json.Marshal(rider.EmergencyContact)
	if err != nil {
		return nil, nil, err
	}
	return address, contact, nil
}

func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	address, contact, err := riderDocuments(rider)
	if err != nil {
		return err
	}

	query := `INSERT INTO riders (id, name, email, phone, license_number, license_expiry, date_of_birth,
		address, emergency_contact, status, current_assignments, total_assignments, rating, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = r.q.ExecContext(ctx, query,
		rider.ID,
		rider.Name,
		rider.Email,
		rider.Phone,
		rider.LicenseNumber,
		rider.LicenseExpiry,
		rider.DateOfBirth,
		address,
		contact,
		rider.Status,
		rider.CurrentAssignments,
		rider.TotalAssignments,
		rider.Rating,
		rider.CreatedAt,
		rider.UpdatedAt,
	)
	return mapError(err, "rider")
}

func (r *RiderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rider, error) {
	query := `SELECT ` + riderColumns + ` FROM riders WHERE id = $1`
	rider, err := scanRider(r.q.QueryRowContext(ctx, query, id))
	return rider, mapError(err, "rider")
}

func (r *RiderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Rider, error) {
	query := `SELECT ` + riderColumns + ` FROM riders WHERE id = $1 FOR UPDATE`
	rider, err := scanRider(r.q.QueryRowContext(ctx, query, id))
	return rider, mapError(err, "rider")
}

func (r *RiderRepository) Update(ctx context.Context, rider *domain.Rider) error {
	address, contact, err := riderDocuments(rider)
	if err != nil {
		return err
	}

	query := `UPDATE riders
		SET
			name = $1,
			email = $2,
			phone = $3,
			license_number = $4,
			license_expiry = $5,
			date_of_birth = $6,
			address = $7,
			emergency_contact = $8,
			status = $9,
			current_assignments = $10,
			total_assignments = $11,
			rating = $12,
			updated_at = $13
		WHERE id = $14`

	res, err := r.q.ExecContext(ctx, query,
		rider.Name,
		rider.Email,
		rider.Phone,
		rider.LicenseNumber,
		rider.LicenseExpiry,
		rider.DateOfBirth,
		address,
		contact,
		rider.Status,
		rider.CurrentAssignments,
		rider.TotalAssignments,
		rider.Rating,
		rider.UpdatedAt,
		rider.ID,
	)
	if err != nil {
		return mapError(err, "rider")
	}
	return expectOne(res, "rider")
}

func (r *RiderRepository) List(ctx context.Context, filter domain.RiderFilter) ([]*domain.Rider, error) {
	var w where
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	w.search(filter.Search, "name", "email", "phone", "license_number")

	rows, err := r.q.QueryContext(ctx, `SELECT `+riderColumns+` FROM riders`+w.String()+` ORDER BY seq`, w.args...)
	if err != nil {
		return nil, mapError(err, "rider")
	}
	defer rows.Close()

	riders := []*domain.Rider{}
	for rows.Next() {
		rider, err := scanRider(rows)
		if err != nil {
			return nil, err
		}
		riders = append(riders, rider)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return riders, nil
}
