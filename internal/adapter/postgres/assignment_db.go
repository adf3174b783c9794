package postgres

import (
	"context"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type AssignmentRepository struct {
	q querier
}

const assignmentColumns = `id, rider_id, bike_id, tenure_months, monthly_charge, security_deposit,
	late_fee_per_day, total_amount, paid_amount, pending_amount, status, payment_status,
	start_date, end_date, closed_at, notes, created_at, updated_at`

func scanAssignment(row rowScanner) (*domain.Assignment, error) {
	var a domain.Assignment
	err := row.Scan(
		&a.ID,
		&a.RiderID,
		&a.BikeID,
		&a.TenureMonths,
		&a.MonthlyCharge,
		&a.SecurityDeposit,
		&a.LateFeePerDay,
		&a.TotalAmount,
		&a.PaidAmount,
		&a.PendingAmount,
		&a.Status,
		&a.PaymentStatus,
		&a.StartDate,
		&a.EndDate,
		&a.ClosedAt,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create relies on the partial unique index over active rows to reject a
// second active assignment for the same bike.
func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	query := `INSERT INTO assignments (id, rider_id, bike_id, tenure_months, monthly_charge,
		security_deposit, late_fee_per_day, total_amount, paid_amount, pending_amount, status,
		payment_status, start_date, end_date, closed_at, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.q.ExecContext(ctx, query,
		a.ID,
		a.RiderID,
		a.BikeID,
		a.TenureMonths,
		a.MonthlyCharge,
		a.SecurityDeposit,
		a.LateFeePerDay,
		a.TotalAmount,
		a.PaidAmount,
		a.PendingAmount,
		a.Status,
		a.PaymentStatus,
		a.StartDate,
		a.EndDate,
		a.ClosedAt,
		a.Notes,
		a.CreatedAt,
		a.UpdatedAt,
	)
	return mapError(err, "assignment")
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	a, err := scanAssignment(r.q.QueryRowContext(ctx, query, id))
	return a, mapError(err, "assignment")
}

func (r *AssignmentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1 FOR UPDATE`
	a, err := scanAssignment(r.q.QueryRowContext(ctx, query, id))
	return a, mapError(err, "assignment")
}

func (r *AssignmentRepository) Update(ctx context.Context, a *domain.Assignment) error {
	query := `UPDATE assignments
		SET
			tenure_months = $1,
			monthly_charge = $2,
			security_deposit = $3,
			late_fee_per_day = $4,
			total_amount = $5,
			paid_amount = $6,
			pending_amount = $7,
			status = $8,
			payment_status = $9,
			start_date = $10,
			end_date = $11,
			closed_at = $12,
			notes = $13,
			updated_at = $14
		WHERE id = $15`

	res, err := r.q.ExecContext(ctx, query,
		a.TenureMonths,
		a.MonthlyCharge,
		a.SecurityDeposit,
		a.LateFeePerDay,
		a.TotalAmount,
		a.PaidAmount,
		a.PendingAmount,
		a.Status,
		a.PaymentStatus,
		a.StartDate,
		a.EndDate,
		a.ClosedAt,
		a.Notes,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return mapError(err, "assignment")
	}
	return expectOne(res, "assignment")
}

// List filters on stored columns only. Payment status is derived at read
// time, so filtering on it is left to the caller.
func (r *AssignmentRepository) List(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.Assignment, error) {
	var w where
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.RiderID != nil {
		w.add("rider_id = $%d", *filter.RiderID)
	}
	if filter.BikeID != nil {
		w.add("bike_id = $%d", *filter.BikeID)
	}

	rows, err := r.q.QueryContext(ctx, `SELECT `+assignmentColumns+` FROM assignments`+w.String()+` ORDER BY seq`, w.args...)
	if err != nil {
		return nil, mapError(err, "assignment")
	}
	defer rows.Close()

	list := []*domain.Assignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *AssignmentRepository) CountActiveByRider(ctx context.Context, riderID uuid.UUID) (int, error) {
	return r.countActive(ctx, "rider_id", riderID)
}

func (r *AssignmentRepository) CountActiveByBike(ctx context.Context, bikeID uuid.UUID) (int, error) {
	return r.countActive(ctx, "bike_id", bikeID)
}

func (r *AssignmentRepository) countActive(ctx context.Context, column string, id uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM assignments WHERE ` + column + ` = $1 AND status = 'active'`

	var n int
	if err := r.q.QueryRowContext(ctx, query, id).Scan(&n); err != nil {
		return 0, mapError(err, "assignment")
	}
	return n, nil
}
