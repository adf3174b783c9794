package postgres

import (
	"context"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	q querier
}

const paymentColumns = `id, assignment_id, rider_id, type, amount, due_date, paid_date, status,
	payment_method, transaction_ref, days_late, late_fee, notes, created_at, updated_at`

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.AssignmentID,
		&p.RiderID,
		&p.Type,
		&p.Amount,
		&p.DueDate,
		&p.PaidDate,
		&p.Status,
		&p.Method,
		&p.TransactionRef,
		&p.DaysLate,
		&p.LateFee,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, assignment_id, rider_id, type, amount, due_date, paid_date,
		status, payment_method, transaction_ref, days_late, late_fee, notes, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.q.ExecContext(ctx, query,
		p.ID,
		p.AssignmentID,
		p.RiderID,
		p.Type,
		p.Amount,
		p.DueDate,
		p.PaidDate,
		p.Status,
		p.Method,
		p.TransactionRef,
		p.DaysLate,
		p.LateFee,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapError(err, "payment")
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	return p, mapError(err, "payment")
}

func (r *PaymentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 FOR UPDATE`
	p, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	return p, mapError(err, "payment")
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	query := `UPDATE payments
		SET
			type = $1,
			amount = $2,
			due_date = $3,
			paid_date = $4,
			status = $5,
			payment_method = $6,
			transaction_ref = $7,
			days_late = $8,
			late_fee = $9,
			notes = $10,
			updated_at = $11
		WHERE id = $12`

	res, err := r.q.ExecContext(ctx, query,
		p.Type,
		p.Amount,
		p.DueDate,
		p.PaidDate,
		p.Status,
		p.Method,
		p.TransactionRef,
		p.DaysLate,
		p.LateFee,
		p.Notes,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return mapError(err, "payment")
	}
	return expectOne(res, "payment")
}

func (r *PaymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	var w where
	if filter.AssignmentID != nil {
		w.add("assignment_id = $%d", *filter.AssignmentID)
	}
	if filter.RiderID != nil {
		w.add("rider_id = $%d", *filter.RiderID)
	}
	if filter.Status != "" {
		w.add("status = $%d", filter.Status)
	}
	if filter.Type != "" {
		w.add("type = $%d", filter.Type)
	}

	rows, err := r.q.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments`+w.String()+` ORDER BY seq`, w.args...)
	if err != nil {
		return nil, mapError(err, "payment")
	}
	defer rows.Close()

	payments := []*domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
