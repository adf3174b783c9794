package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	store *Store
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	return r.store.write(func(d *state) error {
		if _, exists := d.payments.get(p.ID); exists {
			return fmt.Errorf("%w: payment %s already exists", domain.ErrConflict, p.ID)
		}
		if _, ok := d.assignments.get(p.AssignmentID); !ok {
			return fmt.Errorf("%w: assignment %s", domain.ErrNotFound, p.AssignmentID)
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
		d.payments.put(p.ID, *p)
		return nil
	})
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	err := r.store.read(func(d *state) error {
		row, ok := d.payments.get(id)
		if !ok {
			return fmt.Errorf("%w: payment %s", domain.ErrNotFound, id)
		}
		p = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return r.GetByID(ctx, id)
}

func (r *PaymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	return r.store.write(func(d *state) error {
		if _, ok := d.payments.get(p.ID); !ok {
			return fmt.Errorf("%w: payment %s", domain.ErrNotFound, p.ID)
		}
		d.payments.put(p.ID, *p)
		return nil
	})
}

func (r *PaymentRepository) List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error) {
	list := []*domain.Payment{}
	err := r.store.read(func(d *state) error {
		d.payments.each(func(row domain.Payment) bool {
			if filter.AssignmentID != nil && row.AssignmentID != *filter.AssignmentID {
				return true
			}
			if filter.RiderID != nil && row.RiderID != *filter.RiderID {
				return true
			}
			if filter.Status != "" && row.Status != filter.Status {
				return true
			}
			if filter.Type != "" && row.Type != filter.Type {
				return true
			}
			p := row
			list = append(list, &p)
			return true
		})
		return nil
	})
	return list, err
}
