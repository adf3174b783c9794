package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type AssignmentRepository struct {
	store *Store
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) error {
	return r.store.write(func(d *state) error {
		if _, exists := d.assignments.get(a.ID); exists {
			return fmt.Errorf("%w: assignment %s already exists", domain.ErrConflict, a.ID)
		}
		if err := checkBikeExclusive(d, a); err != nil {
			return err
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now()
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = a.CreatedAt
		}
		d.assignments.put(a.ID, *a)
		return nil
	})
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	var a domain.Assignment
	err := r.store.read(func(d *state) error {
		row, ok := d.assignments.get(id)
		if !ok {
			return fmt.Errorf("%w: assignment %s", domain.ErrNotFound, id)
		}
		a = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssignmentRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	return r.GetByID(ctx, id)
}

func (r *AssignmentRepository) Update(ctx context.Context, a *domain.Assignment) error {
	return r.store.write(func(d *state) error {
		if _, ok := d.assignments.get(a.ID); !ok {
			return fmt.Errorf("%w: assignment %s", domain.ErrNotFound, a.ID)
		}
		if err := checkBikeExclusive(d, a); err != nil {
			return err
		}
		d.assignments.put(a.ID, *a)
		return nil
	})
}

func (r *AssignmentRepository) List(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.Assignment, error) {
	list := []*domain.Assignment{}
	err := r.store.read(func(d *state) error {
		d.assignments.each(func(row domain.Assignment) bool {
			if filter.Status != "" && row.Status != filter.Status {
				return true
			}
			if filter.RiderID != nil && row.RiderID != *filter.RiderID {
				return true
			}
			if filter.BikeID != nil && row.BikeID != *filter.BikeID {
				return true
			}
			a := row
			list = append(list, &a)
			return true
		})
		return nil
	})
	return list, err
}

func (r *AssignmentRepository) CountActiveByRider(ctx context.Context, riderID uuid.UUID) (int, error) {
	return r.countActive(func(a domain.Assignment) bool { return a.RiderID == riderID })
}

func (r *AssignmentRepository) CountActiveByBike(ctx context.Context, bikeID uuid.UUID) (int, error) {
	return r.countActive(func(a domain.Assignment) bool { return a.BikeID == bikeID })
}

func (r *AssignmentRepository) countActive(match func(domain.Assignment) bool) (int, error) {
	n := 0
	err := r.store.read(func(d *state) error {
		d.assignments.each(func(row domain.Assignment) bool {
			if row.IsActive() && match(row) {
				n++
			}
			return true
		})
		return nil
	})
	return n, err
}

// At most one active assignment may reference a bike.
func checkBikeExclusive(d *state, a *domain.Assignment) error {
	if !a.IsActive() {
		return nil
	}
	var err error
	d.assignments.each(func(row domain.Assignment) bool {
		if row.ID != a.ID && row.IsActive() && row.BikeID == a.BikeID {
			err = fmt.Errorf("%w: bike %s already has an active assignment", domain.ErrConflict, a.BikeID)
			return false
		}
		return true
	})
	return err
}
