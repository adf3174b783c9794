package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type RiderRepository struct {
	store *Store
}

func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	return r.store.write(func(d *state) error {
		if _, exists := d.riders.get(rider.ID); exists {
			return fmt.Errorf("%w: rider %s already exists", domain.ErrConflict, rider.ID)
		}
		if err := checkRiderUnique(d, rider); err != nil {
			return err
		}
		if rider.CreatedAt.IsZero() {
			rider.CreatedAt = time.Now()
		}
		if rider.UpdatedAt.IsZero() {
			rider.UpdatedAt = rider.CreatedAt
		}
		d.riders.put(rider.ID, *rider)
		return nil
	})
}

func (r *RiderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rider, error) {
	var rider domain.Rider
	err := r.store.read(func(d *state) error {
		row, ok := d.riders.get(id)
		if !ok {
			return fmt.Errorf("%w: rider %s", domain.ErrNotFound, id)
		}
		rider = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *RiderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Rider, error) {
	return r.GetByID(ctx, id)
}

func (r *RiderRepository) Update(ctx context.Context, rider *domain.Rider) error {
	return r.store.write(func(d *state) error {
		if _, ok := d.riders.get(rider.ID); !ok {
			return fmt.Errorf("%w: rider %s", domain.ErrNotFound, rider.ID)
		}
		if err := checkRiderUnique(d, rider); err != nil {
			return err
		}
		d.riders.put(rider.ID, *rider)
		return nil
	})
}

func (r *RiderRepository) List(ctx context.Context, filter domain.RiderFilter) ([]*domain.Rider, error) {
	search := strings.ToLower(filter.Search)
	riders := []*domain.Rider{}
	err := r.store.read(func(d *state) error {
		d.riders.each(func(row domain.Rider) bool {
			if filter.Status != "" && row.Status != filter.Status {
				return true
			}
			if search != "" && !containsAny(search, row.Name, row.Email, row.Phone, row.LicenseNumber) {
				return true
			}
			rider := row
			riders = append(riders, &rider)
			return true
		})
		return nil
	})
	return riders, err
}

// Email and license number are unique among riders that are not deactivated.
func checkRiderUnique(d *state, rider *domain.Rider) error {
	if rider.IsDeleted() {
		return nil
	}
	var err error
	d.riders.each(func(row domain.Rider) bool {
		if row.ID == rider.ID || row.IsDeleted() {
			return true
		}
		if strings.EqualFold(row.Email, rider.Email) {
			err = fmt.Errorf("%w: email %s already registered", domain.ErrConflict, rider.Email)
			return false
		}
		if strings.EqualFold(row.LicenseNumber, rider.LicenseNumber) {
			err = fmt.Errorf("%w: license %s already registered", domain.ErrConflict, rider.LicenseNumber)
			return false
		}
		return true
	})
	return err
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
