package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type BikeRepository struct {
	store *Store
}

func (r *BikeRepository) Create(ctx context.Context, bike *domain.Bike) error {
	return r.store.write(func(d *state) error {
		if _, exists := d.bikes.get(bike.ID); exists {
			return fmt.Errorf("%w: bike %s already exists", domain.ErrConflict, bike.ID)
		}
		if err := checkBikeUnique(d, bike); err != nil {
			return err
		}
		if bike.CreatedAt.IsZero() {
			bike.CreatedAt = time.Now()
		}
		if bike.UpdatedAt.IsZero() {
			bike.UpdatedAt = bike.CreatedAt
		}
		d.bikes.put(bike.ID, *bike)
		return nil
	})
}

func (r *BikeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bike, error) {
	var bike domain.Bike
	err := r.store.read(func(d *state) error {
		row, ok := d.bikes.get(id)
		if !ok {
			return fmt.Errorf("%w: bike %s", domain.ErrNotFound, id)
		}
		bike = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &bike, nil
}

func (r *BikeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Bike, error) {
	return r.GetByID(ctx, id)
}

func (r *BikeRepository) Update(ctx context.Context, bike *domain.Bike) error {
	return r.store.write(func(d *state) error {
		if _, ok := d.bikes.get(bike.ID); !ok {
			return fmt.Errorf("%w: bike %s", domain.ErrNotFound, bike.ID)
		}
		if err := checkBikeUnique(d, bike); err != nil {
			return err
		}
		d.bikes.put(bike.ID, *bike)
		return nil
	})
}

func (r *BikeRepository) List(ctx context.Context, filter domain.BikeFilter) ([]*domain.Bike, error) {
	search := strings.ToLower(filter.Search)
	bikes := []*domain.Bike{}
	err := r.store.read(func(d *state) error {
		d.bikes.each(func(row domain.Bike) bool {
			if filter.Status != "" && row.Status != filter.Status {
				return true
			}
			if filter.Type != "" && row.Type != filter.Type {
				return true
			}
			if search != "" && !containsAny(search, row.Make, row.Model, row.BikeNumber, row.RegistrationNumber) {
				return true
			}
			bike := row
			bikes = append(bikes, &bike)
			return true
		})
		return nil
	})
	return bikes, err
}

// Identifying numbers are unique among bikes that are not retired.
func checkBikeUnique(d *state, bike *domain.Bike) error {
	if bike.IsRetired() {
		return nil
	}
	var err error
	d.bikes.each(func(row domain.Bike) bool {
		if row.ID == bike.ID || row.IsRetired() {
			return true
		}
		switch {
		case strings.EqualFold(row.BikeNumber, bike.BikeNumber):
			err = fmt.Errorf("%w: bike number %s already in fleet", domain.ErrConflict, bike.BikeNumber)
		case strings.EqualFold(row.RegistrationNumber, bike.RegistrationNumber):
			err = fmt.Errorf("%w: registration %s already in fleet", domain.ErrConflict, bike.RegistrationNumber)
		case strings.EqualFold(row.ChassisNumber, bike.ChassisNumber):
			err = fmt.Errorf("%w: chassis %s already in fleet", domain.ErrConflict, bike.ChassisNumber)
		case strings.EqualFold(row.EngineNumber, bike.EngineNumber):
			err = fmt.Errorf("%w: engine %s already in fleet", domain.ErrConflict, bike.EngineNumber)
		}
		return err == nil
	})
	return err
}
