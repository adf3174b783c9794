package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

type MaintenanceRepository struct {
	store *Store
}

func (r *MaintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) error {
	return r.store.write(func(d *state) error {
		if _, exists := d.maintenance.get(m.ID); exists {
			return fmt.Errorf("%w: maintenance %s already exists", domain.ErrConflict, m.ID)
		}
		if _, ok := d.bikes.get(m.BikeID); !ok {
			return fmt.Errorf("%w: bike %s", domain.ErrNotFound, m.BikeID)
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now()
		}
		if m.UpdatedAt.IsZero() {
			m.UpdatedAt = m.CreatedAt
		}
		d.maintenance.put(m.ID, *m)
		return nil
	})
}

func (r *MaintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	var m domain.Maintenance
	err := r.store.read(func(d *state) error {
		row, ok := d.maintenance.get(id)
		if !ok {
			return fmt.Errorf("%w: maintenance %s", domain.ErrNotFound, id)
		}
		m = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaintenanceRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error) {
	return r.GetByID(ctx, id)
}

func (r *MaintenanceRepository) Update(ctx context.Context, m *domain.Maintenance) error {
	return r.store.write(func(d *state) error {
		if _, ok := d.maintenance.get(m.ID); !ok {
			return fmt.Errorf("%w: maintenance %s", domain.ErrNotFound, m.ID)
		}
		d.maintenance.put(m.ID, *m)
		return nil
	})
}

func (r *MaintenanceRepository) List(ctx context.Context, filter domain.MaintenanceFilter) ([]*domain.Maintenance, error) {
	list := []*domain.Maintenance{}
	err := r.store.read(func(d *state) error {
		d.maintenance.each(func(row domain.Maintenance) bool {
			if filter.BikeID != nil && row.BikeID != *filter.BikeID {
				return true
			}
			if filter.Status != "" && row.Status != filter.Status {
				return true
			}
			if filter.Priority != "" && row.Priority != filter.Priority {
				return true
			}
			m := row
			list = append(list, &m)
			return true
		})
		return nil
	})
	return list, err
}
