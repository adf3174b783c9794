package ports

import (
	"context"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
)

// Repositories return domain.ErrNotFound for missing rows and
// domain.ErrConflict for uniqueness violations. List results come back in
// creation order.

type RiderRepository interface {
	Create(ctx context.Context, rider *domain.Rider) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rider, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Rider, error)
	Update(ctx context.Context, rider *domain.Rider) error
	List(ctx context.Context, filter domain.RiderFilter) ([]*domain.Rider, error)
}

type BikeRepository interface {
	Create(ctx context.Context, bike *domain.Bike) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bike, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Bike, error)
	Update(ctx context.Context, bike *domain.Bike) error
	List(ctx context.Context, filter domain.BikeFilter) ([]*domain.Bike, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Assignment, error)
	Update(ctx context.Context, assignment *domain.Assignment) error
	List(ctx context.Context, filter domain.AssignmentFilter) ([]*domain.Assignment, error)
	CountActiveByRider(ctx context.Context, riderID uuid.UUID) (int, error)
	CountActiveByBike(ctx context.Context, bikeID uuid.UUID) (int, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context, filter domain.PaymentFilter) ([]*domain.Payment, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, m *domain.Maintenance) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Maintenance, error)
	Update(ctx context.Context, m *domain.Maintenance) error
	List(ctx context.Context, filter domain.MaintenanceFilter) ([]*domain.Maintenance, error)
}

// Store is the entity store. Multi-entity writes run inside WithinTx so
// they commit or roll back as a unit.
type Store interface {
	Riders() RiderRepository
	Bikes() BikeRepository
	Assignments() AssignmentRepository
	Payments() PaymentRepository
	Maintenance() MaintenanceRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
