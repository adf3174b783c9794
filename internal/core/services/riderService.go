package services

import (
	"context"
	"fmt"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var riderSortFields = []string{"created_at", "name", "total_assignments", "rating"}

type RiderService struct {
	base
}

func NewRiderService(
	store ports.Store,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	events ports.EventRecorder,
	policy Policy,
) *RiderService {
	return &RiderService{base: newBase(store, logger, validate, cache, events, policy)}
}

func (s *RiderService) CreateRider(ctx context.Context, rider *domain.Rider) (*domain.Rider, error) {
	const op = "services.CreateRider"

	now := s.now()
	if rider.ID == uuid.Nil {
		rider.ID = uuid.New()
	}
	if rider.Status == "" {
		rider.Status = domain.RiderActive
	}
	rider.CurrentAssignments = 0
	rider.TotalAssignments = 0
	rider.CreatedAt = now
	rider.UpdatedAt = now

	if err := s.validateStruct(rider); err != nil {
		s.logger.Error("Rider validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := s.store.Riders().Create(ctx, rider); err != nil {
		s.logger.Error("Failed to create rider", map[string]interface{}{
			"error": err.Error(),
			"email": rider.Email,
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateAggregates(ctx)
	s.events.RecordEvent("rider_created")

	s.logger.Info("Rider created successfully", map[string]interface{}{
		"rider_id": rider.ID,
	})
	return rider, nil
}

func (s *RiderService) GetRider(ctx context.Context, riderID string) (*domain.Rider, error) {
	id, err := parseID("rider", riderID)
	if err != nil {
		return nil, err
	}

	rider, err := s.store.Riders().GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get rider", map[string]interface{}{
			"error":    err.Error(),
			"rider_id": riderID,
		})
		return nil, fmt.Errorf("services.GetRider: %w", err)
	}
	return rider, nil
}

func (s *RiderService) ListRiders(ctx context.Context, filter domain.RiderFilter, params domain.ListParams) ([]*domain.Rider, domain.Pagination, error) {
	params.Normalize(riderSortFields, "created_at")

	riders, err := s.store.Riders().List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list riders", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domain.Pagination{}, fmt.Errorf("services.ListRiders: %w", err)
	}

	sortItems(riders, params.SortOrder, func(a, b *domain.Rider) bool {
		switch params.SortBy {
		case "name":
			return a.Name < b.Name
		case "total_assignments":
			return a.TotalAssignments < b.TotalAssignments
		case "rating":
			return a.Rating < b.Rating
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return domain.Paginate(riders, params), domain.NewPagination(params, len(riders)), nil
}

func (s *RiderService) UpdateRider(ctx context.Context, riderID string, patch domain.RiderPatch) (*domain.Rider, error) {
	const op = "services.UpdateRider"

	id, err := parseID("rider", riderID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Rider
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		rider, err := tx.Riders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		patch.Apply(rider)
		if rider.IsDeleted() {
			if err := ensureNoActiveRentals(ctx, tx, rider.ID); err != nil {
				return err
			}
		}
		if err := s.validateStruct(rider); err != nil {
			return err
		}

		rider.UpdatedAt = s.now()
		if err := tx.Riders().Update(ctx, rider); err != nil {
			return err
		}
		updated = rider
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update rider", map[string]interface{}{
			"error":    err.Error(),
			"rider_id": riderID,
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateAggregates(ctx)

	s.logger.Info("Rider updated successfully", map[string]interface{}{
		"rider_id": riderID,
	})
	return updated, nil
}

// DeactivateRider soft-deletes a rider. Riders holding active assignments
// cannot be deactivated.
func (s *RiderService) DeactivateRider(ctx context.Context, riderID string) (*domain.Rider, error) {
	const op = "services.DeactivateRider"

	id, err := parseID("rider", riderID)
	if err != nil {
		return nil, err
	}

	var rider *domain.Rider
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		r, err := tx.Riders().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		rider = r
		if r.IsDeleted() {
			return nil
		}
		if err := ensureNoActiveRentals(ctx, tx, r.ID); err != nil {
			return err
		}
		r.Status = domain.RiderInactive
		r.UpdatedAt = s.now()
		return tx.Riders().Update(ctx, r)
	})
	if err != nil {
		s.logger.Error("Failed to deactivate rider", map[string]interface{}{
			"error":    err.Error(),
			"rider_id": riderID,
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateAggregates(ctx)

	s.logger.Info("Rider deactivated", map[string]interface{}{
		"rider_id": riderID,
	})
	return rider, nil
}

func ensureNoActiveRentals(ctx context.Context, tx ports.Store, riderID uuid.UUID) error {
	n, err := tx.Assignments().CountActiveByRider(ctx, riderID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: rider has %d active assignments", domain.ErrConflict, n)
	}
	return nil
}
