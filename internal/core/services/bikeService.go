package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var bikeSortFields = []string{"created_at", "bike_number", "year", "mileage", "purchase_price"}

type BikeService struct {
	base
}

func NewBikeService(
	store ports.Store,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	events ports.EventRecorder,
	policy Policy,
) *BikeService {
	return &BikeService{base: newBase(store, logger, validate, cache, events, policy)}
}

func (s *BikeService) CreateBike(ctx context.Context, bike *domain.Bike) (*domain.Bike, error) {
	now := s.now()
	if bike.ID == uuid.Nil {
		bike.ID = uuid.New()
	}
	if bike.Status == "" {
		bike.Status = domain.BikeAvailable
	}
	if bike.Status == domain.BikeAssigned || bike.AssignedTo != nil {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "status",
			Message: "bikes are assigned through assignments only",
		})
	}
	bike.TotalAssignments = 0
	bike.CreatedAt = now
	bike.UpdatedAt = now

	if err := s.validateStruct(bike); err != nil {
		s.logger.Error("Bike validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	bike.CurrentValue = bike.ValueAt(now, s.policy.DepreciationRate)

	if err := s.store.Bikes().Create(ctx, bike); err != nil {
		s.logger.Error("Failed to create bike", map[string]interface{}{
			"error":       err.Error(),
			"bike_number": bike.BikeNumber,
		})
		return nil, fmt.Errorf("services.CreateBike: %w", err)
	}

	s.invalidateAggregates(ctx)
	s.events.RecordEvent("bike_created")

	s.logger.Info("Bike created successfully", map[string]interface{}{
		"bike_id": bike.ID,
	})
	return bike, nil
}

func (s *BikeService) GetBike(ctx context.Context, bikeID string) (*domain.Bike, error) {
	id, err := parseID("bike", bikeID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"bike_id": bikeID,
		})
		return nil, err
	}

	cacheKey := bikeCacheKey(id)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		var cachedBike domain.Bike
		if err := json.Unmarshal(cachedData, &cachedBike); err == nil {
			s.events.RecordCacheLookup(true)
			s.logger.Debug("Bike found in cache", map[string]interface{}{
				"bike_id": bikeID,
			})
			return &cachedBike, nil
		}
	}
	s.events.RecordCacheLookup(false)

	bike, err := s.store.Bikes().GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, fmt.Errorf("services.GetBike: %w", err)
	}
	bike.CurrentValue = bike.ValueAt(s.now(), s.policy.DepreciationRate)

	bikeData, err := json.Marshal(bike)
	if err != nil {
		s.logger.Warn("Failed to marshal bike for cache", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	} else if err := s.cache.Set(ctx, cacheKey, bikeData, s.policy.EntityCacheTTL); err != nil {
		s.logger.Warn("Failed to cache bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
	}

	return bike, nil
}

func (s *BikeService) ListBikes(ctx context.Context, filter domain.BikeFilter, params domain.ListParams) ([]*domain.Bike, domain.Pagination, error) {
	params.Normalize(bikeSortFields, "created_at")

	bikes, err := s.store.Bikes().List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list bikes", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domain.Pagination{}, fmt.Errorf("services.ListBikes: %w", err)
	}

	now := s.now()
	for _, b := range bikes {
		b.CurrentValue = b.ValueAt(now, s.policy.DepreciationRate)
	}

	sortItems(bikes, params.SortOrder, func(a, b *domain.Bike) bool {
		switch params.SortBy {
		case "bike_number":
			return a.BikeNumber < b.BikeNumber
		case "year":
			return a.Year < b.Year
		case "mileage":
			return a.Mileage < b.Mileage
		case "purchase_price":
			return a.PurchasePrice.LessThan(b.PurchasePrice)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return domain.Paginate(bikes, params), domain.NewPagination(params, len(bikes)), nil
}

// UpdateBike applies operator edits. Status may only move along the admin
// transition table; assigned is reachable through assignments alone.
func (s *BikeService) UpdateBike(ctx context.Context, bikeID string, patch domain.BikePatch) (*domain.Bike, error) {
	id, err := parseID("bike", bikeID)
	if err != nil {
		return nil, err
	}

	var updated *domain.Bike
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		bike, err := tx.Bikes().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if bike.IsRetired() {
			return fmt.Errorf("%w: bike %s is retired", domain.ErrConflict, id)
		}

		patch.Apply(bike)
		if patch.Status != nil && *patch.Status != bike.Status {
			if !bike.CanTransitionTo(*patch.Status) {
				return domain.NewValidationError(domain.FieldError{
					Field:   "status",
					Message: fmt.Sprintf("cannot change from %s to %s", bike.Status, *patch.Status),
				})
			}
			if *patch.Status == domain.BikeRetired {
				if err := ensureBikeFree(ctx, tx, bike.ID); err != nil {
					return err
				}
			}
			bike.Status = *patch.Status
		}

		if err := s.validateStruct(bike); err != nil {
			return err
		}

		now := s.now()
		bike.UpdatedAt = now
		bike.CurrentValue = bike.ValueAt(now, s.policy.DepreciationRate)
		if err := tx.Bikes().Update(ctx, bike); err != nil {
			return err
		}
		updated = bike
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, fmt.Errorf("services.UpdateBike: %w", err)
	}

	s.invalidateAggregates(ctx, bikeCacheKey(id))

	s.logger.Info("Bike updated successfully", map[string]interface{}{
		"bike_id": bikeID,
	})
	return updated, nil
}

// RetireBike removes a bike from the fleet. Bikes on an active assignment
// cannot be retired.
func (s *BikeService) RetireBike(ctx context.Context, bikeID string) (*domain.Bike, error) {
	id, err := parseID("bike", bikeID)
	if err != nil {
		return nil, err
	}

	var bike *domain.Bike
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		b, err := tx.Bikes().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		bike = b
		if b.IsRetired() {
			return nil
		}
		if err := ensureBikeFree(ctx, tx, b.ID); err != nil {
			return err
		}
		b.Status = domain.BikeRetired
		b.AssignedTo = nil
		b.UpdatedAt = s.now()
		return tx.Bikes().Update(ctx, b)
	})
	if err != nil {
		s.logger.Error("Failed to retire bike", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": bikeID,
		})
		return nil, fmt.Errorf("services.RetireBike: %w", err)
	}

	s.invalidateAggregates(ctx, bikeCacheKey(id))
	s.events.RecordEvent("bike_retired")

	s.logger.Info("Bike retired", map[string]interface{}{
		"bike_id": bikeID,
	})
	return bike, nil
}

func ensureBikeFree(ctx context.Context, tx ports.Store, bikeID uuid.UUID) error {
	n, err := tx.Assignments().CountActiveByBike(ctx, bikeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: bike has an active assignment", domain.ErrConflict)
	}
	return nil
}
