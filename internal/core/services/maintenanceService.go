package services

import (
	"context"
	"fmt"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var maintenanceSortFields = []string{"created_at", "scheduled_date", "priority", "cost"}

var priorityRank = map[domain.Priority]int{
	domain.PriorityLow:      0,
	domain.PriorityMedium:   1,
	domain.PriorityHigh:     2,
	domain.PriorityCritical: 3,
}

type MaintenanceService struct {
	base
}

func NewMaintenanceService(
	store ports.Store,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	events ports.EventRecorder,
	policy Policy,
) *MaintenanceService {
	return &MaintenanceService{base: newBase(store, logger, validate, cache, events, policy)}
}

// ScheduleMaintenance books a job for a bike. A critical job takes an
// available bike out of service; completing the job never puts it back.
func (s *MaintenanceService) ScheduleMaintenance(ctx context.Context, m *domain.Maintenance) (*domain.Maintenance, error) {
	now := s.now()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Priority == "" {
		m.Priority = domain.PriorityMedium
	}
	if m.ScheduledDate.IsZero() {
		m.ScheduledDate = now
	}
	m.Status = domain.MaintenanceScheduled
	m.CompletedDate = nil
	m.Cost.Recompute()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.validateStruct(m); err != nil {
		s.logger.Error("Maintenance validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	bikeOffline := false
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		bike, err := tx.Bikes().GetForUpdate(ctx, m.BikeID)
		if err != nil {
			return err
		}
		if bike.IsRetired() {
			return fmt.Errorf("%w: bike %s is retired", domain.ErrConflict, bike.ID)
		}

		if err := tx.Maintenance().Create(ctx, m); err != nil {
			return err
		}

		if m.ForcesBikeOffline() && bike.Status == domain.BikeAvailable {
			bike.Status = domain.BikeMaintenance
			bike.UpdatedAt = now
			if err := tx.Bikes().Update(ctx, bike); err != nil {
				return err
			}
			bikeOffline = true
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to schedule maintenance", map[string]interface{}{
			"error":   err.Error(),
			"bike_id": m.BikeID,
		})
		return nil, fmt.Errorf("services.ScheduleMaintenance: %w", err)
	}

	s.invalidateAggregates(ctx, bikeCacheKey(m.BikeID))
	s.events.RecordEvent("maintenance_scheduled")

	s.logger.Info("Maintenance scheduled", map[string]interface{}{
		"maintenance_id": m.ID,
		"bike_id":        m.BikeID,
		"priority":       m.Priority,
		"bike_offline":   bikeOffline,
	})
	return m, nil
}

func (s *MaintenanceService) UpdateMaintenanceStatus(ctx context.Context, maintenanceID string, upd domain.MaintenanceUpdate) (*domain.Maintenance, error) {
	id, err := parseID("maintenance", maintenanceID)
	if err != nil {
		return nil, err
	}
	if err := s.validateStruct(upd); err != nil {
		return nil, err
	}

	now := s.now()
	var updated *domain.Maintenance
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		m, err := tx.Maintenance().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := m.TransitionTo(upd.Status, now); err != nil {
			return domain.NewValidationError(domain.FieldError{Field: "status", Message: err.Error()})
		}
		if upd.Cost != nil {
			m.Cost = *upd.Cost
			m.Cost.Recompute()
		}
		if upd.Technician != nil {
			m.Technician = *upd.Technician
		}
		if upd.Notes != nil {
			m.Notes = *upd.Notes
		}
		m.UpdatedAt = now
		if err := tx.Maintenance().Update(ctx, m); err != nil {
			return err
		}

		if m.Status == domain.MaintenanceCompleted {
			bike, err := tx.Bikes().GetForUpdate(ctx, m.BikeID)
			if err != nil {
				return err
			}
			serviced := now
			bike.LastServiceDate = &serviced
			bike.UpdatedAt = now
			if err := tx.Bikes().Update(ctx, bike); err != nil {
				return err
			}
		}
		updated = m
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update maintenance", map[string]interface{}{
			"error":          err.Error(),
			"maintenance_id": maintenanceID,
		})
		return nil, fmt.Errorf("services.UpdateMaintenanceStatus: %w", err)
	}

	s.invalidateAggregates(ctx, bikeCacheKey(updated.BikeID))

	s.logger.Info("Maintenance status updated", map[string]interface{}{
		"maintenance_id": maintenanceID,
		"status":         updated.Status,
	})
	return updated, nil
}

func (s *MaintenanceService) GetMaintenance(ctx context.Context, maintenanceID string) (*domain.Maintenance, error) {
	id, err := parseID("maintenance", maintenanceID)
	if err != nil {
		return nil, err
	}

	m, err := s.store.Maintenance().GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get maintenance", map[string]interface{}{
			"error":          err.Error(),
			"maintenance_id": maintenanceID,
		})
		return nil, fmt.Errorf("services.GetMaintenance: %w", err)
	}
	return m, nil
}

func (s *MaintenanceService) ListMaintenance(ctx context.Context, filter domain.MaintenanceFilter, params domain.ListParams) ([]*domain.Maintenance, domain.Pagination, error) {
	params.Normalize(maintenanceSortFields, "created_at")

	list, err := s.store.Maintenance().List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list maintenance", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, domain.Pagination{}, fmt.Errorf("services.ListMaintenance: %w", err)
	}

	sortItems(list, params.SortOrder, func(a, b *domain.Maintenance) bool {
		switch params.SortBy {
		case "scheduled_date":
			return a.ScheduledDate.Before(b.ScheduledDate)
		case "priority":
			return priorityRank[a.Priority] < priorityRank[b.Priority]
		case "cost":
			return a.Cost.Total.LessThan(b.Cost.Total)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	return domain.Paginate(list, params), domain.NewPagination(params, len(list)), nil
}
