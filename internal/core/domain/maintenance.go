package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MaintenanceType string

const (
	MaintenanceRoutine    MaintenanceType = "routine"
	MaintenanceRepair     MaintenanceType = "repair"
	MaintenanceInspection MaintenanceType = "inspection"
	MaintenanceEmergency  MaintenanceType = "emergency"
	MaintenanceUpgrade    MaintenanceType = "upgrade"
)

type MaintenanceCategory string

const (
	CategoryEngine     MaintenanceCategory = "engine"
	CategoryBrakes     MaintenanceCategory = "brakes"
	CategoryElectrical MaintenanceCategory = "electrical"
	CategoryTyres      MaintenanceCategory = "tyres"
	CategoryBody       MaintenanceCategory = "body"
	CategoryOther      MaintenanceCategory = "other"
)

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
	MaintenanceOnHold     MaintenanceStatus = "on_hold"
)

var maintenanceTransitions = map[MaintenanceStatus][]MaintenanceStatus{
	MaintenanceScheduled:  {MaintenanceInProgress, MaintenanceCancelled, MaintenanceOnHold},
	MaintenanceInProgress: {MaintenanceCompleted, MaintenanceCancelled, MaintenanceOnHold},
	MaintenanceOnHold:     {MaintenanceScheduled, MaintenanceInProgress, MaintenanceCancelled},
	MaintenanceCompleted:  {},
	MaintenanceCancelled:  {},
}

type Cost struct {
	Labor decimal.Decimal `json:"labor" validate:"gte=0"`
	Parts decimal.Decimal `json:"parts" validate:"gte=0"`
	Other decimal.Decimal `json:"other" validate:"gte=0"`
	Total decimal.Decimal `json:"total"`
}

// Recompute overwrites Total from its parts.
func (c *Cost) Recompute() {
	c.Total = c.Labor.Add(c.Parts).Add(c.Other)
}

// swagger:model domain.Maintenance
type Maintenance struct {
	ID            uuid.UUID           `json:"id"`
	BikeID        uuid.UUID           `json:"bike_id" validate:"required"`
	Type          MaintenanceType     `json:"type" validate:"required,oneof=routine repair inspection emergency upgrade"`
	Category      MaintenanceCategory `json:"category" validate:"required,oneof=engine brakes electrical tyres body other"`
	Priority      Priority            `json:"priority" validate:"required,oneof=low medium high critical"`
	Status        MaintenanceStatus   `json:"status" validate:"required,oneof=scheduled in_progress completed cancelled on_hold"`
	Description   string              `json:"description" validate:"required,max=1000"`
	ScheduledDate time.Time           `json:"scheduled_date" validate:"required"`
	CompletedDate *time.Time          `json:"completed_date,omitempty"`
	Cost          Cost                `json:"cost"`
	Technician    string              `json:"technician,omitempty" validate:"max=100"`
	Notes         string              `json:"notes,omitempty" validate:"max=1000"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func (m *Maintenance) CanTransitionTo(status MaintenanceStatus) bool {
	for _, s := range maintenanceTransitions[m.Status] {
		if s == status {
			return true
		}
	}
	return false
}

func (m *Maintenance) TransitionTo(status MaintenanceStatus, now time.Time) error {
	if !m.CanTransitionTo(status) {
		return fmt.Errorf("%w: cannot move maintenance from %s to %s", ErrInvalidInput, m.Status, status)
	}
	m.Status = status
	if status == MaintenanceCompleted {
		done := now
		m.CompletedDate = &done
	}
	return nil
}

// ForcesBikeOffline reports whether scheduling this job pulls the bike
// out of the rentable pool.
func (m *Maintenance) ForcesBikeOffline() bool {
	return m.Priority == PriorityCritical
}

type MaintenanceFilter struct {
	BikeID   *uuid.UUID
	Status   MaintenanceStatus
	Priority Priority
}

// MaintenanceUpdate moves a job along its lifecycle, optionally recording
// the final cost and technician notes.
type MaintenanceUpdate struct {
	Status     MaintenanceStatus `json:"status" validate:"required,oneof=scheduled in_progress completed cancelled on_hold"`
	Cost       *Cost             `json:"cost,omitempty"`
	Technician *string           `json:"technician,omitempty" validate:"omitempty,max=100"`
	Notes      *string           `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
