package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// swagger:model domain.Bike
type Bike struct {
	ID                 uuid.UUID       `json:"id"`
	Make               string          `json:"make" validate:"required,max=50"`
	Model              string          `json:"model" validate:"required,max=50"`
	BikeNumber         string          `json:"bike_number" validate:"required,max=32"`
	RegistrationNumber string          `json:"registration_number" validate:"required,max=32"`
	ChassisNumber      string          `json:"chassis_number" validate:"required,max=64"`
	EngineNumber       string          `json:"engine_number" validate:"required,max=64"`
	Type               BikeType        `json:"type" validate:"required,oneof=electric petrol pedal"`
	Year               int             `json:"year" validate:"required,min=1990,max=2100"`
	Color              string          `json:"color,omitempty" validate:"max=30"`
	Mileage            int             `json:"mileage" validate:"min=0"`
	Status             BikeStatus      `json:"status" validate:"required,oneof=available assigned maintenance retired"`
	AssignedTo         *uuid.UUID      `json:"assigned_to,omitempty"`
	TotalAssignments   int             `json:"total_assignments" validate:"min=0"`
	PurchasePrice      decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	PurchaseDate       time.Time       `json:"purchase_date" validate:"required"`
	CurrentValue       decimal.Decimal `json:"current_value"`
	LastServiceDate    *time.Time      `json:"last_service_date,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type BikeType string

const (
	Electric BikeType = "electric"
	Petrol   BikeType = "petrol"
	Pedal    BikeType = "pedal"
)

type BikeStatus string

const (
	BikeAvailable   BikeStatus = "available"
	BikeAssigned    BikeStatus = "assigned"
	BikeMaintenance BikeStatus = "maintenance"
	BikeRetired     BikeStatus = "retired"
)

// Transitions an operator may request directly. Moving in and out of
// assigned belongs to the assignment lifecycle only.
var bikeAdminTransitions = map[BikeStatus][]BikeStatus{
	BikeAvailable:   {BikeMaintenance, BikeRetired},
	BikeMaintenance: {BikeAvailable, BikeRetired},
	BikeAssigned:    {},
	BikeRetired:     {},
}

func (b *Bike) CanTransitionTo(status BikeStatus) bool {
	if b.Status == status {
		return true
	}
	for _, s := range bikeAdminTransitions[b.Status] {
		if s == status {
			return true
		}
	}
	return false
}

func (b *Bike) IsRetired() bool {
	return b.Status == BikeRetired
}

// Assign marks the bike as rented by riderID.
func (b *Bike) Assign(riderID uuid.UUID) {
	id := riderID
	b.Status = BikeAssigned
	b.AssignedTo = &id
	b.TotalAssignments++
}

// Release frees the bike if riderID still holds it.
func (b *Bike) Release(riderID uuid.UUID) bool {
	if b.Status != BikeAssigned || b.AssignedTo == nil || *b.AssignedTo != riderID {
		return false
	}
	b.Status = BikeAvailable
	b.AssignedTo = nil
	return true
}

// ValueAt applies declining-balance depreciation per full year owned.
func (b *Bike) ValueAt(now time.Time, annualRate decimal.Decimal) decimal.Decimal {
	years := FullYearsBetween(b.PurchaseDate, now)
	if years <= 0 {
		return b.PurchasePrice.Round(2)
	}
	factor := decimal.NewFromInt(1).Sub(annualRate)
	if factor.IsNegative() {
		factor = decimal.Zero
	}
	value := b.PurchasePrice.Mul(factor.Pow(decimal.NewFromInt(int64(years))))
	if value.IsNegative() {
		return decimal.Zero
	}
	return value.Round(2)
}

func FullYearsBetween(from, to time.Time) int {
	if from.IsZero() || !to.After(from) {
		return 0
	}
	years := to.Year() - from.Year()
	if to.Before(from.AddDate(years, 0, 0)) {
		years--
	}
	return years
}

type BikeFilter struct {
	Status BikeStatus
	Type   BikeType
	Search string
}
