package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssignmentStatus string

const (
	AssignmentActive     AssignmentStatus = "active"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentTerminated AssignmentStatus = "terminated"
)

// PaymentStatus is shared by assignments (derived) and payments (recorded).
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentOverdue  PaymentStatus = "overdue"
	PaymentRefunded PaymentStatus = "refunded"
)

// swagger:model domain.Assignment
type Assignment struct {
	ID              uuid.UUID        `json:"id"`
	RiderID         uuid.UUID        `json:"rider_id"`
	BikeID          uuid.UUID        `json:"bike_id"`
	TenureMonths    int              `json:"tenure_months"`
	MonthlyCharge   decimal.Decimal  `json:"monthly_charge"`
	SecurityDeposit decimal.Decimal  `json:"security_deposit"`
	LateFeePerDay   decimal.Decimal  `json:"late_fee_per_day"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	PaidAmount      decimal.Decimal  `json:"paid_amount"`
	PendingAmount   decimal.Decimal  `json:"pending_amount"`
	Status          AssignmentStatus `json:"status"`
	PaymentStatus   PaymentStatus    `json:"payment_status"`
	StartDate       time.Time        `json:"start_date"`
	EndDate         time.Time        `json:"end_date"`
	ClosedAt        *time.Time       `json:"closed_at,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// AssignmentTerms is the operator input for a new rental.
type AssignmentTerms struct {
	RiderID          uuid.UUID        `json:"rider_id" validate:"required"`
	BikeID           uuid.UUID        `json:"bike_id" validate:"required"`
	TenureMonths     int              `json:"tenure_months" validate:"required,min=1,max=60"`
	MonthlyCharge    decimal.Decimal  `json:"monthly_charge" validate:"gt=0"`
	SecurityDeposit  decimal.Decimal  `json:"security_deposit" validate:"gte=0"`
	LateFeePerDay    *decimal.Decimal `json:"late_fee_per_day,omitempty" validate:"omitempty,gte=0"`
	StartDate        *time.Time       `json:"start_date,omitempty"`
	EndDate          *time.Time       `json:"end_date,omitempty"`
	Notes            string           `json:"notes,omitempty" validate:"max=500"`
	GenerateSchedule bool             `json:"generate_schedule,omitempty"`
}

func (a *Assignment) IsActive() bool {
	return a.Status == AssignmentActive
}

func (a *Assignment) IsClosed() bool {
	return a.Status == AssignmentCompleted || a.Status == AssignmentTerminated
}

// Close moves an active assignment to a terminal status. It reports false
// when the assignment was already closed.
func (a *Assignment) Close(status AssignmentStatus, now time.Time) bool {
	if !a.IsActive() {
		return false
	}
	a.Status = status
	at := now
	a.ClosedAt = &at
	if status == AssignmentTerminated {
		a.EndDate = now
	}
	a.Recalculate(now)
	return true
}

type AssignmentFilter struct {
	Status        AssignmentStatus
	PaymentStatus PaymentStatus
	RiderID       *uuid.UUID
	BikeID        *uuid.UUID
}
