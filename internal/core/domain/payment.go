package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentRent        PaymentType = "rent"
	PaymentDeposit     PaymentType = "deposit"
	PaymentMaintenance PaymentType = "maintenance"
	PaymentLateFee     PaymentType = "late_fee"
	PaymentPenalty     PaymentType = "penalty"
	PaymentRefund      PaymentType = "refund"
	PaymentOther       PaymentType = "other"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodUPI          PaymentMethod = "upi"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodWallet       PaymentMethod = "wallet"
)

// swagger:model domain.Payment
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	AssignmentID   uuid.UUID       `json:"assignment_id" validate:"required"`
	RiderID        uuid.UUID       `json:"rider_id" validate:"required"`
	Type           PaymentType     `json:"type" validate:"required,oneof=rent deposit maintenance late_fee penalty refund other"`
	Amount         decimal.Decimal `json:"amount" validate:"gt=0"`
	DueDate        time.Time       `json:"due_date" validate:"required"`
	PaidDate       *time.Time      `json:"paid_date,omitempty"`
	Status         PaymentStatus   `json:"status" validate:"required,oneof=pending paid overdue partial refunded"`
	Method         PaymentMethod   `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card upi bank_transfer wallet"`
	TransactionRef string          `json:"transaction_ref,omitempty" validate:"max=100"`
	DaysLate       int             `json:"days_late"`
	LateFee        decimal.Decimal `json:"late_fee"`
	Notes          string          `json:"notes,omitempty" validate:"max=500"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (p *Payment) IsPaid() bool {
	return p.Status == PaymentPaid
}

// IsOpen reports whether the payment still awaits settlement.
func (p *Payment) IsOpen() bool {
	return p.Status == PaymentPending || p.Status == PaymentPartial || p.Status == PaymentOverdue
}

func (p *Payment) signedAmount() decimal.Decimal {
	if p.Type == PaymentRefund {
		return p.Amount.Neg()
	}
	return p.Amount
}

// Contribution is what the payment adds to its assignment's paid amount.
// Only settled payments count; refund entries count negatively.
func (p *Payment) Contribution() decimal.Decimal {
	if !p.IsPaid() {
		return decimal.Zero
	}
	return p.signedAmount()
}

// MarkPaid settles an open payment. It reports false when nothing changed.
func (p *Payment) MarkPaid(method PaymentMethod, ref string, now time.Time) bool {
	if !p.IsOpen() {
		return false
	}
	p.Status = PaymentPaid
	paid := now
	p.PaidDate = &paid
	if method != "" {
		p.Method = method
	}
	if ref != "" {
		p.TransactionRef = ref
	}
	return true
}

// Refund reverses a settled payment.
func (p *Payment) Refund() bool {
	if !p.IsPaid() {
		return false
	}
	p.Status = PaymentRefunded
	return true
}

// EvaluateOverdue promotes an open payment past its due date to overdue
// and sets the late fee from the elapsed days. Reports whether any field
// changed, so repeated calls at the same instant are no-ops.
func (p *Payment) EvaluateOverdue(now time.Time, feePerDay decimal.Decimal) bool {
	if !p.IsOpen() || !now.After(p.DueDate) {
		return false
	}
	days, fee := LateFee(p.DueDate, now, feePerDay)
	changed := p.Status != PaymentOverdue || p.DaysLate != days || !p.LateFee.Equal(fee)
	p.Status = PaymentOverdue
	p.DaysLate = days
	p.LateFee = fee
	return changed
}

type PaymentFilter struct {
	AssignmentID *uuid.UUID
	RiderID      *uuid.UUID
	Status       PaymentStatus
	Type         PaymentType
}

// PaymentInput is an operator-recorded charge or receipt.
type PaymentInput struct {
	AssignmentID   uuid.UUID       `json:"assignment_id" validate:"required"`
	RiderID        uuid.UUID       `json:"rider_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount" validate:"gt=0"`
	Type           PaymentType     `json:"type" validate:"required,oneof=rent deposit maintenance late_fee penalty refund other"`
	Method         PaymentMethod   `json:"payment_method,omitempty" validate:"omitempty,oneof=cash card upi bank_transfer wallet"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	Status         PaymentStatus   `json:"status,omitempty" validate:"omitempty,oneof=pending paid"`
	TransactionRef string          `json:"transaction_ref,omitempty" validate:"max=100"`
	Notes          string          `json:"notes,omitempty" validate:"max=500"`
}

// PaymentReceipt pairs a payment with the assignment balance it affected.
type PaymentReceipt struct {
	Payment    *Payment    `json:"payment"`
	Assignment *Assignment `json:"assignment"`
}

type LateFeeReport struct {
	Evaluated     int             `json:"evaluated"`
	Updated       int             `json:"updated"`
	TotalLateFees decimal.Decimal `json:"total_late_fees"`
	AssessedAt    time.Time       `json:"assessed_at"`
}
