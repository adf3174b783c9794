package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/teambition/rrule-go"
)

// RentDueDates returns one due date per tenure month, starting at start.
// Start days past the 28th are pinned to the last day of each month.
func RentDueDates(start time.Time, tenureMonths int) ([]time.Time, error) {
	opt := rrule.ROption{
		Freq:    rrule.MONTHLY,
		Count:   tenureMonths,
		Dtstart: start,
	}
	if start.Day() > 28 {
		opt.Bymonthday = []int{-1}
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, fmt.Errorf("build rent schedule: %w", err)
	}
	return rule.All(), nil
}

// BuildPaymentSchedule drafts the pending deposit and rent payments for a
// new assignment.
func BuildPaymentSchedule(a *Assignment, now time.Time) ([]*Payment, error) {
	dates, err := RentDueDates(a.StartDate, a.TenureMonths)
	if err != nil {
		return nil, err
	}

	payments := make([]*Payment, 0, len(dates)+1)
	if a.SecurityDeposit.GreaterThan(decimal.Zero) {
		payments = append(payments, newScheduledPayment(a, PaymentDeposit, a.SecurityDeposit, a.StartDate, now))
	}
	for _, due := range dates {
		payments = append(payments, newScheduledPayment(a, PaymentRent, a.MonthlyCharge, due, now))
	}
	return payments, nil
}

func newScheduledPayment(a *Assignment, t PaymentType, amount decimal.Decimal, due, now time.Time) *Payment {
	return &Payment{
		ID:           uuid.New(),
		AssignmentID: a.ID,
		RiderID:      a.RiderID,
		Type:         t,
		Amount:       amount,
		DueDate:      due,
		Status:       PaymentPending,
		LateFee:      decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
