package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func ComputeTotal(monthlyCharge decimal.Decimal, tenureMonths int, securityDeposit decimal.Decimal) decimal.Decimal {
	return monthlyCharge.Mul(decimal.NewFromInt(int64(tenureMonths))).Add(securityDeposit)
}

func ComputePending(total, paid decimal.Decimal) decimal.Decimal {
	pending := total.Sub(paid)
	if pending.IsNegative() {
		return decimal.Zero
	}
	return pending
}

// DerivePaymentStatus maps balances to a status. Overdue overrides pending
// and partial once the end date has passed.
func DerivePaymentStatus(total, paid decimal.Decimal, endDate, now time.Time) PaymentStatus {
	if paid.GreaterThanOrEqual(total) {
		return PaymentPaid
	}
	if !endDate.IsZero() && now.After(endDate) {
		return PaymentOverdue
	}
	if paid.Sign() <= 0 {
		return PaymentPending
	}
	return PaymentPartial
}

func DefaultEndDate(start time.Time, tenureMonths int) time.Time {
	return start.AddDate(0, tenureMonths, 0)
}

// Recalculate refreshes every derived financial field. Runs on every
// mutation and again on every read.
func (a *Assignment) Recalculate(now time.Time) {
	a.TotalAmount = ComputeTotal(a.MonthlyCharge, a.TenureMonths, a.SecurityDeposit)
	a.PendingAmount = ComputePending(a.TotalAmount, a.PaidAmount)
	a.PaymentStatus = DerivePaymentStatus(a.TotalAmount, a.PaidAmount, a.EndDate, now)
}

// ApplyPayment adds a settled payment's contribution to the balance.
func (a *Assignment) ApplyPayment(p *Payment, now time.Time) {
	a.PaidAmount = a.PaidAmount.Add(p.Contribution())
	a.Recalculate(now)
}

// RevertPayment removes a previously applied contribution.
func (a *Assignment) RevertPayment(p *Payment, now time.Time) {
	a.PaidAmount = a.PaidAmount.Sub(p.signedAmount())
	a.Recalculate(now)
}

// SumPaid totals the contribution of every settled payment.
func SumPaid(payments []*Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Contribution())
	}
	return sum
}

// DaysLate counts whole days elapsed since due.
func DaysLate(dueDate, now time.Time) int {
	if dueDate.IsZero() || !now.After(dueDate) {
		return 0
	}
	return int(now.Sub(dueDate) / (24 * time.Hour))
}

// LateFee is recomputed from the due date every time and never accumulated,
// so evaluating the same payment twice yields the same fee.
func LateFee(dueDate, now time.Time, feePerDay decimal.Decimal) (int, decimal.Decimal) {
	days := DaysLate(dueDate, now)
	return days, feePerDay.Mul(decimal.NewFromInt(int64(days)))
}
