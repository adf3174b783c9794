package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestComputeTotal(t *testing.T) {
	if got := ComputeTotal(d(1000), 6, d(2000)); !got.Equal(d(8000)) {
		t.Errorf("Expected 8000, got %s", got)
	}
}

func TestComputePendingNeverNegative(t *testing.T) {
	if got := ComputePending(d(8000), d(9000)); !got.IsZero() {
		t.Errorf("Expected 0, got %s", got)
	}
	if got := ComputePending(d(8000), d(3000)); !got.Equal(d(5000)) {
		t.Errorf("Expected 5000, got %s", got)
	}
}

func TestDerivePaymentStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, 0, -1)

	tests := []struct {
		name  string
		total decimal.Decimal
		paid  decimal.Decimal
		end   time.Time
		want  PaymentStatus
	}{
		{"nothing paid", d(8000), d(0), future, PaymentPending},
		{"some paid", d(8000), d(100), future, PaymentPartial},
		{"fully paid", d(8000), d(8000), future, PaymentPaid},
		{"overpaid", d(8000), d(9000), future, PaymentPaid},
		{"paid after end", d(8000), d(8000), past, PaymentPaid},
		{"unpaid after end", d(8000), d(0), past, PaymentOverdue},
		{"partial after end", d(8000), d(10), past, PaymentOverdue},
		{"negative paid", d(8000), d(-50), future, PaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DerivePaymentStatus(tt.total, tt.paid, tt.end, now); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAssignment_ApplyAndRevertPayment(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := &Assignment{
		TenureMonths:    6,
		MonthlyCharge:   d(1000),
		SecurityDeposit: d(2000),
		EndDate:         now.AddDate(0, 6, 0),
	}
	a.Recalculate(now)

	p := &Payment{Type: PaymentRent, Amount: d(3000), Status: PaymentPaid}
	a.ApplyPayment(p, now)
	if !a.PaidAmount.Equal(d(3000)) || a.PaymentStatus != PaymentPartial {
		t.Errorf("Expected partial 3000, got %s %s", a.PaymentStatus, a.PaidAmount)
	}

	p.Refund()
	a.RevertPayment(p, now)
	if !a.PaidAmount.IsZero() || a.PaymentStatus != PaymentPending {
		t.Errorf("Expected pending 0, got %s %s", a.PaymentStatus, a.PaidAmount)
	}
}

func TestSumPaid(t *testing.T) {
	payments := []*Payment{
		{Type: PaymentRent, Amount: d(1000), Status: PaymentPaid},
		{Type: PaymentDeposit, Amount: d(2000), Status: PaymentPaid},
		{Type: PaymentRent, Amount: d(1000), Status: PaymentPending},
		{Type: PaymentRent, Amount: d(500), Status: PaymentRefunded},
		{Type: PaymentRefund, Amount: d(300), Status: PaymentPaid},
	}
	if got := SumPaid(payments); !got.Equal(d(2700)) {
		t.Errorf("Expected 2700, got %s", got)
	}
}

func TestLateFee(t *testing.T) {
	due := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		now      time.Time
		wantDays int
		wantFee  decimal.Decimal
	}{
		{"before due", due.Add(-time.Hour), 0, d(0)},
		{"same instant", due, 0, d(0)},
		{"under a day", due.Add(23 * time.Hour), 0, d(0)},
		{"one day", due.Add(24 * time.Hour), 1, d(50)},
		{"ten days and change", due.Add(10*24*time.Hour + 5*time.Hour), 10, d(500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, fee := LateFee(due, tt.now, d(50))
			if days != tt.wantDays || !fee.Equal(tt.wantFee) {
				t.Errorf("Expected %d days / %s, got %d / %s", tt.wantDays, tt.wantFee, days, fee)
			}
		})
	}
}

func TestPayment_EvaluateOverdueIsStable(t *testing.T) {
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	now := due.AddDate(0, 0, 4)
	p := &Payment{Type: PaymentRent, Amount: d(1000), Status: PaymentPending, DueDate: due}

	if !p.EvaluateOverdue(now, d(25)) {
		t.Fatal("Expected first evaluation to change the payment")
	}
	if p.EvaluateOverdue(now, d(25)) {
		t.Error("Expected second evaluation at the same instant to change nothing")
	}
	if p.Status != PaymentOverdue || p.DaysLate != 4 || !p.LateFee.Equal(d(100)) {
		t.Errorf("Unexpected payment state: %s %d %s", p.Status, p.DaysLate, p.LateFee)
	}

	paid := &Payment{Status: PaymentPaid, DueDate: due}
	if paid.EvaluateOverdue(now, d(25)) {
		t.Error("Expected settled payment to be left alone")
	}
}

func TestPayment_MarkPaidAndRefund(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &Payment{Status: PaymentOverdue}

	if !p.MarkPaid(MethodCard, "TX-9", now) {
		t.Fatal("Expected overdue payment to settle")
	}
	if p.MarkPaid(MethodCash, "", now) {
		t.Error("Expected settling twice to report no change")
	}
	if p.Method != MethodCard || p.TransactionRef != "TX-9" {
		t.Errorf("Expected original settlement details kept, got %s %s", p.Method, p.TransactionRef)
	}
	if !p.Refund() || p.Refund() {
		t.Error("Expected exactly one refund to take effect")
	}
}

func TestAssignment_CloseOnlyOnce(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	a := &Assignment{Status: AssignmentActive, EndDate: now.AddDate(0, 3, 0)}

	if !a.Close(AssignmentTerminated, now) {
		t.Fatal("Expected active assignment to close")
	}
	if !a.EndDate.Equal(now) {
		t.Errorf("Expected termination to move end date to now, got %s", a.EndDate)
	}
	if a.Close(AssignmentCompleted, now.Add(time.Hour)) {
		t.Error("Expected closed assignment to stay closed")
	}
	if a.Status != AssignmentTerminated {
		t.Errorf("Expected terminated, got %s", a.Status)
	}
}
