package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name     string
		current  decimal.Decimal
		previous decimal.Decimal
		want     decimal.Decimal
	}{
		{"no previous period", d(500), d(0), d(0)},
		{"doubled", d(200), d(100), d(100)},
		{"halved", d(50), d(100), d(-50)},
		{"rounded", d(1), d(3), decimal.RequireFromString("-66.67")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GrowthRate(tt.current, tt.previous); !got.Equal(tt.want) {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestUtilizationRate(t *testing.T) {
	if got := UtilizationRate(0, 0); !got.IsZero() {
		t.Errorf("Expected 0 for empty fleet, got %s", got)
	}
	if got := UtilizationRate(1, 3); !got.Equal(decimal.RequireFromString("33.33")) {
		t.Errorf("Expected 33.33, got %s", got)
	}
}

func TestTopRidersByRevenue_TiesKeepCreationOrder(t *testing.T) {
	riders := []*Rider{
		{ID: uuid.New(), Name: "first"},
		{ID: uuid.New(), Name: "second"},
		{ID: uuid.New(), Name: "third"},
		{ID: uuid.New(), Name: "idle"},
	}
	assignments := []*Assignment{
		{RiderID: riders[2].ID, TotalAmount: d(5000)},
		{RiderID: riders[1].ID, TotalAmount: d(3000)},
		{RiderID: riders[0].ID, TotalAmount: d(1000)},
		{RiderID: riders[0].ID, TotalAmount: d(2000)},
	}

	for run := 0; run < 3; run++ {
		top := TopRidersByRevenue(riders, assignments, 3)
		if len(top) != 3 {
			t.Fatalf("Expected 3 riders, got %d", len(top))
		}
		want := []string{"third", "first", "second"}
		for i, r := range top {
			if r.Name != want[i] {
				t.Errorf("Run %d position %d: expected %s, got %s", run, i, want[i], r.Name)
			}
		}
		if top[1].Assignments != 2 {
			t.Errorf("Expected first rider to have 2 assignments, got %d", top[1].Assignments)
		}
	}

	if got := TopRidersByRevenue(riders, assignments, 1); len(got) != 1 || got[0].Name != "third" {
		t.Errorf("Expected only the top rider, got %+v", got)
	}
}

func TestRevenueByCategory(t *testing.T) {
	payments := []*Payment{
		{Type: PaymentRent, Amount: d(1000), Status: PaymentPaid},
		{Type: PaymentDeposit, Amount: d(2000), Status: PaymentPaid},
		{Type: PaymentLateFee, Amount: d(50), Status: PaymentPaid},
		{Type: PaymentPenalty, Amount: d(70), Status: PaymentPaid},
		{Type: PaymentRefund, Amount: d(20), Status: PaymentPaid},
		{Type: PaymentMaintenance, Amount: d(400), Status: PaymentPending},
	}

	r := RevenueByCategory(payments)
	if !r.Rent.Equal(d(1000)) || !r.Deposit.Equal(d(2000)) || !r.LateFee.Equal(d(50)) {
		t.Errorf("Unexpected category sums: %+v", r)
	}
	if !r.Maintenance.IsZero() {
		t.Errorf("Expected pending maintenance charge excluded, got %s", r.Maintenance)
	}
	if !r.Other.Equal(d(50)) {
		t.Errorf("Expected other 50, got %s", r.Other)
	}
	if !r.Total.Equal(d(3100)) {
		t.Errorf("Expected total 3100, got %s", r.Total)
	}
}

func TestMonthlyRevenueSeries(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	paidAt := func(y int, m time.Month, day int) *time.Time {
		ts := time.Date(y, m, day, 10, 0, 0, 0, time.UTC)
		return &ts
	}
	payments := []*Payment{
		{Amount: d(100), Status: PaymentPaid, PaidDate: paidAt(2025, 1, 31)},
		{Amount: d(200), Status: PaymentPaid, PaidDate: paidAt(2025, 3, 1)},
		{Amount: d(300), Status: PaymentPaid, PaidDate: paidAt(2024, 12, 31)},
	}

	series := MonthlyRevenueSeries(payments, now, 3)
	want := []struct {
		month   string
		revenue decimal.Decimal
	}{
		{"2025-01", d(100)},
		{"2025-02", d(0)},
		{"2025-03", d(200)},
	}
	if len(series) != len(want) {
		t.Fatalf("Expected %d months, got %d", len(want), len(series))
	}
	for i, w := range want {
		if series[i].Month != w.month || !series[i].Revenue.Equal(w.revenue) {
			t.Errorf("Month %d: expected %s %s, got %s %s", i, w.month, w.revenue, series[i].Month, series[i].Revenue)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	if days, err := ParsePeriod("90d"); err != nil || days != 90 {
		t.Errorf("Expected 90, got %d (%v)", days, err)
	}
	if _, err := ParsePeriod("2w"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestCountBy(t *testing.T) {
	bikes := []*Bike{{Status: BikeAvailable}, {Status: BikeAssigned}, {Status: BikeAvailable}}
	counts := CountBy(bikes, func(b *Bike) string { return string(b.Status) })
	if counts["available"] != 2 || counts["assigned"] != 1 {
		t.Errorf("Unexpected counts: %v", counts)
	}
}
