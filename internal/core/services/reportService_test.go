package services

import (
	"errors"
	"testing"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/shopspring/decimal"
)

func TestReportService_Dashboard(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	bike := f.createBike(t, "KA01-0001")
	f.createBike(t, "KA01-0002")
	a := f.rent(t, rider, bike)

	if _, err := f.billing.RecordPayment(f.ctx, domain.PaymentInput{
		AssignmentID: a.ID,
		RiderID:      rider.ID,
		Amount:       decimal.NewFromInt(2000),
		Type:         domain.PaymentDeposit,
		Method:       domain.MethodCash,
		Status:       domain.PaymentPaid,
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	stats, err := f.reports.Dashboard(f.ctx, 0)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}

	if stats.Bikes.Total != 2 || stats.Bikes.ByStatus["assigned"] != 1 {
		t.Errorf("Unexpected bike stats: %+v", stats.Bikes)
	}
	if !stats.Bikes.UtilizationRate.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected utilization 50, got %s", stats.Bikes.UtilizationRate)
	}
	if stats.Assignments.ByPaymentStatus["partial"] != 1 {
		t.Errorf("Expected one partial assignment, got %+v", stats.Assignments.ByPaymentStatus)
	}
	if !stats.Assignments.OutstandingAmount.Equal(decimal.NewFromInt(6000)) {
		t.Errorf("Expected outstanding 6000, got %s", stats.Assignments.OutstandingAmount)
	}
	if !stats.Revenue.Deposit.Equal(decimal.NewFromInt(2000)) || !stats.Revenue.Total.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Unexpected revenue breakdown: %+v", stats.Revenue)
	}
	if len(stats.TopRiders) != 1 || stats.TopRiders[0].RiderID != rider.ID {
		t.Errorf("Expected rider in top riders, got %+v", stats.TopRiders)
	}
}

func TestReportService_DashboardCachedUntilWrite(t *testing.T) {
	f := setupServices(t)
	f.createRider(t, "r1@example.com")

	first, err := f.reports.Dashboard(f.ctx, 5)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if f.events.misses != 1 {
		t.Fatalf("Expected first call to miss, got %d misses", f.events.misses)
	}

	second, err := f.reports.Dashboard(f.ctx, 5)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if f.events.hits != 1 {
		t.Errorf("Expected second call to hit the cache, got %d hits", f.events.hits)
	}
	if !second.GeneratedAt.Equal(first.GeneratedAt) {
		t.Errorf("Expected cached dashboard to be served")
	}

	f.createRider(t, "r2@example.com")

	third, err := f.reports.Dashboard(f.ctx, 5)
	if err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if third.Riders.Total != 2 {
		t.Errorf("Expected write to invalidate dashboard, got %d riders", third.Riders.Total)
	}
}

func TestReportService_DashboardExpires(t *testing.T) {
	f := setupServices(t)

	if _, err := f.reports.Dashboard(f.ctx, 5); err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	f.advance(DefaultPolicy().ReportCacheTTL + time.Second)
	if _, err := f.reports.Dashboard(f.ctx, 5); err != nil {
		t.Fatalf("Dashboard failed: %v", err)
	}
	if f.events.hits != 0 || f.events.misses != 2 {
		t.Errorf("Expected expired entry to miss, got %d hits / %d misses", f.events.hits, f.events.misses)
	}
}

func TestReportService_AnalyticsGrowth(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	a := f.rent(t, rider, f.createBike(t, "KA01-0001"))

	pay := func(amount int64) {
		t.Helper()
		if _, err := f.billing.RecordPayment(f.ctx, domain.PaymentInput{
			AssignmentID: a.ID,
			RiderID:      rider.ID,
			Amount:       decimal.NewFromInt(amount),
			Type:         domain.PaymentRent,
			Method:       domain.MethodUPI,
			Status:       domain.PaymentPaid,
		}); err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}
	}

	pay(1000)
	f.advance(time.Minute)

	fresh, err := f.reports.Analytics(f.ctx, "30d", 5)
	if err != nil {
		t.Fatalf("Analytics failed: %v", err)
	}
	if !fresh.Revenue.GrowthRate.IsZero() {
		t.Errorf("Expected growth 0 without a previous period, got %s", fresh.Revenue.GrowthRate)
	}
	if !fresh.Revenue.Current.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected current revenue 1000, got %s", fresh.Revenue.Current)
	}

	f.advance(31 * 24 * time.Hour)
	pay(1500)
	f.advance(time.Minute)

	got, err := f.reports.Analytics(f.ctx, "30d", 5)
	if err != nil {
		t.Fatalf("Analytics failed: %v", err)
	}
	if !got.Revenue.Previous.Equal(decimal.NewFromInt(1000)) || !got.Revenue.Current.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Unexpected revenue comparison: %+v", got.Revenue)
	}
	if !got.Revenue.GrowthRate.Equal(decimal.NewFromInt(50)) {
		t.Errorf("Expected growth 50, got %s", got.Revenue.GrowthRate)
	}
	if len(got.MonthlyRevenue) != 1 {
		t.Errorf("Expected one month in a 30d series, got %d", len(got.MonthlyRevenue))
	}
}

func TestReportService_AnalyticsRejectsUnknownPeriod(t *testing.T) {
	f := setupServices(t)

	_, err := f.reports.Analytics(f.ctx, "14d", 5)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestClampTop(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultTopRiders},
		{-3, DefaultTopRiders},
		{7, 7},
		{500, MaxTopRiders},
	}
	for _, tt := range tests {
		if got := clampTop(tt.in); got != tt.want {
			t.Errorf("clampTop(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
