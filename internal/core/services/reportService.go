package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultTopRiders = 5
	MaxTopRiders     = 50
)

// ReportService builds dashboard read models from store snapshots and
// serves them through the read cache.
type ReportService struct {
	base
}

func NewReportService(
	store ports.Store,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	events ports.EventRecorder,
	policy Policy,
) *ReportService {
	return &ReportService{base: newBase(store, logger, validate, cache, events, policy)}
}

// snapshot is every entity evaluated at one instant.
type snapshot struct {
	riders      []*domain.Rider
	bikes       []*domain.Bike
	assignments []*domain.Assignment
	payments    []*domain.Payment
	maintenance []*domain.Maintenance
}

func (s *ReportService) load(ctx context.Context, now time.Time) (*snapshot, error) {
	var (
		snap snapshot
		err  error
	)
	if snap.riders, err = s.store.Riders().List(ctx, domain.RiderFilter{}); err != nil {
		return nil, err
	}
	if snap.bikes, err = s.store.Bikes().List(ctx, domain.BikeFilter{}); err != nil {
		return nil, err
	}
	if snap.assignments, err = s.store.Assignments().List(ctx, domain.AssignmentFilter{}); err != nil {
		return nil, err
	}
	if snap.payments, err = s.store.Payments().List(ctx, domain.PaymentFilter{}); err != nil {
		return nil, err
	}
	if snap.maintenance, err = s.store.Maintenance().List(ctx, domain.MaintenanceFilter{}); err != nil {
		return nil, err
	}

	fees := make(map[uuid.UUID]decimal.Decimal, len(snap.assignments))
	for _, a := range snap.assignments {
		a.Recalculate(now)
		fees[a.ID] = a.LateFeePerDay
	}
	for _, p := range snap.payments {
		p.EvaluateOverdue(now, fees[p.AssignmentID])
	}
	return &snap, nil
}

func (s *ReportService) Dashboard(ctx context.Context, top int) (*domain.DashboardStats, error) {
	top = clampTop(top)
	key := CacheKey(DashboardEndpoint, map[string]string{"top": strconv.Itoa(top)})

	return cached(ctx, &s.base, key, func() (*domain.DashboardStats, error) {
		now := s.now()
		snap, err := s.load(ctx, now)
		if err != nil {
			return nil, err
		}
		return buildDashboard(snap, now, top), nil
	})
}

func buildDashboard(snap *snapshot, now time.Time, top int) *domain.DashboardStats {
	stats := &domain.DashboardStats{GeneratedAt: now}

	stats.Riders = domain.RiderStats{
		Total:    len(snap.riders),
		ByStatus: domain.CountBy(snap.riders, func(r *domain.Rider) string { return string(r.Status) }),
	}

	bikesByStatus := domain.CountBy(snap.bikes, func(b *domain.Bike) string { return string(b.Status) })
	stats.Bikes = domain.BikeStats{
		Total:           len(snap.bikes),
		ByStatus:        bikesByStatus,
		UtilizationRate: domain.UtilizationRate(bikesByStatus[string(domain.BikeAssigned)], len(snap.bikes)),
	}

	outstanding := decimal.Zero
	overdue := 0
	for _, a := range snap.assignments {
		if a.IsActive() {
			outstanding = outstanding.Add(a.PendingAmount)
		}
		if a.PaymentStatus == domain.PaymentOverdue {
			overdue++
		}
	}
	stats.Assignments = domain.AssignmentStats{
		Total:             len(snap.assignments),
		ByStatus:          domain.CountBy(snap.assignments, func(a *domain.Assignment) string { return string(a.Status) }),
		ByPaymentStatus:   domain.CountBy(snap.assignments, func(a *domain.Assignment) string { return string(a.PaymentStatus) }),
		OutstandingAmount: outstanding,
		OverdueCount:      overdue,
	}

	stats.Payments = domain.PaymentStats{
		Total:    len(snap.payments),
		ByStatus: domain.CountBy(snap.payments, func(p *domain.Payment) string { return string(p.Status) }),
		ByType:   domain.CountBy(snap.payments, func(p *domain.Payment) string { return string(p.Type) }),
	}

	cost := decimal.Zero
	for _, m := range snap.maintenance {
		cost = cost.Add(m.Cost.Total)
	}
	stats.Maintenance = domain.MaintenanceStats{
		Total:      len(snap.maintenance),
		ByStatus:   domain.CountBy(snap.maintenance, func(m *domain.Maintenance) string { return string(m.Status) }),
		ByPriority: domain.CountBy(snap.maintenance, func(m *domain.Maintenance) string { return string(m.Priority) }),
		TotalCost:  cost,
	}

	stats.Revenue = domain.RevenueByCategory(snap.payments)
	stats.TopRiders = domain.TopRidersByRevenue(snap.riders, snap.assignments, top)
	return stats
}

// Analytics compares a period with the equally long period before it.
func (s *ReportService) Analytics(ctx context.Context, period string, top int) (*domain.Analytics, error) {
	if period == "" {
		period = "30d"
	}
	days, err := domain.ParsePeriod(period)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "period",
			Message: "must be one of: 7d 30d 90d 365d",
		})
	}
	top = clampTop(top)
	key := CacheKey(AnalyticsEndpoint, map[string]string{
		"period": period,
		"top":    strconv.Itoa(top),
	})

	return cached(ctx, &s.base, key, func() (*domain.Analytics, error) {
		now := s.now()
		snap, err := s.load(ctx, now)
		if err != nil {
			return nil, err
		}
		return buildAnalytics(snap, now, period, days, top), nil
	})
}

func buildAnalytics(snap *snapshot, now time.Time, period string, days, top int) *domain.Analytics {
	to := now
	from := now.AddDate(0, 0, -days)
	prevFrom := from.AddDate(0, 0, -days)

	assignmentCreated := make([]time.Time, 0, len(snap.assignments))
	inPeriod := make([]*domain.Assignment, 0)
	for _, a := range snap.assignments {
		assignmentCreated = append(assignmentCreated, a.CreatedAt)
		if !a.CreatedAt.Before(from) && a.CreatedAt.Before(to) {
			inPeriod = append(inPeriod, a)
		}
	}
	riderCreated := make([]time.Time, 0, len(snap.riders))
	for _, r := range snap.riders {
		riderCreated = append(riderCreated, r.CreatedAt)
	}

	count := func(ts []time.Time, a, b time.Time) decimal.Decimal {
		return decimal.NewFromInt(int64(domain.CountCreatedBetween(ts, a, b)))
	}

	months := days / 30
	if months < 1 {
		months = 1
	}
	if months > 12 {
		months = 12
	}

	return &domain.Analytics{
		Period: period,
		From:   from,
		To:     to,
		Revenue: domain.Compare(
			domain.RevenueBetween(snap.payments, from, to),
			domain.RevenueBetween(snap.payments, prevFrom, from),
		),
		NewAssignments: domain.Compare(count(assignmentCreated, from, to), count(assignmentCreated, prevFrom, from)),
		NewRiders:      domain.Compare(count(riderCreated, from, to), count(riderCreated, prevFrom, from)),
		MonthlyRevenue: domain.MonthlyRevenueSeries(snap.payments, now, months),
		TopRiders:      domain.TopRidersByRevenue(snap.riders, inPeriod, top),
		GeneratedAt:    now,
	}
}

// cached serves key from the read cache, computing and storing it on a
// miss. Cache failures degrade to a direct computation.
func cached[T any](ctx context.Context, b *base, key string, compute func() (T, error)) (T, error) {
	var result T

	if data, err := b.cache.Get(ctx, key); err == nil {
		if err := json.Unmarshal(data, &result); err == nil {
			b.events.RecordCacheLookup(true)
			return result, nil
		}
	}
	b.events.RecordCacheLookup(false)

	result, err := compute()
	if err != nil {
		b.logger.Error("Failed to build report", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
		return result, fmt.Errorf("services.report %s: %w", key, err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		b.logger.Warn("Failed to marshal report for cache", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
		return result, nil
	}
	if err := b.cache.Set(ctx, key, data, b.policy.ReportCacheTTL); err != nil {
		b.logger.Warn("Failed to cache report", map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		})
	}
	return result, nil
}

func clampTop(top int) int {
	if top <= 0 {
		return DefaultTopRiders
	}
	if top > MaxTopRiders {
		return MaxTopRiders
	}
	return top
}
