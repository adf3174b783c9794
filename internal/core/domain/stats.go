package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RevenueBreakdown struct {
	Rent        decimal.Decimal `json:"rent"`
	Deposit     decimal.Decimal `json:"deposit"`
	Maintenance decimal.Decimal `json:"maintenance"`
	LateFee     decimal.Decimal `json:"late_fee"`
	Other       decimal.Decimal `json:"other"`
	Total       decimal.Decimal `json:"total"`
}

type RiderStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

type BikeStats struct {
	Total           int             `json:"total"`
	ByStatus        map[string]int  `json:"by_status"`
	UtilizationRate decimal.Decimal `json:"utilization_rate"`
}

type AssignmentStats struct {
	Total             int             `json:"total"`
	ByStatus          map[string]int  `json:"by_status"`
	ByPaymentStatus   map[string]int  `json:"by_payment_status"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	OverdueCount      int             `json:"overdue_count"`
}

type PaymentStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
	ByType   map[string]int `json:"by_type"`
}

type MaintenanceStats struct {
	Total      int             `json:"total"`
	ByStatus   map[string]int  `json:"by_status"`
	ByPriority map[string]int  `json:"by_priority"`
	TotalCost  decimal.Decimal `json:"total_cost"`
}

type RiderRevenue struct {
	RiderID     uuid.UUID       `json:"rider_id"`
	Name        string          `json:"name"`
	Revenue     decimal.Decimal `json:"revenue"`
	Assignments int             `json:"assignments"`
}

type MonthlyRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// swagger:model domain.DashboardStats
type DashboardStats struct {
	Riders      RiderStats       `json:"riders"`
	Bikes       BikeStats        `json:"bikes"`
	Assignments AssignmentStats  `json:"assignments"`
	Payments    PaymentStats     `json:"payments"`
	Maintenance MaintenanceStats `json:"maintenance"`
	Revenue     RevenueBreakdown `json:"revenue"`
	TopRiders   []RiderRevenue   `json:"top_riders"`
	GeneratedAt time.Time        `json:"generated_at"`
}

type MetricComparison struct {
	Current    decimal.Decimal `json:"current"`
	Previous   decimal.Decimal `json:"previous"`
	GrowthRate decimal.Decimal `json:"growth_rate"`
}

// swagger:model domain.Analytics
type Analytics struct {
	Period         string           `json:"period"`
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
	Revenue        MetricComparison `json:"revenue"`
	NewAssignments MetricComparison `json:"new_assignments"`
	NewRiders      MetricComparison `json:"new_riders"`
	MonthlyRevenue []MonthlyRevenue `json:"monthly_revenue"`
	TopRiders      []RiderRevenue   `json:"top_riders"`
	GeneratedAt    time.Time        `json:"generated_at"`
}

var periods = map[string]int{
	"7d":   7,
	"30d":  30,
	"90d":  90,
	"365d": 365,
}

// ParsePeriod returns the number of days covered by an analytics period.
func ParsePeriod(period string) (int, error) {
	days, ok := periods[period]
	if !ok {
		return 0, fmt.Errorf("%w: unknown period %q", ErrInvalidInput, period)
	}
	return days, nil
}

func CountBy[T any](items []T, key func(T) string) map[string]int {
	counts := make(map[string]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// RevenueByCategory sums settled payments into reporting buckets.
// Penalties, refunds and other charges land in Other.
func RevenueByCategory(payments []*Payment) RevenueBreakdown {
	r := RevenueBreakdown{
		Rent:        decimal.Zero,
		Deposit:     decimal.Zero,
		Maintenance: decimal.Zero,
		LateFee:     decimal.Zero,
		Other:       decimal.Zero,
		Total:       decimal.Zero,
	}
	for _, p := range payments {
		amount := p.Contribution()
		if amount.IsZero() {
			continue
		}
		switch p.Type {
		case PaymentRent:
			r.Rent = r.Rent.Add(amount)
		case PaymentDeposit:
			r.Deposit = r.Deposit.Add(amount)
		case PaymentMaintenance:
			r.Maintenance = r.Maintenance.Add(amount)
		case PaymentLateFee:
			r.LateFee = r.LateFee.Add(amount)
		default:
			r.Other = r.Other.Add(amount)
		}
		r.Total = r.Total.Add(amount)
	}
	return r
}

// UtilizationRate is assigned/total as a percentage, 0 for an empty fleet.
func UtilizationRate(assigned, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(assigned)).
		Div(decimal.NewFromInt(int64(total))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// GrowthRate is the percentage change from previous to current. It is
// exactly 0 when previous is 0, which does not mean "no change".
func GrowthRate(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}

func Compare(current, previous decimal.Decimal) MetricComparison {
	return MetricComparison{
		Current:    current,
		Previous:   previous,
		GrowthRate: GrowthRate(current, previous),
	}
}

// TopRidersByRevenue ranks riders by the total value of their assignments.
// riders must be in creation order; equal revenue keeps that order.
func TopRidersByRevenue(riders []*Rider, assignments []*Assignment, n int) []RiderRevenue {
	totals := make(map[uuid.UUID]decimal.Decimal)
	counts := make(map[uuid.UUID]int)
	for _, a := range assignments {
		totals[a.RiderID] = totals[a.RiderID].Add(a.TotalAmount)
		counts[a.RiderID]++
	}

	ranked := make([]RiderRevenue, 0, len(totals))
	for _, r := range riders {
		if counts[r.ID] == 0 {
			continue
		}
		ranked = append(ranked, RiderRevenue{
			RiderID:     r.ID,
			Name:        r.Name,
			Revenue:     totals[r.ID],
			Assignments: counts[r.ID],
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RevenueBetween sums settled payments with a paid date in [from, to).
func RevenueBetween(payments []*Payment, from, to time.Time) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		if p.PaidDate == nil || p.PaidDate.Before(from) || !p.PaidDate.Before(to) {
			continue
		}
		sum = sum.Add(p.Contribution())
	}
	return sum
}

// CountCreatedBetween counts timestamps in [from, to).
func CountCreatedBetween(created []time.Time, from, to time.Time) int {
	n := 0
	for _, t := range created {
		if !t.Before(from) && t.Before(to) {
			n++
		}
	}
	return n
}

// MonthlyRevenueSeries returns settled revenue for the last months
// calendar months ending with the month of now, oldest first.
func MonthlyRevenueSeries(payments []*Payment, now time.Time, months int) []MonthlyRevenue {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	series := make([]MonthlyRevenue, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		series = append(series, MonthlyRevenue{
			Month:   start.Format("2006-01"),
			Revenue: RevenueBetween(payments, start, end),
		})
	}
	return series
}
