package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ReconcileService heals cross-entity drift: assignment balances against
// their settled payments, bike status against active assignments and
// rider counters against active assignments.
type ReconcileService struct {
	base
}

func NewReconcileService(
	store ports.Store,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
	events ports.EventRecorder,
	policy Policy,
) *ReconcileService {
	return &ReconcileService{base: newBase(store, logger, validate, cache, events, policy)}
}

func (s *ReconcileService) Reconcile(ctx context.Context, dryRun bool) (*domain.ReconcileReport, error) {
	const op = "services.Reconcile"

	now := s.now()
	report := &domain.ReconcileReport{DryRun: dryRun, Issues: []domain.ReconcileIssue{}, RanAt: now}

	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		assignments, err := tx.Assignments().List(ctx, domain.AssignmentFilter{})
		if err != nil {
			return err
		}
		payments, err := tx.Payments().List(ctx, domain.PaymentFilter{})
		if err != nil {
			return err
		}

		byAssignment := make(map[uuid.UUID][]*domain.Payment)
		for _, p := range payments {
			byAssignment[p.AssignmentID] = append(byAssignment[p.AssignmentID], p)
		}

		activeByBike := make(map[uuid.UUID]*domain.Assignment)
		activeByRider := make(map[uuid.UUID]int)

		for _, a := range assignments {
			report.AssignmentsChecked++
			if err := s.reconcileBalance(ctx, tx, a, byAssignment[a.ID], report, now); err != nil {
				return err
			}
			if !a.IsActive() {
				continue
			}
			activeByRider[a.RiderID]++
			if first, dup := activeByBike[a.BikeID]; dup {
				report.Record("assignment", a.ID, "bike_id", a.BikeID.String(),
					"bike already held by assignment "+first.ID.String(), false)
				continue
			}
			activeByBike[a.BikeID] = a
		}

		bikes, err := tx.Bikes().List(ctx, domain.BikeFilter{})
		if err != nil {
			return err
		}
		for _, b := range bikes {
			report.BikesChecked++
			if err := s.reconcileBike(ctx, tx, b, activeByBike[b.ID], report, now); err != nil {
				return err
			}
		}

		riders, err := tx.Riders().List(ctx, domain.RiderFilter{})
		if err != nil {
			return err
		}
		for _, r := range riders {
			report.RidersChecked++
			expected := activeByRider[r.ID]
			if r.CurrentAssignments == expected {
				continue
			}
			report.Record("rider", r.ID, "current_assignments",
				strconv.Itoa(r.CurrentAssignments), strconv.Itoa(expected), true)
			if dryRun {
				continue
			}
			r.CurrentAssignments = expected
			r.UpdatedAt = now
			if err := tx.Riders().Update(ctx, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Reconciliation failed", map[string]interface{}{
			"error":   err.Error(),
			"dry_run": dryRun,
		})
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if report.Repaired > 0 {
		s.invalidateAggregates(ctx, "bike:*")
	}

	level := s.logger.Info
	if len(report.Issues) > 0 {
		level = s.logger.Warn
	}
	level("Reconciliation finished", map[string]interface{}{
		"dry_run":  dryRun,
		"issues":   len(report.Issues),
		"repaired": report.Repaired,
	})
	return report, nil
}

func (s *ReconcileService) reconcileBalance(ctx context.Context, tx ports.Store, a *domain.Assignment, payments []*domain.Payment, report *domain.ReconcileReport, now time.Time) error {
	storedPaid := a.PaidAmount
	storedTotal := a.TotalAmount
	storedPending := a.PendingAmount

	a.PaidAmount = domain.SumPaid(payments)
	a.Recalculate(now)

	dirty := false
	if !storedPaid.Equal(a.PaidAmount) {
		report.Record("assignment", a.ID, "paid_amount", storedPaid.String(), a.PaidAmount.String(), true)
		dirty = true
	}
	if !storedTotal.Equal(a.TotalAmount) {
		report.Record("assignment", a.ID, "total_amount", storedTotal.String(), a.TotalAmount.String(), true)
		dirty = true
	}
	if !storedPending.Equal(a.PendingAmount) && !dirty {
		report.Record("assignment", a.ID, "pending_amount", storedPending.String(), a.PendingAmount.String(), true)
		dirty = true
	}
	if !dirty || report.DryRun {
		return nil
	}
	a.UpdatedAt = now
	return tx.Assignments().Update(ctx, a)
}

func (s *ReconcileService) reconcileBike(ctx context.Context, tx ports.Store, b *domain.Bike, active *domain.Assignment, report *domain.ReconcileReport, now time.Time) error {
	if b.IsRetired() {
		if active != nil {
			report.Record("bike", b.ID, "status", string(b.Status), "retired bike on active assignment "+active.ID.String(), false)
		}
		return nil
	}

	wantStatus := b.Status
	var wantRider *uuid.UUID
	switch {
	case active != nil:
		wantStatus = domain.BikeAssigned
		id := active.RiderID
		wantRider = &id
	case b.Status == domain.BikeAssigned:
		wantStatus = domain.BikeAvailable
	}

	dirty := false
	if wantStatus != b.Status {
		report.Record("bike", b.ID, "status", string(b.Status), string(wantStatus), true)
		dirty = true
	}
	if uuidString(b.AssignedTo) != uuidString(wantRider) {
		report.Record("bike", b.ID, "assigned_to", uuidString(b.AssignedTo), uuidString(wantRider), true)
		dirty = true
	}
	if !dirty || report.DryRun {
		return nil
	}

	b.Status = wantStatus
	b.AssignedTo = wantRider
	b.UpdatedAt = now
	return tx.Bikes().Update(ctx, b)
}

func uuidString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
