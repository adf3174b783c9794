package services

import (
	"testing"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/shopspring/decimal"
)

// corrupt reproduces a multi-write failure that left balances and
// counters out of step with the rental.
func corrupt(t *testing.T, f *fixture, a *domain.Assignment) {
	t.Helper()

	stored := f.assignment(t, a.ID)
	stored.PaidAmount = decimal.NewFromInt(999)
	if err := f.store.Assignments().Update(f.ctx, stored); err != nil {
		t.Fatalf("Update assignment failed: %v", err)
	}

	bike := f.bike(t, a.BikeID)
	bike.Status = domain.BikeAvailable
	bike.AssignedTo = nil
	if err := f.store.Bikes().Update(f.ctx, bike); err != nil {
		t.Fatalf("Update bike failed: %v", err)
	}

	rider := f.rider(t, a.RiderID)
	rider.CurrentAssignments = 0
	if err := f.store.Riders().Update(f.ctx, rider); err != nil {
		t.Fatalf("Update rider failed: %v", err)
	}
}

func TestReconcileService_DryRunReportsOnly(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	a := f.rent(t, rider, f.createBike(t, "KA01-0001"))
	corrupt(t, f, a)

	report, err := f.reconciler.Reconcile(f.ctx, true)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(report.Issues) != 4 {
		t.Errorf("Expected 4 issues, got %d: %+v", len(report.Issues), report.Issues)
	}
	if report.Repaired != 0 {
		t.Errorf("Expected nothing repaired on dry run, got %d", report.Repaired)
	}
	if got := f.assignment(t, a.ID); !got.PaidAmount.Equal(decimal.NewFromInt(999)) {
		t.Errorf("Expected dry run to leave paid amount, got %s", got.PaidAmount)
	}
}

func TestReconcileService_Repairs(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	a := f.rent(t, rider, f.createBike(t, "KA01-0001"))

	if _, err := f.billing.RecordPayment(f.ctx, domain.PaymentInput{
		AssignmentID: a.ID,
		RiderID:      rider.ID,
		Amount:       decimal.NewFromInt(500),
		Type:         domain.PaymentRent,
		Method:       domain.MethodCash,
		Status:       domain.PaymentPaid,
	}); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	corrupt(t, f, a)

	report, err := f.reconciler.Reconcile(f.ctx, false)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if report.Repaired != len(report.Issues) || report.Repaired == 0 {
		t.Errorf("Expected every issue repaired, got %d of %d", report.Repaired, len(report.Issues))
	}

	got := f.assignment(t, a.ID)
	if !got.PaidAmount.Equal(decimal.NewFromInt(500)) || !got.PendingAmount.Equal(decimal.NewFromInt(7500)) {
		t.Errorf("Expected paid 500 pending 7500, got %s / %s", got.PaidAmount, got.PendingAmount)
	}
	bike := f.bike(t, a.BikeID)
	if bike.Status != domain.BikeAssigned || bike.AssignedTo == nil || *bike.AssignedTo != rider.ID {
		t.Errorf("Expected bike reassigned to rider, got %s / %v", bike.Status, bike.AssignedTo)
	}
	if r := f.rider(t, rider.ID); r.CurrentAssignments != 1 {
		t.Errorf("Expected rider current assignments 1, got %d", r.CurrentAssignments)
	}

	again, err := f.reconciler.Reconcile(f.ctx, false)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	if len(again.Issues) != 0 {
		t.Errorf("Expected a clean second pass, got %+v", again.Issues)
	}
}

func TestReconcileService_ReleasesOrphanedBike(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	a := f.rent(t, rider, f.createBike(t, "KA01-0001"))

	stored := f.assignment(t, a.ID)
	stored.Close(domain.AssignmentTerminated, f.now)
	if err := f.store.Assignments().Update(f.ctx, stored); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := f.reconciler.Reconcile(f.ctx, false); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	bike := f.bike(t, a.BikeID)
	if bike.Status != domain.BikeAvailable || bike.AssignedTo != nil {
		t.Errorf("Expected bike released, got %s / %v", bike.Status, bike.AssignedTo)
	}
	if r := f.rider(t, rider.ID); r.CurrentAssignments != 0 {
		t.Errorf("Expected rider counter 0, got %d", r.CurrentAssignments)
	}
}
