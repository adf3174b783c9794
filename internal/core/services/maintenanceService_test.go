package services

import (
	"errors"
	"testing"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newMaintenance(bikeID uuid.UUID, priority domain.Priority) *domain.Maintenance {
	return &domain.Maintenance{
		BikeID:      bikeID,
		Type:        domain.MaintenanceRepair,
		Category:    domain.CategoryBrakes,
		Priority:    priority,
		Description: "Front brake pads worn",
	}
}

func TestMaintenanceService_CriticalJobTakesBikeOffline(t *testing.T) {
	f := setupServices(t)
	bike := f.createBike(t, "KA01-0001")

	m, err := f.maintenance.ScheduleMaintenance(f.ctx, newMaintenance(bike.ID, domain.PriorityCritical))
	if err != nil {
		t.Fatalf("ScheduleMaintenance failed: %v", err)
	}
	if m.Status != domain.MaintenanceScheduled {
		t.Errorf("Expected scheduled, got %s", m.Status)
	}
	if b := f.bike(t, bike.ID); b.Status != domain.BikeMaintenance {
		t.Errorf("Expected bike in maintenance, got %s", b.Status)
	}

	rider := f.createRider(t, "r1@example.com")
	_, err = f.assignments.CreateAssignment(f.ctx, domain.AssignmentTerms{
		RiderID:       rider.ID,
		BikeID:        bike.ID,
		TenureMonths:  1,
		MonthlyCharge: decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrNotAvailable) {
		t.Errorf("Expected ErrNotAvailable for bike in maintenance, got %v", err)
	}
}

func TestMaintenanceService_RoutineJobLeavesBikeAvailable(t *testing.T) {
	f := setupServices(t)
	bike := f.createBike(t, "KA01-0001")

	if _, err := f.maintenance.ScheduleMaintenance(f.ctx, newMaintenance(bike.ID, domain.PriorityLow)); err != nil {
		t.Fatalf("ScheduleMaintenance failed: %v", err)
	}
	if b := f.bike(t, bike.ID); b.Status != domain.BikeAvailable {
		t.Errorf("Expected bike to stay available, got %s", b.Status)
	}
}

func TestMaintenanceService_ScheduleRejections(t *testing.T) {
	f := setupServices(t)
	bike := f.createBike(t, "KA01-0001")
	if _, err := f.bikes.RetireBike(f.ctx, bike.ID.String()); err != nil {
		t.Fatalf("RetireBike failed: %v", err)
	}

	if _, err := f.maintenance.ScheduleMaintenance(f.ctx, newMaintenance(bike.ID, domain.PriorityHigh)); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Expected ErrConflict for retired bike, got %v", err)
	}
	if _, err := f.maintenance.ScheduleMaintenance(f.ctx, newMaintenance(uuid.New(), domain.PriorityHigh)); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown bike, got %v", err)
	}

	bad := newMaintenance(bike.ID, domain.PriorityHigh)
	bad.Description = ""
	if _, err := f.maintenance.ScheduleMaintenance(f.ctx, bad); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput without description, got %v", err)
	}
}

func TestMaintenanceService_UpdateStatusLifecycle(t *testing.T) {
	f := setupServices(t)
	bike := f.createBike(t, "KA01-0001")
	m, err := f.maintenance.ScheduleMaintenance(f.ctx, newMaintenance(bike.ID, domain.PriorityCritical))
	if err != nil {
		t.Fatalf("ScheduleMaintenance failed: %v", err)
	}
	id := m.ID.String()

	_, err = f.maintenance.UpdateMaintenanceStatus(f.ctx, id, domain.MaintenanceUpdate{Status: domain.MaintenanceCompleted})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("Expected ErrInvalidInput skipping in_progress, got %v", err)
	}

	if _, err := f.maintenance.UpdateMaintenanceStatus(f.ctx, id, domain.MaintenanceUpdate{Status: domain.MaintenanceInProgress}); err != nil {
		t.Fatalf("UpdateMaintenanceStatus failed: %v", err)
	}

	f.advance(2 * time.Hour)
	technician := "Ravi"
	done, err := f.maintenance.UpdateMaintenanceStatus(f.ctx, id, domain.MaintenanceUpdate{
		Status: domain.MaintenanceCompleted,
		Cost: &domain.Cost{
			Labor: decimal.NewFromInt(300),
			Parts: decimal.NewFromInt(450),
			Other: decimal.NewFromInt(50),
		},
		Technician: &technician,
	})
	if err != nil {
		t.Fatalf("UpdateMaintenanceStatus failed: %v", err)
	}
	if !done.Cost.Total.Equal(decimal.NewFromInt(800)) {
		t.Errorf("Expected total cost 800, got %s", done.Cost.Total)
	}
	if done.CompletedDate == nil || !done.CompletedDate.Equal(f.now) {
		t.Errorf("Expected completed date %s, got %v", f.now, done.CompletedDate)
	}

	b := f.bike(t, bike.ID)
	if b.LastServiceDate == nil || !b.LastServiceDate.Equal(f.now) {
		t.Errorf("Expected last service date to be set, got %v", b.LastServiceDate)
	}
	if b.Status != domain.BikeMaintenance {
		t.Errorf("Expected bike to stay in maintenance until released, got %s", b.Status)
	}

	_, err = f.maintenance.UpdateMaintenanceStatus(f.ctx, id, domain.MaintenanceUpdate{Status: domain.MaintenanceScheduled})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected completed to be terminal, got %v", err)
	}
}

func TestMaintenanceService_ListSortsByPriority(t *testing.T) {
	f := setupServices(t)
	bike := f.createBike(t, "KA01-0001")
	for _, p := range []domain.Priority{domain.PriorityMedium, domain.PriorityCritical, domain.PriorityLow} {
		if _, err := f.maintenance.ScheduleMaintenance(f.ctx, newMaintenance(bike.ID, p)); err != nil {
			t.Fatalf("ScheduleMaintenance failed: %v", err)
		}
	}

	list, page, err := f.maintenance.ListMaintenance(f.ctx,
		domain.MaintenanceFilter{BikeID: &bike.ID}, domain.ListParams{SortBy: "priority"})
	if err != nil {
		t.Fatalf("ListMaintenance failed: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("Expected 3 jobs, got %d", page.Total)
	}
	want := []domain.Priority{domain.PriorityCritical, domain.PriorityMedium, domain.PriorityLow}
	for i, m := range list {
		if m.Priority != want[i] {
			t.Errorf("Position %d: expected %s, got %s", i, want[i], m.Priority)
		}
	}
}
