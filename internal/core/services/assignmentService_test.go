package services

import (
	"errors"
	"testing"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestAssignmentService_CreateAssignment(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	bike := f.createBike(t, "KA01-0001")

	a := f.rent(t, rider, bike)

	if !a.TotalAmount.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected total 8000, got %s", a.TotalAmount)
	}
	if !a.PendingAmount.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected pending 8000, got %s", a.PendingAmount)
	}
	if a.PaymentStatus != domain.PaymentPending {
		t.Errorf("Expected payment status pending, got %s", a.PaymentStatus)
	}
	if a.Status != domain.AssignmentActive {
		t.Errorf("Expected status active, got %s", a.Status)
	}
	if !a.EndDate.Equal(f.now.AddDate(0, 6, 0)) {
		t.Errorf("Expected end date six months out, got %s", a.EndDate)
	}
	if !a.LateFeePerDay.Equal(DefaultPolicy().DefaultLateFeePerDay) {
		t.Errorf("Expected default late fee, got %s", a.LateFeePerDay)
	}

	b := f.bike(t, bike.ID)
	if b.Status != domain.BikeAssigned {
		t.Errorf("Expected bike assigned, got %s", b.Status)
	}
	if b.AssignedTo == nil || *b.AssignedTo != rider.ID {
		t.Errorf("Expected bike assigned to %s, got %v", rider.ID, b.AssignedTo)
	}

	r := f.rider(t, rider.ID)
	if r.CurrentAssignments != 1 || r.TotalAssignments != 1 {
		t.Errorf("Expected rider counters 1/1, got %d/%d", r.CurrentAssignments, r.TotalAssignments)
	}
	if f.events.events["assignment_created"] != 1 {
		t.Errorf("Expected assignment_created event")
	}
}

func TestAssignmentService_CreateAssignmentBikeAlreadyAssigned(t *testing.T) {
	f := setupServices(t)
	first := f.createRider(t, "r1@example.com")
	second := f.createRider(t, "r2@example.com")
	bike := f.createBike(t, "KA01-0001")
	f.rent(t, first, bike)

	_, err := f.assignments.CreateAssignment(f.ctx, domain.AssignmentTerms{
		RiderID:       second.ID,
		BikeID:        bike.ID,
		TenureMonths:  3,
		MonthlyCharge: decimal.NewFromInt(900),
	})
	if !errors.Is(err, domain.ErrNotAvailable) {
		t.Fatalf("Expected ErrNotAvailable, got %v", err)
	}

	r := f.rider(t, second.ID)
	if r.CurrentAssignments != 0 || r.TotalAssignments != 0 {
		t.Errorf("Expected second rider untouched, got %d/%d", r.CurrentAssignments, r.TotalAssignments)
	}
	b := f.bike(t, bike.ID)
	if b.AssignedTo == nil || *b.AssignedTo != first.ID || b.TotalAssignments != 1 {
		t.Errorf("Expected bike still held by first rider, got %+v", b)
	}
	all, err := f.store.Assignments().List(f.ctx, domain.AssignmentFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 assignment, got %d", len(all))
	}
}

func TestAssignmentService_CreateAssignmentRejections(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, f *fixture, rider *domain.Rider, bike *domain.Bike) domain.AssignmentTerms
		wantErr error
	}{
		{
			name: "missing rider",
			prepare: func(t *testing.T, f *fixture, rider *domain.Rider, bike *domain.Bike) domain.AssignmentTerms {
				return domain.AssignmentTerms{RiderID: uuid.New(), BikeID: bike.ID, TenureMonths: 1, MonthlyCharge: decimal.NewFromInt(100)}
			},
			wantErr: domain.ErrNotEligible,
		},
		{
			name: "suspended rider",
			prepare: func(t *testing.T, f *fixture, rider *domain.Rider, bike *domain.Bike) domain.AssignmentTerms {
				suspended := domain.RiderSuspended
				if _, err := f.riders.UpdateRider(f.ctx, rider.ID.String(), domain.RiderPatch{Status: &suspended}); err != nil {
					t.Fatalf("UpdateRider failed: %v", err)
				}
				return domain.AssignmentTerms{RiderID: rider.ID, BikeID: bike.ID, TenureMonths: 1, MonthlyCharge: decimal.NewFromInt(100)}
			},
			wantErr: domain.ErrNotEligible,
		},
		{
			name: "expired license",
			prepare: func(t *testing.T, f *fixture, rider *domain.Rider, bike *domain.Bike) domain.AssignmentTerms {
				f.advance(4 * 365 * 24 * time.Hour)
				return domain.AssignmentTerms{RiderID: rider.ID, BikeID: bike.ID, TenureMonths: 1, MonthlyCharge: decimal.NewFromInt(100)}
			},
			wantErr: domain.ErrNotEligible,
		},
		{
			name: "missing bike",
			prepare: func(t *testing.T, f *fixture, rider *domain.Rider, bike *domain.Bike) domain.AssignmentTerms {
				return domain.AssignmentTerms{RiderID: rider.ID, BikeID: uuid.New(), TenureMonths: 1, MonthlyCharge: decimal.NewFromInt(100)}
			},
			wantErr: domain.ErrNotAvailable,
		},
		{
			name: "missing rider and bike",
			prepare: func(t *testing.T, f *fixture, rider *domain.Rider, bike *domain.Bike) domain.AssignmentTerms {
				return domain.AssignmentTerms{RiderID: uuid.New(), BikeID: uuid.New(), TenureMonths: 1, MonthlyCharge: decimal.NewFromInt(100)}
			},
			wantErr: domain.ErrNotEligible,
		},
		{
			name: "bike in maintenance",
			prepare: func(t *testing.T, f *fixture, rider *domain.Rider, bike *domain.Bike) domain.AssignmentTerms {
				status := domain.BikeMaintenance
				if _, err := f.bikes.UpdateBike(f.ctx, bike.ID.String(), domain.BikePatch{Status: &status}); err != nil {
					t.Fatalf("UpdateBike failed: %v", err)
				}
				return domain.AssignmentTerms{RiderID: rider.ID, BikeID: bike.ID, TenureMonths: 1, MonthlyCharge: decimal.NewFromInt(100)}
			},
			wantErr: domain.ErrNotAvailable,
		},
		{
			name: "zero tenure",
			prepare: func(t *testing.T, f *fixture, rider *domain.Rider, bike *domain.Bike) domain.AssignmentTerms {
				return domain.AssignmentTerms{RiderID: rider.ID, BikeID: bike.ID, TenureMonths: 0, MonthlyCharge: decimal.NewFromInt(100)}
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "end before start",
			prepare: func(t *testing.T, f *fixture, rider *domain.Rider, bike *domain.Bike) domain.AssignmentTerms {
				end := f.now.AddDate(0, 0, -1)
				return domain.AssignmentTerms{RiderID: rider.ID, BikeID: bike.ID, TenureMonths: 1, MonthlyCharge: decimal.NewFromInt(100), EndDate: &end}
			},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupServices(t)
			rider := f.createRider(t, "r1@example.com")
			bike := f.createBike(t, "KA01-0001")

			terms := tt.prepare(t, f, rider, bike)
			_, err := f.assignments.CreateAssignment(f.ctx, terms)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected %v, got %v", tt.wantErr, err)
			}

			b := f.bike(t, bike.ID)
			if b.Status == domain.BikeAssigned {
				t.Errorf("Expected bike not to be assigned after rejection")
			}
		})
	}
}

func TestAssignmentService_CreateAssignmentLimitExceeded(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")

	limit := DefaultPolicy().MaxActiveAssignments
	for i := 0; i < limit; i++ {
		f.rent(t, rider, f.createBike(t, "KA01-000"+string(rune('1'+i))))
	}

	extra := f.createBike(t, "KA01-0009")
	_, err := f.assignments.CreateAssignment(f.ctx, domain.AssignmentTerms{
		RiderID:       rider.ID,
		BikeID:        extra.ID,
		TenureMonths:  1,
		MonthlyCharge: decimal.NewFromInt(100),
	})
	if !errors.Is(err, domain.ErrLimitExceeded) {
		t.Fatalf("Expected ErrLimitExceeded, got %v", err)
	}
	if b := f.bike(t, extra.ID); b.Status != domain.BikeAvailable {
		t.Errorf("Expected extra bike available, got %s", b.Status)
	}
}

func TestAssignmentService_CreateAssignmentWithSchedule(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	bike := f.createBike(t, "KA01-0001")

	a, err := f.assignments.CreateAssignment(f.ctx, domain.AssignmentTerms{
		RiderID:          rider.ID,
		BikeID:           bike.ID,
		TenureMonths:     3,
		MonthlyCharge:    decimal.NewFromInt(1000),
		SecurityDeposit:  decimal.NewFromInt(500),
		GenerateSchedule: true,
	})
	if err != nil {
		t.Fatalf("CreateAssignment failed: %v", err)
	}

	payments, err := f.store.Payments().List(f.ctx, domain.PaymentFilter{AssignmentID: &a.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(payments) != 4 {
		t.Fatalf("Expected deposit plus 3 rent payments, got %d", len(payments))
	}
	if payments[0].Type != domain.PaymentDeposit {
		t.Errorf("Expected first payment to be the deposit, got %s", payments[0].Type)
	}
	for _, p := range payments {
		if p.Status != domain.PaymentPending {
			t.Errorf("Expected scheduled payment pending, got %s", p.Status)
		}
	}
	if !a.PaidAmount.IsZero() {
		t.Errorf("Expected scheduling not to count as paid, got %s", a.PaidAmount)
	}
}

func TestAssignmentService_TerminateAssignment(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	bike := f.createBike(t, "KA01-0001")
	a := f.rent(t, rider, bike)

	f.advance(48 * time.Hour)
	terminated, err := f.assignments.TerminateAssignment(f.ctx, a.ID.String())
	if err != nil {
		t.Fatalf("TerminateAssignment failed: %v", err)
	}
	if terminated.Status != domain.AssignmentTerminated {
		t.Errorf("Expected status terminated, got %s", terminated.Status)
	}
	if terminated.ClosedAt == nil || !terminated.EndDate.Equal(f.now) {
		t.Errorf("Expected closed_at and end date set to now, got %v / %s", terminated.ClosedAt, terminated.EndDate)
	}

	b := f.bike(t, bike.ID)
	if b.Status != domain.BikeAvailable || b.AssignedTo != nil {
		t.Errorf("Expected bike released, got %s / %v", b.Status, b.AssignedTo)
	}
	if r := f.rider(t, rider.ID); r.CurrentAssignments != 0 {
		t.Errorf("Expected rider current assignments 0, got %d", r.CurrentAssignments)
	}

	firstClose := *terminated.ClosedAt
	f.advance(time.Hour)
	again, err := f.assignments.TerminateAssignment(f.ctx, a.ID.String())
	if err != nil {
		t.Fatalf("Second TerminateAssignment failed: %v", err)
	}
	if again.Status != domain.AssignmentTerminated || !again.ClosedAt.Equal(firstClose) {
		t.Errorf("Expected second terminate to change nothing, got %+v", again)
	}
	if r := f.rider(t, rider.ID); r.CurrentAssignments != 0 {
		t.Errorf("Expected rider counter to stay at 0, got %d", r.CurrentAssignments)
	}
	if f.events.events["assignment_terminated"] != 1 {
		t.Errorf("Expected one terminate event, got %d", f.events.events["assignment_terminated"])
	}
}

func TestAssignmentService_CompleteThenTerminateIsNoop(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	bike := f.createBike(t, "KA01-0001")
	a := f.rent(t, rider, bike)

	if _, err := f.assignments.CompleteAssignment(f.ctx, a.ID.String()); err != nil {
		t.Fatalf("CompleteAssignment failed: %v", err)
	}
	got, err := f.assignments.TerminateAssignment(f.ctx, a.ID.String())
	if err != nil {
		t.Fatalf("TerminateAssignment failed: %v", err)
	}
	if got.Status != domain.AssignmentCompleted {
		t.Errorf("Expected completed status to stick, got %s", got.Status)
	}
	if b := f.bike(t, bike.ID); b.Status != domain.BikeAvailable {
		t.Errorf("Expected bike available, got %s", b.Status)
	}
}

func TestAssignmentService_TerminateUnknown(t *testing.T) {
	f := setupServices(t)

	_, err := f.assignments.TerminateAssignment(f.ctx, uuid.New().String())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	_, err = f.assignments.TerminateAssignment(f.ctx, "not-a-uuid")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestAssignmentService_OverdueEvaluatedOnRead(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	bike := f.createBike(t, "KA01-0001")
	a := f.rent(t, rider, bike)

	f.now = a.EndDate.AddDate(0, 0, 1)

	got, err := f.assignments.GetAssignment(f.ctx, a.ID.String())
	if err != nil {
		t.Fatalf("GetAssignment failed: %v", err)
	}
	if got.PaymentStatus != domain.PaymentOverdue {
		t.Errorf("Expected overdue, got %s", got.PaymentStatus)
	}

	list, page, err := f.assignments.ListAssignments(f.ctx,
		domain.AssignmentFilter{PaymentStatus: domain.PaymentOverdue}, domain.ListParams{})
	if err != nil {
		t.Fatalf("ListAssignments failed: %v", err)
	}
	if len(list) != 1 || page.Total != 1 {
		t.Errorf("Expected 1 overdue assignment, got %d (total %d)", len(list), page.Total)
	}
}

func TestAssignmentService_ListAssignmentsPaginates(t *testing.T) {
	f := setupServices(t)
	var created []*domain.Assignment
	for i := 0; i < 3; i++ {
		rider := f.createRider(t, "r"+string(rune('1'+i))+"@example.com")
		bike := f.createBike(t, "KA01-000"+string(rune('1'+i)))
		created = append(created, f.rent(t, rider, bike))
		f.advance(time.Minute)
	}

	list, page, err := f.assignments.ListAssignments(f.ctx, domain.AssignmentFilter{},
		domain.ListParams{Page: 1, Limit: 2, SortBy: "created_at", SortOrder: domain.SortAsc})
	if err != nil {
		t.Fatalf("ListAssignments failed: %v", err)
	}
	if page.Total != 3 || page.TotalPages != 2 {
		t.Errorf("Expected total 3 over 2 pages, got %+v", page)
	}
	if len(list) != 2 || list[0].ID != created[0].ID {
		t.Errorf("Expected oldest assignment first")
	}

	list, _, err = f.assignments.ListAssignments(f.ctx, domain.AssignmentFilter{}, domain.ListParams{})
	if err != nil {
		t.Fatalf("ListAssignments failed: %v", err)
	}
	if list[0].ID != created[2].ID {
		t.Errorf("Expected newest assignment first by default")
	}
}
