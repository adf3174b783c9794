package services

import (
	"errors"
	"testing"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
)

func TestRiderService_CreateRiderDuplicateEmail(t *testing.T) {
	f := setupServices(t)
	f.createRider(t, "r1@example.com")

	_, err := f.riders.CreateRider(f.ctx, &domain.Rider{
		Name:          "Someone Else",
		Email:         "r1@example.com",
		Phone:         "5550199",
		LicenseNumber: "LIC-OTHER-1",
		LicenseExpiry: f.now.AddDate(1, 0, 0),
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
}

func TestRiderService_CreateRiderValidation(t *testing.T) {
	f := setupServices(t)

	_, err := f.riders.CreateRider(f.ctx, &domain.Rider{Name: "X", Email: "not-an-email"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if len(ve.Fields) < 3 {
		t.Errorf("Expected several field errors, got %+v", ve.Fields)
	}
}

func TestRiderService_DeactivateRider(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	a := f.rent(t, rider, f.createBike(t, "KA01-0001"))

	if _, err := f.riders.DeactivateRider(f.ctx, rider.ID.String()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Expected ErrConflict with an active rental, got %v", err)
	}

	if _, err := f.assignments.CompleteAssignment(f.ctx, a.ID.String()); err != nil {
		t.Fatalf("CompleteAssignment failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := f.riders.DeactivateRider(f.ctx, rider.ID.String())
		if err != nil {
			t.Fatalf("DeactivateRider #%d failed: %v", i+1, err)
		}
		if got.Status != domain.RiderInactive {
			t.Errorf("Expected inactive, got %s", got.Status)
		}
	}
}

func TestRiderService_ListRidersSearch(t *testing.T) {
	f := setupServices(t)
	f.createRider(t, "asha@example.com")
	f.createRider(t, "vikram@example.com")

	list, page, err := f.riders.ListRiders(f.ctx, domain.RiderFilter{Search: "asha"}, domain.ListParams{})
	if err != nil {
		t.Fatalf("ListRiders failed: %v", err)
	}
	if len(list) != 1 || page.Total != 1 || list[0].Email != "asha@example.com" {
		t.Errorf("Expected only asha, got %d riders", len(list))
	}
}

func TestBikeService_CreateBikeRejectsAssigned(t *testing.T) {
	f := setupServices(t)

	_, err := f.bikes.CreateBike(f.ctx, &domain.Bike{Status: domain.BikeAssigned})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestBikeService_GetBikeUsesCache(t *testing.T) {
	f := setupServices(t)
	bike := f.createBike(t, "KA01-0001")

	for i := 0; i < 2; i++ {
		if _, err := f.bikes.GetBike(f.ctx, bike.ID.String()); err != nil {
			t.Fatalf("GetBike failed: %v", err)
		}
	}
	if f.events.hits != 1 || f.events.misses != 1 {
		t.Fatalf("Expected 1 hit and 1 miss, got %d / %d", f.events.hits, f.events.misses)
	}

	color := "red"
	if _, err := f.bikes.UpdateBike(f.ctx, bike.ID.String(), domain.BikePatch{Color: &color}); err != nil {
		t.Fatalf("UpdateBike failed: %v", err)
	}

	got, err := f.bikes.GetBike(f.ctx, bike.ID.String())
	if err != nil {
		t.Fatalf("GetBike failed: %v", err)
	}
	if got.Color != "red" {
		t.Errorf("Expected update to evict cached bike, got color %q", got.Color)
	}
}

func TestBikeService_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		to      domain.BikeStatus
		wantErr error
	}{
		{name: "to maintenance", to: domain.BikeMaintenance},
		{name: "to retired", to: domain.BikeRetired},
		{name: "to assigned", to: domain.BikeAssigned, wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupServices(t)
			bike := f.createBike(t, "KA01-0001")

			status := tt.to
			got, err := f.bikes.UpdateBike(f.ctx, bike.ID.String(), domain.BikePatch{Status: &status})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateBike failed: %v", err)
			}
			if got.Status != tt.to {
				t.Errorf("Expected %s, got %s", tt.to, got.Status)
			}
		})
	}
}

func TestBikeService_RetireBike(t *testing.T) {
	f := setupServices(t)
	rider := f.createRider(t, "r1@example.com")
	bike := f.createBike(t, "KA01-0001")
	a := f.rent(t, rider, bike)

	if _, err := f.bikes.RetireBike(f.ctx, bike.ID.String()); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("Expected ErrConflict on a rented bike, got %v", err)
	}

	if _, err := f.assignments.TerminateAssignment(f.ctx, a.ID.String()); err != nil {
		t.Fatalf("TerminateAssignment failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := f.bikes.RetireBike(f.ctx, bike.ID.String())
		if err != nil {
			t.Fatalf("RetireBike #%d failed: %v", i+1, err)
		}
		if got.Status != domain.BikeRetired {
			t.Errorf("Expected retired, got %s", got.Status)
		}
	}

	color := "blue"
	if _, err := f.bikes.UpdateBike(f.ctx, bike.ID.String(), domain.BikePatch{Color: &color}); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Expected ErrConflict editing a retired bike, got %v", err)
	}
}
