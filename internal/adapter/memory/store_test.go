package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sm8ta/webike_rental_manager/internal/core/domain"
	"github.com/sm8ta/webike_rental_manager/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestRider(email, license string) *domain.Rider {
	return &domain.Rider{
		ID:            uuid.New(),
		Name:          "Test Rider",
		Email:         email,
		Phone:         "5550100",
		LicenseNumber: license,
		LicenseExpiry: time.Now().AddDate(2, 0, 0),
		Status:        domain.RiderActive,
	}
}

func newTestBike(number string) *domain.Bike {
	return &domain.Bike{
		ID:                 uuid.New(),
		Make:               "Ather",
		Model:              "450X",
		BikeNumber:         number,
		RegistrationNumber: "REG-" + number,
		ChassisNumber:      "CH-" + number,
		EngineNumber:       "EN-" + number,
		Type:               domain.Electric,
		Year:               2024,
		Status:             domain.BikeAvailable,
		PurchasePrice:      decimal.NewFromInt(1500),
		PurchaseDate:       time.Now().AddDate(-1, 0, 0),
	}
}

func TestStore_RiderUniqueness(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	first := newTestRider("a@example.com", "LIC-0001")
	if err := store.Riders().Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	dupEmail := newTestRider("A@example.com", "LIC-0002")
	if err := store.Riders().Create(ctx, dupEmail); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Expected conflict on duplicate email, got %v", err)
	}

	first.Status = domain.RiderInactive
	if err := store.Riders().Update(ctx, first); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := store.Riders().Create(ctx, dupEmail); err != nil {
		t.Errorf("Expected email to be reusable after deactivation, got %v", err)
	}
}

func TestStore_BikeUniquenessIgnoresRetired(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	bike := newTestBike("B-1")
	if err := store.Bikes().Create(ctx, bike); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Bikes().Create(ctx, newTestBike("B-1")); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Expected conflict on duplicate bike number, got %v", err)
	}

	bike.Status = domain.BikeRetired
	if err := store.Bikes().Update(ctx, bike); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := store.Bikes().Create(ctx, newTestBike("B-1")); err != nil {
		t.Errorf("Expected number reusable after retirement, got %v", err)
	}
}

func TestStore_IdentifiersIgnoreCase(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.Riders().Create(ctx, newTestRider("a@example.com", "lic-0001")); err != nil {
		t.Fatalf("Create rider failed: %v", err)
	}
	if err := store.Bikes().Create(ctx, newTestBike("wb-0001")); err != nil {
		t.Fatalf("Create bike failed: %v", err)
	}

	tests := []struct {
		name   string
		create func() error
	}{
		{"rider license", func() error {
			return store.Riders().Create(ctx, newTestRider("b@example.com", "LIC-0001"))
		}},
		{"bike number", func() error {
			b := newTestBike("WB-0001")
			b.RegistrationNumber, b.ChassisNumber, b.EngineNumber = "R-2", "C-2", "E-2"
			return store.Bikes().Create(ctx, b)
		}},
		{"registration", func() error {
			b := newTestBike("WB-0002")
			b.RegistrationNumber = "REG-WB-0001"
			return store.Bikes().Create(ctx, b)
		}},
		{"chassis", func() error {
			b := newTestBike("WB-0003")
			b.ChassisNumber = "CH-WB-0001"
			return store.Bikes().Create(ctx, b)
		}},
		{"engine", func() error {
			b := newTestBike("WB-0004")
			b.EngineNumber = "EN-WB-0001"
			return store.Bikes().Create(ctx, b)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.create(); !errors.Is(err, domain.ErrConflict) {
				t.Errorf("Expected conflict, got %v", err)
			}
		})
	}
}

func TestStore_WithinTxRollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	bike := newTestBike("B-2")
	if err := store.Bikes().Create(ctx, bike); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx ports.Store) error {
		b, err := tx.Bikes().GetForUpdate(ctx, bike.ID)
		if err != nil {
			return err
		}
		b.Assign(uuid.New())
		if err := tx.Bikes().Update(ctx, b); err != nil {
			return err
		}
		if err := tx.Riders().Create(ctx, newTestRider("tx@example.com", "LIC-TX")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	got, err := store.Bikes().GetByID(ctx, bike.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != domain.BikeAvailable || got.AssignedTo != nil {
		t.Errorf("Expected bike change rolled back, got status %s", got.Status)
	}

	riders, _ := store.Riders().List(ctx, domain.RiderFilter{})
	if len(riders) != 0 {
		t.Errorf("Expected rider insert rolled back, got %d riders", len(riders))
	}
}

func TestStore_OneActiveAssignmentPerBike(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	bikeID := uuid.New()

	first := &domain.Assignment{ID: uuid.New(), BikeID: bikeID, RiderID: uuid.New(), Status: domain.AssignmentActive}
	if err := store.Assignments().Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := &domain.Assignment{ID: uuid.New(), BikeID: bikeID, RiderID: uuid.New(), Status: domain.AssignmentActive}
	if err := store.Assignments().Create(ctx, second); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("Expected conflict for second active assignment, got %v", err)
	}

	n, err := store.Assignments().CountActiveByBike(ctx, bikeID)
	if err != nil {
		t.Fatalf("CountActiveByBike failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 active assignment, got %d", n)
	}
}

func TestStore_ListKeepsInsertionOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	var ids []uuid.UUID
	for i, email := range []string{"c@x.io", "a@x.io", "b@x.io"} {
		r := newTestRider(email, "LIC-ORD-"+string(rune('A'+i)))
		ids = append(ids, r.ID)
		if err := store.Riders().Create(ctx, r); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	riders, err := store.Riders().List(ctx, domain.RiderFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for i, r := range riders {
		if r.ID != ids[i] {
			t.Errorf("Position %d: expected %s, got %s", i, ids[i], r.ID)
		}
	}
}
