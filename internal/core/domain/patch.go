package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiderPatch carries the fields an operator may change on a rider.
// Assignment counters are owned by the lifecycle and never patched.
type RiderPatch struct {
	Name             *string           `json:"name,omitempty"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	LicenseNumber    *string           `json:"license_number,omitempty"`
	LicenseExpiry    *time.Time        `json:"license_expiry,omitempty"`
	DateOfBirth      *time.Time        `json:"date_of_birth,omitempty"`
	Address          *Address          `json:"address,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergency_contact,omitempty"`
	Status           *RiderStatus      `json:"status,omitempty"`
	Rating           *float64          `json:"rating,omitempty"`
}

func (p RiderPatch) Apply(r *Rider) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Email != nil {
		r.Email = *p.Email
	}
	if p.Phone != nil {
		r.Phone = *p.Phone
	}
	if p.LicenseNumber != nil {
		r.LicenseNumber = *p.LicenseNumber
	}
	if p.LicenseExpiry != nil {
		r.LicenseExpiry = *p.LicenseExpiry
	}
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		r.DateOfBirth = &dob
	}
	if p.Address != nil {
		r.Address = *p.Address
	}
	if p.EmergencyContact != nil {
		r.EmergencyContact = *p.EmergencyContact
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
}

// BikePatch carries operator edits to a bike. Status moves are checked
// against the admin transition table by the caller.
type BikePatch struct {
	Make               *string          `json:"make,omitempty"`
	Model              *string          `json:"model,omitempty"`
	BikeNumber         *string          `json:"bike_number,omitempty"`
	RegistrationNumber *string          `json:"registration_number,omitempty"`
	ChassisNumber      *string          `json:"chassis_number,omitempty"`
	EngineNumber       *string          `json:"engine_number,omitempty"`
	Type               *BikeType        `json:"type,omitempty"`
	Year               *int             `json:"year,omitempty"`
	Color              *string          `json:"color,omitempty"`
	Mileage            *int             `json:"mileage,omitempty"`
	Status             *BikeStatus      `json:"status,omitempty"`
	PurchasePrice      *decimal.Decimal `json:"purchase_price,omitempty"`
	PurchaseDate       *time.Time       `json:"purchase_date,omitempty"`
	LastServiceDate    *time.Time       `json:"last_service_date,omitempty"`
}

func (p BikePatch) Apply(b *Bike) {
	if p.Make != nil {
		b.Make = *p.Make
	}
	if p.Model != nil {
		b.Model = *p.Model
	}
	if p.BikeNumber != nil {
		b.BikeNumber = *p.BikeNumber
	}
	if p.RegistrationNumber != nil {
		b.RegistrationNumber = *p.RegistrationNumber
	}
	if p.ChassisNumber != nil {
		b.ChassisNumber = *p.ChassisNumber
	}
	if p.EngineNumber != nil {
		b.EngineNumber = *p.EngineNumber
	}
	if p.Type != nil {
		b.Type = *p.Type
	}
	if p.Year != nil {
		b.Year = *p.Year
	}
	if p.Color != nil {
		b.Color = *p.Color
	}
	if p.Mileage != nil {
		b.Mileage = *p.Mileage
	}
	if p.PurchasePrice != nil {
		b.PurchasePrice = *p.PurchasePrice
	}
	if p.PurchaseDate != nil {
		b.PurchaseDate = *p.PurchaseDate
	}
	if p.LastServiceDate != nil {
		d := *p.LastServiceDate
		b.LastServiceDate = &d
	}
}
