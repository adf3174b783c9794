package domain

import (
	"time"

	"github.com/google/uuid"
)

type RiderStatus string

const (
	RiderActive    RiderStatus = "active"
	RiderInactive  RiderStatus = "inactive"
	RiderSuspended RiderStatus = "suspended"
)

type Address struct {
	Street     string `json:"street,omitempty" validate:"max=200"`
	City       string `json:"city,omitempty" validate:"max=100"`
	State      string `json:"state,omitempty" validate:"max=100"`
	PostalCode string `json:"postal_code,omitempty" validate:"max=20"`
}

type EmergencyContact struct {
	Name     string `json:"name,omitempty" validate:"max=100"`
	Phone    string `json:"phone,omitempty" validate:"max=20"`
	Relation string `json:"relation,omitempty" validate:"max=50"`
}

// swagger:model domain.Rider
type Rider struct {
	ID                 uuid.UUID        `json:"id"`
	Name               string           `json:"name" validate:"required,min=2,max=100"`
	Email              string           `json:"email" validate:"required,email"`
	Phone              string           `json:"phone" validate:"required,min=7,max=20"`
	LicenseNumber      string           `json:"license_number" validate:"required,min=5,max=32"`
	LicenseExpiry      time.Time        `json:"license_expiry" validate:"required"`
	DateOfBirth        *time.Time       `json:"date_of_birth,omitempty"`
	Address            Address          `json:"address"`
	EmergencyContact   EmergencyContact `json:"emergency_contact"`
	Status             RiderStatus      `json:"status" validate:"required,oneof=active inactive suspended"`
	CurrentAssignments int              `json:"current_assignments" validate:"min=0"`
	TotalAssignments   int              `json:"total_assignments" validate:"min=0"`
	Rating             float64          `json:"rating" validate:"min=0,max=5"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Inactive riders are soft-deleted and drop out of uniqueness checks.
func (r *Rider) IsDeleted() bool {
	return r.Status == RiderInactive
}

func (r *Rider) LicenseValid(now time.Time) bool {
	return r.LicenseExpiry.After(now)
}

// CanRent reports whether the rider may take a new assignment.
func (r *Rider) CanRent(now time.Time) bool {
	return r.Status == RiderActive && r.LicenseValid(now)
}

// Release decrements the active assignment counter, never below zero.
func (r *Rider) Release() {
	if r.CurrentAssignments > 0 {
		r.CurrentAssignments--
	}
}

type RiderFilter struct {
	Status RiderStatus
	Search string
}
