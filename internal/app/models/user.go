package models

import (
	"time"
)

// RoleType defines the user role within the training organization hierarchy
type RoleType string

const (
	RoleAdmin                     RoleType = "ADMIN"
	RoleTrainingCenterCoordinator RoleType = "TRAINING_CENTER_COORDINATOR"
	RoleTrainingSiteCoordinator   RoleType = "TRAINING_SITE_COORDINATOR"
	RoleInstructor                RoleType = "INSTRUCTOR"
)

// IsCoordinator reports whether the role may have subordinates in the
// supervisor hierarchy. Only coordinator roles are expanded during
// visibility traversal.
func (r RoleType) IsCoordinator() bool {
	return r == RoleTrainingCenterCoordinator || r == RoleTrainingSiteCoordinator
}

// IsValid reports whether the role is one of the known role values.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleAdmin, RoleTrainingCenterCoordinator, RoleTrainingSiteCoordinator, RoleInstructor:
		return true
	}
	return false
}

// User defines the user account model based on the 'users' table
type User struct {
	ID              string     `json:"id" db:"id" example:"9f1c2e6a-0b1d-4e3f-8a57-1c2d3e4f5a6b"` // Stable opaque identifier, also used as the instructor record id
	Email           string     `json:"email" db:"email" example:"emily.carter@example.com"`
	Password        string     `json:"-" db:"password"` // Hashed password (excluded from JSON)
	FirstName       string     `json:"firstName" db:"first_name" example:"Emily"`
	LastName        string     `json:"lastName" db:"last_name" example:"Carter"`
	RoleType        RoleType   `json:"roleType" db:"role_type" example:"TRAINING_SITE_COORDINATOR"`
	IsApproved      bool       `json:"isApproved" db:"is_approved" example:"true"` // Set by an administrator at signup approval
	IsActive        bool       `json:"isActive" db:"is_active" example:"true"`
	ProfilePhotoURL *string    `json:"profilePhotoUrl,omitempty" db:"profile_photo_url"`
	LastLoginAt     *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// FullName returns the display name for the user.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
