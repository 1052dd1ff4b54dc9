package models

import "time"

// InstructorStatus represents the lifecycle state of an instructor record
type InstructorStatus string

const (
	StatusActive   InstructorStatus = "ACTIVE"
	StatusInactive InstructorStatus = "INACTIVE"
	StatusPending  InstructorStatus = "PENDING"
)

// IsValid reports whether the status is one of the known status values.
func (s InstructorStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending:
		return true
	}
	return false
}

// Instructor defines the instructor profile model based on the 'instructors'
// table. The id equals the owning user account id for self records. The
// ManagedByInstructorID edges form a forest: multiple roots (Admin and
// top-level coordinators) with coordinator nodes fanning out to their
// reports.
type Instructor struct {
	ID                    string           `json:"id" db:"id"`
	Name                  string           `json:"name" db:"name"`
	InstructorID          string           `json:"instructorId" db:"instructor_code"` // Human-facing instructor code, e.g. EC1001
	Status                InstructorStatus `json:"status" db:"status"`
	Role                  RoleType         `json:"role" db:"role_type"` // Mirrors the owning user account's role
	EmailAddress          string           `json:"emailAddress" db:"email_address"`
	PhoneNumber           string           `json:"phoneNumber" db:"phone_number"`
	MailingAddress        string           `json:"mailingAddress" db:"mailing_address"`
	IsTrainingFaculty     bool             `json:"isTrainingFaculty" db:"is_training_faculty"`
	ManagedByInstructorID *string          `json:"managedByInstructorId,omitempty" db:"managed_by_instructor_id"` // Direct supervisor edge (nullable)
	ProfilePictureURL     *string          `json:"profilePictureUrl,omitempty" db:"profile_picture_url"`
	CreatedAt             time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time        `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Certifications []*Certification    `json:"certifications,omitempty"`
	Documents      []*PersonalDocument `json:"uploadedDocuments,omitempty"`
}

// Certification defines a certification held by an instructor, based on the
// 'certifications' table.
type Certification struct {
	ID           string     `json:"id" db:"id"`
	InstructorID string     `json:"instructorId" db:"instructor_id"`
	Name         string     `json:"name" db:"name"` // Certification program name, e.g. "BLS Provider"
	IssuedDate   *time.Time `json:"issuedDate,omitempty" db:"issued_date"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty" db:"expiry_date"`
}

// IsExpired reports whether the certification has an expiry date in the past.
func (c *Certification) IsExpired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}
