package dto

import (
	"time"

	"github.com/emskillz/instructpoint/internal/app/models"
)

// CreateInstructorRequest represents data for creating a new instructor record
type CreateInstructorRequest struct {
	Name                  string  `json:"name" binding:"required"`
	InstructorID          string  `json:"instructorId" binding:"required"`
	Role                  string  `json:"role" binding:"required"`
	EmailAddress          string  `json:"emailAddress" binding:"required,email"`
	PhoneNumber           string  `json:"phoneNumber"`
	MailingAddress        string  `json:"mailingAddress"`
	IsTrainingFaculty     bool    `json:"isTrainingFaculty"`
	ManagedByInstructorID *string `json:"managedByInstructorId"`
}

// UpdateInstructorRequest represents updatable instructor fields
type UpdateInstructorRequest struct {
	Name                  string  `json:"name" binding:"required"`
	Status                string  `json:"status" binding:"required"`
	Role                  string  `json:"role" binding:"required"`
	EmailAddress          string  `json:"emailAddress" binding:"required,email"`
	PhoneNumber           string  `json:"phoneNumber"`
	MailingAddress        string  `json:"mailingAddress"`
	IsTrainingFaculty     bool    `json:"isTrainingFaculty"`
	ManagedByInstructorID *string `json:"managedByInstructorId"`
}

// CreateCertificationRequest represents data for recording a certification
type CreateCertificationRequest struct {
	Name       string `json:"name" binding:"required"`
	IssuedDate string `json:"issuedDate"`
	ExpiryDate string `json:"expiryDate"`
}

// CertificationResponse represents a certification held by an instructor
type CertificationResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	IssuedDate *time.Time `json:"issuedDate,omitempty"`
	ExpiryDate *time.Time `json:"expiryDate,omitempty"`
	IsExpired  bool       `json:"isExpired"`
}

// InstructorResponse represents instructor details
type InstructorResponse struct {
	ID                    string                  `json:"id"`
	Name                  string                  `json:"name"`
	InstructorID          string                  `json:"instructorId"`
	Status                string                  `json:"status"`
	Role                  string                  `json:"role"`
	EmailAddress          string                  `json:"emailAddress"`
	PhoneNumber           string                  `json:"phoneNumber"`
	MailingAddress        string                  `json:"mailingAddress"`
	IsTrainingFaculty     bool                    `json:"isTrainingFaculty"`
	ManagedByInstructorID *string                 `json:"managedByInstructorId"`
	ProfilePictureURL     *string                 `json:"profilePictureUrl,omitempty"`
	Certifications        []CertificationResponse `json:"certifications,omitempty"`
	CanManage             bool                    `json:"canManage"`
	CreatedAt             time.Time               `json:"createdAt"`
}

// InstructorListResponse wraps a visibility-filtered instructor list
type InstructorListResponse struct {
	Instructors []InstructorResponse `json:"instructors"`
	Total       int                  `json:"total"`
}

// ToInstructorResponse converts an instructor model to its response representation
func ToInstructorResponse(instructor *models.Instructor, canManage bool) InstructorResponse {
	resp := InstructorResponse{
		ID:                    instructor.ID,
		Name:                  instructor.Name,
		InstructorID:          instructor.InstructorID,
		Status:                string(instructor.Status),
		Role:                  string(instructor.Role),
		EmailAddress:          instructor.EmailAddress,
		PhoneNumber:           instructor.PhoneNumber,
		MailingAddress:        instructor.MailingAddress,
		IsTrainingFaculty:     instructor.IsTrainingFaculty,
		ManagedByInstructorID: instructor.ManagedByInstructorID,
		ProfilePictureURL:     instructor.ProfilePictureURL,
		CanManage:             canManage,
		CreatedAt:             instructor.CreatedAt,
	}
	now := time.Now()
	for _, cert := range instructor.Certifications {
		resp.Certifications = append(resp.Certifications, CertificationResponse{
			ID:         cert.ID,
			Name:       cert.Name,
			IssuedDate: cert.IssuedDate,
			ExpiryDate: cert.ExpiryDate,
			IsExpired:  cert.IsExpired(now),
		})
	}
	return resp
}
