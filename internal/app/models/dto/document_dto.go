package dto

import (
	"time"

	"github.com/emskillz/instructpoint/internal/app/models"
)

// PersonalDocumentResponse represents an uploaded instructor document
type PersonalDocumentResponse struct {
	ID           string    `json:"id"`
	InstructorID string    `json:"instructorId"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	FileURL      string    `json:"fileUrl"`
	FileSize     int64     `json:"fileSize"`
	UploadDate   time.Time `json:"uploadDate"`
}

// PersonalDocumentListResponse wraps an instructor's uploaded documents
type PersonalDocumentListResponse struct {
	Documents []PersonalDocumentResponse `json:"documents"`
	Total     int                        `json:"total"`
}

// ToPersonalDocumentResponse converts a document model to its response representation
func ToPersonalDocumentResponse(doc *models.PersonalDocument) PersonalDocumentResponse {
	return PersonalDocumentResponse{
		ID:           doc.ID,
		InstructorID: doc.InstructorID,
		Name:         doc.Name,
		Type:         string(doc.Type),
		FileURL:      doc.FileURL,
		FileSize:     doc.FileSize,
		UploadDate:   doc.UploadDate,
	}
}
