package models

import "time"

// PersonalDocumentType classifies an instructor's uploaded document
type PersonalDocumentType string

const (
	DocumentRenewalPacket     PersonalDocumentType = "renewal_packet"
	DocumentCertificationCard PersonalDocumentType = "certification_card"
	DocumentResume            PersonalDocumentType = "resume"
	DocumentOther             PersonalDocumentType = "other"
)

// IsValid reports whether the document type is one of the known kinds.
func (t PersonalDocumentType) IsValid() bool {
	switch t {
	case DocumentRenewalPacket, DocumentCertificationCard, DocumentResume, DocumentOther:
		return true
	}
	return false
}

// PersonalDocument defines an uploaded file attached to an instructor
// profile, based on the 'personal_documents' table. The file itself lives in
// blob storage; this record holds the reference.
type PersonalDocument struct {
	ID           string               `json:"id" db:"id"`
	InstructorID string               `json:"instructorId" db:"instructor_id"`
	Name         string               `json:"name" db:"name"`
	Type         PersonalDocumentType `json:"type" db:"doc_type"`
	FileURL      string               `json:"fileUrl" db:"file_url"`
	FileSize     int64                `json:"fileSize" db:"file_size"`
	UploadDate   time.Time            `json:"uploadDate" db:"upload_date"`
}
