package models

import "time"

// CurriculumDocumentType represents the kind of node in the curriculum tree
type CurriculumDocumentType string

const (
	CurriculumFolder CurriculumDocumentType = "folder"
	CurriculumPDF    CurriculumDocumentType = "pdf"
	CurriculumDoc    CurriculumDocumentType = "doc"
	CurriculumVideo  CurriculumDocumentType = "video"
	CurriculumLink   CurriculumDocumentType = "link"
)

// CurriculumDocument defines a node in the curriculum browser tree, based on
// the 'curriculum_documents' table. Folders carry children; leaf nodes carry
// a path to the underlying resource.
type CurriculumDocument struct {
	ID           string                 `json:"id" db:"id"`
	ParentID     *string                `json:"-" db:"parent_id"`
	Name         string                 `json:"name" db:"name"`
	Type         CurriculumDocumentType `json:"type" db:"doc_type"`
	Path         *string                `json:"path,omitempty" db:"path"`
	Size         *string                `json:"size,omitempty" db:"size"`
	Description  *string                `json:"description,omitempty" db:"description"`
	LastModified *time.Time             `json:"lastModified,omitempty" db:"last_modified"`

	Children []*CurriculumDocument `json:"children,omitempty"`
}
