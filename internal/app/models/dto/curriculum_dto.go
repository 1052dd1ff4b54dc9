package dto

import (
	"time"

	"github.com/emskillz/instructpoint/internal/app/models"
)

// CurriculumDocumentResponse represents one node of the curriculum tree
type CurriculumDocumentResponse struct {
	ID           string                       `json:"id"`
	Name         string                       `json:"name"`
	Type         string                       `json:"type"`
	Path         *string                      `json:"path,omitempty"`
	Size         *string                      `json:"size,omitempty"`
	Description  *string                      `json:"description,omitempty"`
	LastModified *time.Time                   `json:"lastModified,omitempty"`
	Children     []CurriculumDocumentResponse `json:"children,omitempty"`
}

// CurriculumTreeResponse wraps the root nodes of the curriculum tree
type CurriculumTreeResponse struct {
	Documents []CurriculumDocumentResponse `json:"documents"`
}

// ToCurriculumDocumentResponse converts a curriculum node and its subtree
func ToCurriculumDocumentResponse(doc *models.CurriculumDocument) CurriculumDocumentResponse {
	resp := CurriculumDocumentResponse{
		ID:           doc.ID,
		Name:         doc.Name,
		Type:         string(doc.Type),
		Path:         doc.Path,
		Size:         doc.Size,
		Description:  doc.Description,
		LastModified: doc.LastModified,
	}
	for _, child := range doc.Children {
		resp.Children = append(resp.Children, ToCurriculumDocumentResponse(child))
	}
	return resp
}
