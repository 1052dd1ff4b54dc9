package services

import (
	"context"
	"strings"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/app/repositories"
)

// CurriculumService defines the interface for curriculum browsing
type CurriculumService interface {
	GetTree(ctx context.Context, query string) ([]*models.CurriculumDocument, error)
}

// curriculumServiceImpl implements the CurriculumService interface
type curriculumServiceImpl struct {
	curriculumRepo *repositories.CurriculumRepository
}

// NewCurriculumService creates a new curriculum service instance
func NewCurriculumService(curriculumRepo *repositories.CurriculumRepository) CurriculumService {
	return &curriculumServiceImpl{curriculumRepo: curriculumRepo}
}

// GetTree returns the curriculum tree, optionally filtered by a
// case-insensitive name search. When filtering, a folder is kept if its own
// name matches (with its whole subtree) or if any descendant matches.
func (s *curriculumServiceImpl) GetTree(ctx context.Context, query string) ([]*models.CurriculumDocument, error) {
	flat, err := s.curriculumRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	roots := BuildCurriculumTree(flat)
	query = strings.TrimSpace(query)
	if query == "" {
		return roots, nil
	}
	return FilterCurriculumTree(roots, query), nil
}

// BuildCurriculumTree links a flat node list into a forest using ParentID
// edges. Input order is preserved among siblings; nodes pointing at a
// missing parent surface as roots instead of disappearing.
func BuildCurriculumTree(flat []*models.CurriculumDocument) []*models.CurriculumDocument {
	byID := make(map[string]*models.CurriculumDocument, len(flat))
	for _, doc := range flat {
		doc.Children = nil
		byID[doc.ID] = doc
	}

	var roots []*models.CurriculumDocument
	for _, doc := range flat {
		if doc.ParentID != nil {
			if parent, ok := byID[*doc.ParentID]; ok {
				parent.Children = append(parent.Children, doc)
				continue
			}
		}
		roots = append(roots, doc)
	}
	return roots
}

// FilterCurriculumTree returns the subset of the forest matching the query.
// A node whose name matches is kept with its entire subtree; otherwise it is
// kept only if one of its descendants matches, with non-matching branches
// pruned.
func FilterCurriculumTree(roots []*models.CurriculumDocument, query string) []*models.CurriculumDocument {
	query = strings.ToLower(query)

	var filtered []*models.CurriculumDocument
	for _, root := range roots {
		if kept := filterNode(root, query); kept != nil {
			filtered = append(filtered, kept)
		}
	}
	return filtered
}

func filterNode(node *models.CurriculumDocument, query string) *models.CurriculumDocument {
	if strings.Contains(strings.ToLower(node.Name), query) {
		return node
	}

	var keptChildren []*models.CurriculumDocument
	for _, child := range node.Children {
		if kept := filterNode(child, query); kept != nil {
			keptChildren = append(keptChildren, kept)
		}
	}
	if len(keptChildren) == 0 {
		return nil
	}

	pruned := *node
	pruned.Children = keptChildren
	return &pruned
}
