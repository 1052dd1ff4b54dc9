package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
)

// CurriculumRepository handles database operations for the curriculum tree
type CurriculumRepository struct {
	db *pgxpool.Pool
}

// NewCurriculumRepository creates a new CurriculumRepository
func NewCurriculumRepository(db *pgxpool.Pool) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

const curriculumSelect = `
	SELECT id, parent_id, name, doc_type, path, size, description, last_modified
	FROM curriculum_documents`

func scanCurriculumDocument(row pgx.Row) (*models.CurriculumDocument, error) {
	doc := &models.CurriculumDocument{}
	err := row.Scan(&doc.ID, &doc.ParentID, &doc.Name, &doc.Type, &doc.Path,
		&doc.Size, &doc.Description, &doc.LastModified)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetAll retrieves every curriculum node as a flat list, folders before
// leaves at equal depth, siblings in name order
func (r *CurriculumRepository) GetAll(ctx context.Context) ([]*models.CurriculumDocument, error) {
	rows, err := r.db.Query(ctx, curriculumSelect+`
		ORDER BY (doc_type <> 'folder'), name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error listing curriculum documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.CurriculumDocument
	for rows.Next() {
		doc, err := scanCurriculumDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning curriculum row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating curriculum rows: %w", err)
	}
	return docs, nil
}

// GetByID retrieves a single curriculum node
func (r *CurriculumRepository) GetByID(ctx context.Context, id string) (*models.CurriculumDocument, error) {
	doc, err := scanCurriculumDocument(r.db.QueryRow(ctx, curriculumSelect+`
		WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCurriculumDocumentNotFound
		}
		return nil, fmt.Errorf("error retrieving curriculum document: %w", err)
	}
	return doc, nil
}

// Create inserts a new curriculum node
func (r *CurriculumRepository) Create(ctx context.Context, doc *models.CurriculumDocument) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO curriculum_documents (id, parent_id, name, doc_type, path, size, description, last_modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		doc.ID, doc.ParentID, doc.Name, doc.Type, doc.Path, doc.Size, doc.Description, doc.LastModified)
	if err != nil {
		return fmt.Errorf("error creating curriculum document: %w", err)
	}
	return nil
}

// Delete removes a curriculum node and, through the FK cascade, its subtree
func (r *CurriculumRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM curriculum_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting curriculum document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCurriculumDocumentNotFound
	}
	return nil
}
