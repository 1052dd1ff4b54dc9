package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/dberrors"
)

// DocumentRepository handles database operations for instructors' uploaded
// personal documents
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create inserts a new personal document record
func (r *DocumentRepository) Create(ctx context.Context, doc *models.PersonalDocument) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO personal_documents (id, instructor_id, name, doc_type, file_url, file_size, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.ID, doc.InstructorID, doc.Name, doc.Type, doc.FileURL, doc.FileSize, doc.UploadDate)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInstructorNotFound
		}
		return fmt.Errorf("error creating personal document: %w", err)
	}
	return nil
}

// GetByID retrieves a personal document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*models.PersonalDocument, error) {
	doc := &models.PersonalDocument{}
	err := r.db.QueryRow(ctx, `
		SELECT id, instructor_id, name, doc_type, file_url, file_size, upload_date
		FROM personal_documents
		WHERE id = $1`, id).Scan(
		&doc.ID, &doc.InstructorID, &doc.Name, &doc.Type, &doc.FileURL, &doc.FileSize, &doc.UploadDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error retrieving personal document: %w", err)
	}
	return doc, nil
}

// GetByInstructorID lists an instructor's documents, newest upload first
func (r *DocumentRepository) GetByInstructorID(ctx context.Context, instructorID string) ([]*models.PersonalDocument, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, instructor_id, name, doc_type, file_url, file_size, upload_date
		FROM personal_documents
		WHERE instructor_id = $1
		ORDER BY upload_date DESC`, instructorID)
	if err != nil {
		return nil, fmt.Errorf("error listing personal documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.PersonalDocument
	for rows.Next() {
		doc := &models.PersonalDocument{}
		err := rows.Scan(&doc.ID, &doc.InstructorID, &doc.Name, &doc.Type,
			&doc.FileURL, &doc.FileSize, &doc.UploadDate)
		if err != nil {
			return nil, fmt.Errorf("error scanning personal document row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating personal document rows: %w", err)
	}
	return docs, nil
}

// Delete removes a personal document record
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM personal_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting personal document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}
