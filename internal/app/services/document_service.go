package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/access"
	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/app/repositories"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/filestorage"
)

const maxDocumentSize = 20 << 20 // 20 MiB

// DocumentService defines the interface for instructor document uploads
type DocumentService interface {
	Upload(ctx context.Context, actor *models.User, instructorID string, docType models.PersonalDocumentType, fileHeader *multipart.FileHeader) (*models.PersonalDocument, error)
	List(ctx context.Context, viewer *models.User, instructorID string) ([]*models.PersonalDocument, error)
	Delete(ctx context.Context, actor *models.User, instructorID, documentID string) error
}

// documentServiceImpl implements the DocumentService interface
type documentServiceImpl struct {
	documentRepo   *repositories.DocumentRepository
	instructorRepo *repositories.InstructorRepository
	resolver       *access.Resolver
	storage        filestorage.FileStorage
	logger         zerolog.Logger
}

// NewDocumentService creates a new document service instance
func NewDocumentService(
	documentRepo *repositories.DocumentRepository,
	instructorRepo *repositories.InstructorRepository,
	resolver *access.Resolver,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) DocumentService {
	return &documentServiceImpl{
		documentRepo:   documentRepo,
		instructorRepo: instructorRepo,
		resolver:       resolver,
		storage:        storage,
		logger:         logger,
	}
}

// Upload stores a document file and records it against an instructor the
// actor manages.
func (s *documentServiceImpl) Upload(ctx context.Context, actor *models.User, instructorID string, docType models.PersonalDocumentType, fileHeader *multipart.FileHeader) (*models.PersonalDocument, error) {
	if !docType.IsValid() {
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidationFailed, docType)
	}
	if fileHeader == nil {
		return nil, fmt.Errorf("%w: file is required", apperrors.ErrValidationFailed)
	}
	if fileHeader.Size > maxDocumentSize {
		return nil, fmt.Errorf("%w: file exceeds the 20 MiB limit", apperrors.ErrValidationFailed)
	}

	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	target := rosterGet(roster, instructorID)
	if target == nil {
		return nil, apperrors.ErrInstructorNotFound
	}
	if !s.resolver.CanManage(actor, target, roster) {
		return nil, apperrors.ErrPermissionDenied
	}

	fileURL, err := s.storage.SaveFile(fileHeader, filestorage.SubPathDocuments)
	if err != nil {
		return nil, err
	}

	doc := &models.PersonalDocument{
		ID:           newID(),
		InstructorID: instructorID,
		Name:         fileHeader.Filename,
		Type:         docType,
		FileURL:      fileURL,
		FileSize:     fileHeader.Size,
		UploadDate:   time.Now(),
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.DeleteFile(fileURL); delErr != nil {
			s.logger.Warn().Err(delErr).Str("fileURL", fileURL).Msg("Failed to clean up stored file after record create failure")
		}
		return nil, err
	}
	return doc, nil
}

// List returns an instructor's documents, provided the viewer can see the
// instructor.
func (s *documentServiceImpl) List(ctx context.Context, viewer *models.User, instructorID string) ([]*models.PersonalDocument, error) {
	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	visible := false
	for _, instructor := range s.resolver.VisibleInstructors(viewer, roster) {
		if instructor.ID == instructorID {
			visible = true
			break
		}
	}
	if !visible {
		return nil, apperrors.ErrInstructorNotFound
	}

	return s.documentRepo.GetByInstructorID(ctx, instructorID)
}

// Delete removes a document from an instructor the actor manages, file
// included.
func (s *documentServiceImpl) Delete(ctx context.Context, actor *models.User, instructorID, documentID string) error {
	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	target := rosterGet(roster, instructorID)
	if target == nil {
		return apperrors.ErrInstructorNotFound
	}
	if !s.resolver.CanManage(actor, target, roster) {
		return apperrors.ErrPermissionDenied
	}

	doc, err := s.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.InstructorID != instructorID {
		return apperrors.ErrDocumentNotFound
	}

	if err := s.documentRepo.Delete(ctx, documentID); err != nil {
		return err
	}
	if err := s.storage.DeleteFile(doc.FileURL); err != nil {
		s.logger.Warn().Err(err).Str("fileURL", doc.FileURL).Msg("Failed to delete stored file")
	}
	return nil
}
