package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/access"
	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/app/repositories"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/email"
)

// InstructorService defines the interface for instructor roster operations
type InstructorService interface {
	ListInstructors(ctx context.Context, viewer *models.User) ([]*models.Instructor, map[string]bool, error)
	GetInstructor(ctx context.Context, viewer *models.User, id string) (*models.Instructor, bool, error)
	CreateInstructor(ctx context.Context, actor *models.User, req *dto.CreateInstructorRequest) (*models.Instructor, error)
	UpdateInstructor(ctx context.Context, actor *models.User, id string, req *dto.UpdateInstructorRequest) (*models.Instructor, error)
	DeleteInstructor(ctx context.Context, actor *models.User, id string) error
	ApproveInstructor(ctx context.Context, actor *models.User, id string) error
	AddCertification(ctx context.Context, actor *models.User, cert *models.Certification) error
	RemoveCertification(ctx context.Context, actor *models.User, instructorID, certID string) error
}

// instructorServiceImpl implements the InstructorService interface
type instructorServiceImpl struct {
	instructorRepo *repositories.InstructorRepository
	userRepo       *repositories.UserRepository
	resolver       *access.Resolver
	emailSender    email.Sender
	logger         zerolog.Logger
}

// NewInstructorService creates a new instructor service instance
func NewInstructorService(
	instructorRepo *repositories.InstructorRepository,
	userRepo *repositories.UserRepository,
	resolver *access.Resolver,
	emailSender email.Sender,
	logger zerolog.Logger,
) InstructorService {
	return &instructorServiceImpl{
		instructorRepo: instructorRepo,
		userRepo:       userRepo,
		resolver:       resolver,
		emailSender:    emailSender,
		logger:         logger,
	}
}

// ListInstructors returns the instructors visible to the viewer along with
// a per-id management rights map.
func (s *instructorServiceImpl) ListInstructors(ctx context.Context, viewer *models.User) ([]*models.Instructor, map[string]bool, error) {
	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	visible := s.resolver.VisibleInstructors(viewer, roster)
	canManage := make(map[string]bool, len(visible))
	for _, instructor := range visible {
		canManage[instructor.ID] = s.resolver.CanManage(viewer, instructor, roster)
	}
	return visible, canManage, nil
}

// GetInstructor returns a single instructor with certifications, provided
// the viewer has visibility over them.
func (s *instructorServiceImpl) GetInstructor(ctx context.Context, viewer *models.User, id string) (*models.Instructor, bool, error) {
	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return nil, false, err
	}

	var target *models.Instructor
	for _, instructor := range s.resolver.VisibleInstructors(viewer, roster) {
		if instructor.ID == id {
			target = instructor
			break
		}
	}
	if target == nil {
		return nil, false, apperrors.ErrInstructorNotFound
	}

	certs, err := s.instructorRepo.GetCertifications(ctx, id)
	if err != nil {
		return nil, false, err
	}
	target.Certifications = certs

	return target, s.resolver.CanManage(viewer, target, roster), nil
}

// CreateInstructor adds a new instructor record. Coordinators may only
// create records within their own subtree, so the supervisor edge must point
// at an instructor the actor manages (or at the actor themselves).
func (s *instructorServiceImpl) CreateInstructor(ctx context.Context, actor *models.User, req *dto.CreateInstructorRequest) (*models.Instructor, error) {
	role := models.RoleType(req.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, req.Role)
	}

	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	supervisorID := req.ManagedByInstructorID
	if actor.RoleType != models.RoleAdmin {
		if supervisorID == nil {
			return nil, apperrors.ErrPermissionDenied
		}
		if !s.supervisorInScope(actor, *supervisorID, roster) {
			return nil, apperrors.ErrPermissionDenied
		}
	}
	if supervisorID != nil && !rosterHas(roster, *supervisorID) {
		return nil, apperrors.ErrInvalidSupervisor
	}

	instructor := &models.Instructor{
		ID:                    newID(),
		Name:                  strings.TrimSpace(req.Name),
		InstructorID:          strings.TrimSpace(req.InstructorID),
		Status:                models.StatusActive,
		Role:                  role,
		EmailAddress:          strings.ToLower(strings.TrimSpace(req.EmailAddress)),
		PhoneNumber:           strings.TrimSpace(req.PhoneNumber),
		MailingAddress:        strings.TrimSpace(req.MailingAddress),
		IsTrainingFaculty:     req.IsTrainingFaculty,
		ManagedByInstructorID: supervisorID,
	}
	if err := s.instructorRepo.Create(ctx, instructor); err != nil {
		return nil, err
	}

	s.logger.Info().Str("instructorID", instructor.ID).Str("actorID", actor.ID).Msg("Created instructor record")
	return instructor, nil
}

// UpdateInstructor replaces the mutable fields of an instructor the actor
// manages.
func (s *instructorServiceImpl) UpdateInstructor(ctx context.Context, actor *models.User, id string, req *dto.UpdateInstructorRequest) (*models.Instructor, error) {
	status := models.InstructorStatus(req.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, req.Status)
	}
	role := models.RoleType(req.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, req.Role)
	}

	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	target := rosterGet(roster, id)
	if target == nil {
		return nil, apperrors.ErrInstructorNotFound
	}
	if !s.resolver.CanManage(actor, target, roster) {
		return nil, apperrors.ErrPermissionDenied
	}
	if req.ManagedByInstructorID != nil {
		if *req.ManagedByInstructorID == id {
			return nil, fmt.Errorf("%w: instructor cannot supervise themselves", apperrors.ErrValidationFailed)
		}
		if !rosterHas(roster, *req.ManagedByInstructorID) {
			return nil, apperrors.ErrInvalidSupervisor
		}
	}

	target.Name = strings.TrimSpace(req.Name)
	target.Status = status
	target.Role = role
	target.EmailAddress = strings.ToLower(strings.TrimSpace(req.EmailAddress))
	target.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	target.MailingAddress = strings.TrimSpace(req.MailingAddress)
	target.IsTrainingFaculty = req.IsTrainingFaculty
	target.ManagedByInstructorID = req.ManagedByInstructorID

	if err := s.instructorRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// DeleteInstructor removes an instructor the actor manages. Actors may never
// delete their own record, administrators included.
func (s *instructorServiceImpl) DeleteInstructor(ctx context.Context, actor *models.User, id string) error {
	if actor.ID == id {
		return apperrors.ErrDeleteSelf
	}

	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	target := rosterGet(roster, id)
	if target == nil {
		return apperrors.ErrInstructorNotFound
	}
	if !s.resolver.CanManage(actor, target, roster) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.instructorRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("instructorID", id).Str("actorID", actor.ID).Msg("Deleted instructor record")
	return nil
}

// ApproveInstructor marks a pending account as approved, activates the
// instructor record and notifies the instructor by email.
func (s *instructorServiceImpl) ApproveInstructor(ctx context.Context, actor *models.User, id string) error {
	if actor.RoleType != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}

	instructor, err := s.instructorRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Approve(ctx, id); err != nil {
		return err
	}
	if err := s.instructorRepo.UpdateStatus(ctx, id, models.StatusActive); err != nil {
		return err
	}

	if err := s.emailSender.SendApprovalNotification(instructor.Name, instructor.EmailAddress); err != nil {
		s.logger.Warn().Err(err).Str("instructorID", id).Msg("Failed to send approval notification")
	}

	s.logger.Info().Str("instructorID", id).Str("actorID", actor.ID).Msg("Approved instructor account")
	return nil
}

// AddCertification attaches a certification to an instructor the actor
// manages.
func (s *instructorServiceImpl) AddCertification(ctx context.Context, actor *models.User, cert *models.Certification) error {
	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	target := rosterGet(roster, cert.InstructorID)
	if target == nil {
		return apperrors.ErrInstructorNotFound
	}
	if !s.resolver.CanManage(actor, target, roster) {
		return apperrors.ErrPermissionDenied
	}

	if cert.ID == "" {
		cert.ID = newID()
	}
	return s.instructorRepo.AddCertification(ctx, cert)
}

// RemoveCertification detaches a certification from an instructor the actor
// manages.
func (s *instructorServiceImpl) RemoveCertification(ctx context.Context, actor *models.User, instructorID, certID string) error {
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

	return s.instructorRepo.DeleteCertification(ctx, certID)
}

// supervisorInScope reports whether the actor manages the proposed
// supervisor, or is the supervisor themselves.
func (s *instructorServiceImpl) supervisorInScope(actor *models.User, supervisorID string, roster []*models.Instructor) bool {
	if actor.ID == supervisorID {
		return true
	}
	supervisor := rosterGet(roster, supervisorID)
	if supervisor == nil {
		return false
	}
	return s.resolver.CanManage(actor, supervisor, roster)
}

func rosterGet(roster []*models.Instructor, id string) *models.Instructor {
	for _, instructor := range roster {
		if instructor.ID == id {
			return instructor
		}
	}
	return nil
}

func rosterHas(roster []*models.Instructor, id string) bool {
	return rosterGet(roster, id) != nil
}
