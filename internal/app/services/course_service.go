package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/access"
	"github.com/emskillz/instructpoint/internal/app/ingest"
	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/app/repositories"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/helpers"
)

// CourseService defines the interface for course record operations
type CourseService interface {
	ListCourses(ctx context.Context, viewer *models.User) ([]*models.Course, error)
	GetCourse(ctx context.Context, viewer *models.User, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, actor *models.User, req *dto.CreateCourseRequest) (*models.Course, error)
	BulkIngest(ctx context.Context, actor *models.User, req *dto.BulkCreateCoursesRequest) (*dto.BulkCreateCoursesResponse, error)
	DeleteCourse(ctx context.Context, actor *models.User, id string) error
	GetStats(ctx context.Context, viewer *models.User) (*dto.CourseStatsResponse, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courseRepo     *repositories.CourseRepository
	instructorRepo *repositories.InstructorRepository
	resolver       *access.Resolver
	pipeline       *ingest.Pipeline
	describer      ingest.Describer
	describeWait   time.Duration
	logger         zerolog.Logger
}

// NewCourseService creates a new course service instance
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	instructorRepo *repositories.InstructorRepository,
	resolver *access.Resolver,
	pipeline *ingest.Pipeline,
	describer ingest.Describer,
	describeWait time.Duration,
	logger zerolog.Logger,
) CourseService {
	return &courseServiceImpl{
		courseRepo:     courseRepo,
		instructorRepo: instructorRepo,
		resolver:       resolver,
		pipeline:       pipeline,
		describer:      describer,
		describeWait:   describeWait,
		logger:         logger,
	}
}

// visibleInstructorIDs resolves the ids of the instructors the viewer may
// see. Courses inherit visibility from their instructor.
func (s *courseServiceImpl) visibleInstructorIDs(ctx context.Context, viewer *models.User) ([]string, []*models.Instructor, error) {
	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	visible := s.resolver.VisibleInstructors(viewer, roster)
	ids := make([]string, 0, len(visible))
	for _, instructor := range visible {
		ids = append(ids, instructor.ID)
	}
	return ids, roster, nil
}

// ListCourses returns courses taught by instructors visible to the viewer,
// newest first.
func (s *courseServiceImpl) ListCourses(ctx context.Context, viewer *models.User) ([]*models.Course, error) {
	ids, _, err := s.visibleInstructorIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return s.courseRepo.GetByInstructorIDs(ctx, ids)
}

// GetCourse returns a single course provided its instructor is visible to
// the viewer.
func (s *courseServiceImpl) GetCourse(ctx context.Context, viewer *models.User, id string) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids, _, err := s.visibleInstructorIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}
	for _, instructorID := range ids {
		if instructorID == course.InstructorID {
			return course, nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

// CreateCourse persists a single course record, generating its description
// with the same fallback rules the bulk pipeline uses.
func (s *courseServiceImpl) CreateCourse(ctx context.Context, actor *models.User, req *dto.CreateCourseRequest) (*models.Course, error) {
	courseType := models.CourseType(req.CourseType)
	if !courseType.IsValid() {
		return nil, fmt.Errorf("%w: unknown course type %q", apperrors.ErrValidationFailed, req.CourseType)
	}

	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	target := rosterGet(roster, req.InstructorID)
	if target == nil {
		return nil, apperrors.ErrUnknownInstructor
	}
	if !s.resolver.CanManage(actor, target, roster) {
		return nil, apperrors.ErrPermissionDenied
	}

	courseDate := strings.TrimSpace(req.CourseDate)
	if !helpers.IsValidCourseDate(courseDate) {
		courseDate = time.Now().Format(helpers.CourseDateLayout)
	}

	description := s.describeOrFallback(ctx, courseType)
	course := &models.Course{
		ID:                      newID(),
		ECardCode:               strings.TrimSpace(req.ECardCode),
		CourseDate:              courseDate,
		StudentFirstName:        strings.TrimSpace(req.StudentFirstName),
		StudentLastName:         strings.TrimSpace(req.StudentLastName),
		StudentEmail:            strings.TrimSpace(req.StudentEmail),
		StudentPhone:            strings.TrimSpace(req.StudentPhone),
		InstructorID:            req.InstructorID,
		TrainingLocationAddress: strings.TrimSpace(req.TrainingLocationAddress),
		CourseType:              courseType,
		Description:             &description,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// BulkIngest runs a pasted tab-separated batch through the ingestion
// pipeline and summarizes the outcome.
func (s *courseServiceImpl) BulkIngest(ctx context.Context, actor *models.User, req *dto.BulkCreateCoursesRequest) (*dto.BulkCreateCoursesResponse, error) {
	courseType := models.CourseType(req.CourseType)
	if !courseType.IsValid() {
		return nil, fmt.Errorf("%w: unknown course type %q", apperrors.ErrValidationFailed, req.CourseType)
	}

	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	target := rosterGet(roster, req.InstructorID)
	if target != nil && !s.resolver.CanManage(actor, target, roster) {
		return nil, apperrors.ErrPermissionDenied
	}

	parsed, err := s.pipeline.ParseRows(ctx, req.RawText, ingest.Batch{
		InstructorID:            req.InstructorID,
		TrainingLocationAddress: req.TrainingLocationAddress,
		CourseType:              courseType,
	})
	if err != nil {
		return nil, err
	}

	report := s.pipeline.EnrichAndPersist(ctx, parsed.Rows)

	resp := &dto.BulkCreateCoursesResponse{
		Message:                  bulkOutcomeMessage(report),
		Outcome:                  string(report.Outcome()),
		TotalRows:                report.TotalRows,
		MalformedRows:            parsed.MalformedCount,
		PersistedCount:           report.PersistedCount,
		FailedToPersistCount:     report.FailedToPersistCount,
		DescriptionFallbackCount: report.DescriptionFallbackCount,
	}

	s.logger.Info().
		Str("actorID", actor.ID).
		Str("instructorID", req.InstructorID).
		Str("outcome", resp.Outcome).
		Int("persisted", resp.PersistedCount).
		Int("failed", resp.FailedToPersistCount).
		Msg("Completed bulk course ingestion")
	return resp, nil
}

// DeleteCourse removes a course record taught by an instructor the actor
// manages.
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, actor *models.User, id string) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	roster, err := s.instructorRepo.GetAll(ctx)
	if err != nil {
		return err
	}
	target := rosterGet(roster, course.InstructorID)
	// Orphaned courses are manageable by administrators only
	if target == nil {
		if actor.RoleType != models.RoleAdmin {
			return apperrors.ErrPermissionDenied
		}
	} else if !s.resolver.CanManage(actor, target, roster) {
		return apperrors.ErrPermissionDenied
	}

	return s.courseRepo.Delete(ctx, id)
}

// GetStats aggregates course counts over the viewer's visible instructors.
func (s *courseServiceImpl) GetStats(ctx context.Context, viewer *models.User) (*dto.CourseStatsResponse, error) {
	ids, _, err := s.visibleInstructorIDs(ctx, viewer)
	if err != nil {
		return nil, err
	}

	byType, err := s.courseRepo.CountByType(ctx, ids)
	if err != nil {
		return nil, err
	}
	byMonth, err := s.courseRepo.CountByMonth(ctx, ids)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, count := range byType {
		total += count
	}
	return &dto.CourseStatsResponse{
		TotalCourses:   total,
		CoursesByType:  byType,
		CoursesByMonth: byMonth,
	}, nil
}

func (s *courseServiceImpl) describeOrFallback(ctx context.Context, courseType models.CourseType) string {
	if s.describer != nil {
		callCtx := ctx
		if s.describeWait > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.describeWait)
			defer cancel()
		}
		if description, err := s.describer.Describe(callCtx, courseType); err == nil {
			return description
		}
	}
	return ingest.FallbackDescription(courseType)
}

func bulkOutcomeMessage(report ingest.Report) string {
	switch report.Outcome() {
	case ingest.OutcomeFullSuccess:
		return fmt.Sprintf("All %d courses were created successfully.", report.PersistedCount)
	case ingest.OutcomeTotalFailure:
		return "No courses could be created. Please review the pasted data and try again."
	default:
		return fmt.Sprintf("%d of %d courses were created; %d failed.",
			report.PersistedCount, report.TotalRows, report.FailedToPersistCount)
	}
}
