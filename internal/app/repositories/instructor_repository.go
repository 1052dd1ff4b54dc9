package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/dberrors"
)

var instructorColumns = []string{
	"id", "name", "instructor_code", "status", "role_type", "email_address",
	"phone_number", "mailing_address", "is_training_faculty",
	"managed_by_instructor_id", "profile_picture_url", "created_at", "updated_at",
}

// InstructorRepository handles database operations for instructor records
// and their certifications
type InstructorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanInstructor(row pgx.Row) (*models.Instructor, error) {
	instructor := &models.Instructor{}
	err := row.Scan(
		&instructor.ID, &instructor.Name, &instructor.InstructorID, &instructor.Status,
		&instructor.Role, &instructor.EmailAddress, &instructor.PhoneNumber,
		&instructor.MailingAddress, &instructor.IsTrainingFaculty,
		&instructor.ManagedByInstructorID, &instructor.ProfilePictureURL,
		&instructor.CreatedAt, &instructor.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return instructor, nil
}

// Create inserts a new instructor record
func (r *InstructorRepository) Create(ctx context.Context, instructor *models.Instructor) error {
	sql, args, err := r.sb.Insert("instructors").
		Columns("id", "name", "instructor_code", "status", "role_type", "email_address",
			"phone_number", "mailing_address", "is_training_faculty",
			"managed_by_instructor_id", "profile_picture_url").
		Values(instructor.ID, instructor.Name, instructor.InstructorID, instructor.Status,
			instructor.Role, instructor.EmailAddress, instructor.PhoneNumber,
			instructor.MailingAddress, instructor.IsTrainingFaculty,
			instructor.ManagedByInstructorID, instructor.ProfilePictureURL).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create instructor query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "instructors_instructor_code_key") {
			return apperrors.ErrInstructorCodeExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidSupervisor
		}
		return fmt.Errorf("error creating instructor: %w", err)
	}
	return nil
}

// GetByID retrieves an instructor by ID
func (r *InstructorRepository) GetByID(ctx context.Context, id string) (*models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}

	instructor, err := scanInstructor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}
	return instructor, nil
}

// GetByCode retrieves an instructor by its human-facing instructor code
func (r *InstructorRepository) GetByCode(ctx context.Context, code string) (*models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		Where(squirrel.Eq{"instructor_code": code}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get instructor by code query: %w", err)
	}

	instructor, err := scanInstructor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstructorNotFound
		}
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}
	return instructor, nil
}

// GetAll retrieves the full instructor roster ordered by name
func (r *InstructorRepository) GetAll(ctx context.Context) ([]*models.Instructor, error) {
	sql, args, err := r.sb.Select(instructorColumns...).
		From("instructors").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list instructors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*models.Instructor
	for rows.Next() {
		instructor, err := scanInstructor(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning instructor row: %w", err)
		}
		instructors = append(instructors, instructor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instructor rows: %w", err)
	}
	return instructors, nil
}

// Exists checks whether an instructor record exists
func (r *InstructorRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM instructors WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking instructor: %w", err)
	}
	return exists, nil
}

// Update replaces the mutable fields of an instructor record
func (r *InstructorRepository) Update(ctx context.Context, instructor *models.Instructor) error {
	sql, args, err := r.sb.Update("instructors").
		Set("name", instructor.Name).
		Set("status", instructor.Status).
		Set("role_type", instructor.Role).
		Set("email_address", instructor.EmailAddress).
		Set("phone_number", instructor.PhoneNumber).
		Set("mailing_address", instructor.MailingAddress).
		Set("is_training_faculty", instructor.IsTrainingFaculty).
		Set("managed_by_instructor_id", instructor.ManagedByInstructorID).
		Set("profile_picture_url", instructor.ProfilePictureURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": instructor.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update instructor query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInvalidSupervisor
		}
		return fmt.Errorf("error updating instructor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}
	return nil
}

// UpdateStatus changes only the lifecycle status of an instructor
func (r *InstructorRepository) UpdateStatus(ctx context.Context, id string, status models.InstructorStatus) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE instructors
		SET status = $1, updated_at = NOW()
		WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating instructor status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}
	return nil
}

// Delete removes an instructor record. Reports of the deleted instructor
// keep their supervisor edge cleared by the FK's ON DELETE SET NULL.
func (r *InstructorRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM instructors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting instructor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInstructorNotFound
	}
	return nil
}

// GetCertifications retrieves the certifications held by an instructor
func (r *InstructorRepository) GetCertifications(ctx context.Context, instructorID string) ([]*models.Certification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, instructor_id, name, issued_date, expiry_date
		FROM certifications
		WHERE instructor_id = $1
		ORDER BY expiry_date ASC NULLS LAST`, instructorID)
	if err != nil {
		return nil, fmt.Errorf("error listing certifications: %w", err)
	}
	defer rows.Close()

	var certs []*models.Certification
	for rows.Next() {
		cert := &models.Certification{}
		if err := rows.Scan(&cert.ID, &cert.InstructorID, &cert.Name, &cert.IssuedDate, &cert.ExpiryDate); err != nil {
			return nil, fmt.Errorf("error scanning certification row: %w", err)
		}
		certs = append(certs, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certification rows: %w", err)
	}
	return certs, nil
}

// AddCertification attaches a certification to an instructor
func (r *InstructorRepository) AddCertification(ctx context.Context, cert *models.Certification) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO certifications (id, instructor_id, name, issued_date, expiry_date)
		VALUES ($1, $2, $3, $4, $5)`,
		cert.ID, cert.InstructorID, cert.Name, cert.IssuedDate, cert.ExpiryDate)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrInstructorNotFound
		}
		return fmt.Errorf("error creating certification: %w", err)
	}
	return nil
}

// DeleteCertification removes a certification from an instructor
func (r *InstructorRepository) DeleteCertification(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM certifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting certification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCertificationNotFound
	}
	return nil
}

// GetExpiringCertifications lists certifications expiring within the window,
// including already-expired ones still attached to active instructors.
func (r *InstructorRepository) GetExpiringCertifications(ctx context.Context, within time.Duration) ([]*models.Certification, error) {
	cutoff := time.Now().Add(within)
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.instructor_id, c.name, c.issued_date, c.expiry_date
		FROM certifications c
		JOIN instructors i ON i.id = c.instructor_id
		WHERE c.expiry_date IS NOT NULL
		  AND c.expiry_date <= $1
		  AND i.status = $2
		ORDER BY c.expiry_date ASC`, cutoff, models.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("error listing expiring certifications: %w", err)
	}
	defer rows.Close()

	var certs []*models.Certification
	for rows.Next() {
		cert := &models.Certification{}
		if err := rows.Scan(&cert.ID, &cert.InstructorID, &cert.Name, &cert.IssuedDate, &cert.ExpiryDate); err != nil {
			return nil, fmt.Errorf("error scanning certification row: %w", err)
		}
		certs = append(certs, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating certification rows: %w", err)
	}
	return certs, nil
}
