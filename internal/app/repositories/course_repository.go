package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
)

// CourseRepository handles database operations for course records
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new course record
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("id", "ecard_code", "course_date", "student_first_name", "student_last_name",
			"student_email", "student_phone", "instructor_id", "training_location_address",
			"course_type", "description").
		Values(course.ID, course.ECardCode, course.CourseDate, course.StudentFirstName,
			course.StudentLastName, course.StudentEmail, course.StudentPhone,
			course.InstructorID, course.TrainingLocationAddress, course.CourseType,
			course.Description).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetByID retrieves a course by ID with its instructor name resolved
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	course := &models.Course{}
	var instructorName *string
	err := r.db.QueryRow(ctx, `
		SELECT c.id, c.ecard_code, c.course_date, c.student_first_name, c.student_last_name,
		       c.student_email, c.student_phone, c.instructor_id, c.training_location_address,
		       c.course_type, c.description, c.created_at, i.name
		FROM courses c
		LEFT JOIN instructors i ON i.id = c.instructor_id
		WHERE c.id = $1`, id).Scan(
		&course.ID, &course.ECardCode, &course.CourseDate, &course.StudentFirstName,
		&course.StudentLastName, &course.StudentEmail, &course.StudentPhone,
		&course.InstructorID, &course.TrainingLocationAddress, &course.CourseType,
		&course.Description, &course.CreatedAt, &instructorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	if instructorName != nil {
		course.InstructorName = *instructorName
	}
	return course, nil
}

// GetByInstructorIDs lists courses taught by any of the given instructors,
// newest course date first. An empty id set yields an empty list.
func (r *CourseRepository) GetByInstructorIDs(ctx context.Context, instructorIDs []string) ([]*models.Course, error) {
	if len(instructorIDs) == 0 {
		return nil, nil
	}

	sql, args, err := r.sb.Select(
		"c.id", "c.ecard_code", "c.course_date", "c.student_first_name", "c.student_last_name",
		"c.student_email", "c.student_phone", "c.instructor_id", "c.training_location_address",
		"c.course_type", "c.description", "c.created_at", "i.name").
		From("courses c").
		LeftJoin("instructors i ON i.id = c.instructor_id").
		Where(squirrel.Eq{"c.instructor_id": instructorIDs}).
		OrderBy("c.course_date DESC", "c.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course := &models.Course{}
		var instructorName *string
		err := rows.Scan(
			&course.ID, &course.ECardCode, &course.CourseDate, &course.StudentFirstName,
			&course.StudentLastName, &course.StudentEmail, &course.StudentPhone,
			&course.InstructorID, &course.TrainingLocationAddress, &course.CourseType,
			&course.Description, &course.CreatedAt, &instructorName)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		if instructorName != nil {
			course.InstructorName = *instructorName
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// Delete removes a course record
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// CountByType aggregates course counts per course type for the given
// instructors
func (r *CourseRepository) CountByType(ctx context.Context, instructorIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(instructorIDs) == 0 {
		return counts, nil
	}

	sql, args, err := r.sb.Select("course_type", "COUNT(*)").
		From("courses").
		Where(squirrel.Eq{"instructor_id": instructorIDs}).
		GroupBy("course_type").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course type stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting courses by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseType string
		var count int
		if err := rows.Scan(&courseType, &count); err != nil {
			return nil, fmt.Errorf("error scanning course type count: %w", err)
		}
		counts[courseType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course type counts: %w", err)
	}
	return counts, nil
}

// CountByMonth aggregates course counts per YYYY-MM month for the given
// instructors. Rows whose course_date is not a parseable date are skipped.
func (r *CourseRepository) CountByMonth(ctx context.Context, instructorIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(instructorIDs) == 0 {
		return counts, nil
	}

	sql, args, err := r.sb.Select("LEFT(course_date, 7) AS month", "COUNT(*)").
		From("courses").
		Where(squirrel.Eq{"instructor_id": instructorIDs}).
		Where("course_date ~ '^\\d{4}-\\d{2}-\\d{2}$'").
		GroupBy("month").
		OrderBy("month ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course month stats query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting courses by month: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var month string
		var count int
		if err := rows.Scan(&month, &count); err != nil {
			return nil, fmt.Errorf("error scanning course month count: %w", err)
		}
		counts[month] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course month counts: %w", err)
	}
	return counts, nil
}
