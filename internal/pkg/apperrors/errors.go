package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrAccountNotApproved = errors.New("account is awaiting administrator approval")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrDeleteSelf       = errors.New("own record cannot be deleted")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Instructor errors
var (
	ErrInstructorNotFound   = errors.New("instructor not found")
	ErrInstructorCodeExists = errors.New("instructor code already exists")
	ErrInvalidSupervisor    = errors.New("supervisor instructor not found")
)

// Course errors
var (
	ErrCourseNotFound = errors.New("course not found")
)

// Certification errors
var (
	ErrCertificationNotFound = errors.New("certification not found")
)

// Course ingestion errors. Only these two abort a batch before any row is
// processed; every other ingestion failure is absorbed into per-row
// fallbacks and aggregate counts.
var (
	ErrEmptyInput        = errors.New("pasted input is empty")
	ErrUnknownInstructor = errors.New("batch instructor not found")
)

// Curriculum errors
var (
	ErrCurriculumDocumentNotFound = errors.New("curriculum document not found")
)

// Document errors
var (
	ErrDocumentNotFound = errors.New("document not found")
)
