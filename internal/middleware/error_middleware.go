package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/logger"
)

// HandleAPIError maps service-layer errors onto HTTP responses with
// standardized error codes. Unrecognized errors become a 500 and are logged
// with their cause.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token not found")
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respond(c, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled")
	case errors.Is(err, apperrors.ErrAccountNotApproved):
		respond(c, http.StatusForbidden, dto.ErrorCodeAccountNotApproved, "Account is awaiting administrator approval")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrDeleteSelf):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, "You cannot delete your own record")
	case errors.Is(err, apperrors.ErrValidationFailed):
		respondDetail(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed", err.Error())
	case errors.Is(err, apperrors.ErrEmptyInput):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Pasted input is empty")
	case errors.Is(err, apperrors.ErrUnknownInstructor):
		respond(c, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Batch instructor not found")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrInstructorCodeExists):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Instructor ID already exists")
	case errors.Is(err, apperrors.ErrInvalidSupervisor):
		respond(c, http.StatusBadRequest, dto.ErrorCodeResourceInvalid, "Supervisor instructor not found")
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrInstructorNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Instructor not found")
	case errors.Is(err, apperrors.ErrCourseNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Course not found")
	case errors.Is(err, apperrors.ErrCertificationNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Certification not found")
	case errors.Is(err, apperrors.ErrCurriculumDocumentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Curriculum document not found")
	case errors.Is(err, apperrors.ErrDocumentNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Document not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "An unexpected error occurred")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}

func respondDetail(c *gin.Context, status int, code dto.ErrorCode, message, details string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message).WithDetails(details)))
}
