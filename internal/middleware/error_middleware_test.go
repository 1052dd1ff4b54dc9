package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
)

func handleError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleAPIError(c, err)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	return recorder, resp
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"expired token", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"revoked token", apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"disabled account", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
		{"unapproved account", apperrors.ErrAccountNotApproved, http.StatusForbidden, dto.ErrorCodeAccountNotApproved},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"self deletion", apperrors.ErrDeleteSelf, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"empty paste", apperrors.ErrEmptyInput, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown batch instructor", apperrors.ErrUnknownInstructor, http.StatusBadRequest, dto.ErrorCodeResourceInvalid},
		{"invalid supervisor", apperrors.ErrInvalidSupervisor, http.StatusBadRequest, dto.ErrorCodeResourceInvalid},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"duplicate instructor code", apperrors.ErrInstructorCodeExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"missing instructor", apperrors.ErrInstructorNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"missing course", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"missing document", apperrors.ErrDocumentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder, resp := handleError(t, tc.err)

			assert.Equal(t, tc.wantStatus, recorder.Code)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleAPIErrorWrappedSentinel(t *testing.T) {
	wrapped := fmt.Errorf("creating instructor: %w", apperrors.ErrInvalidSupervisor)
	recorder, resp := handleError(t, wrapped)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, dto.ErrorCodeResourceInvalid, resp.Error.Code)
}

func TestHandleAPIErrorUnknownErrorIsInternal(t *testing.T) {
	recorder, resp := handleError(t, errors.New("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, dto.ErrorCodeInternalServer, resp.Error.Code)
	// The cause is logged, never leaked to the client
	assert.NotContains(t, recorder.Body.String(), "connection reset")
}
