package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/app/services"
	"github.com/emskillz/instructpoint/internal/middleware"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/helpers"
)

// InstructorController handles instructor roster operations
type InstructorController struct {
	instructorService services.InstructorService
	documentService   services.DocumentService
	logger            zerolog.Logger
}

// NewInstructorController creates a new InstructorController
func NewInstructorController(instructorService services.InstructorService, documentService services.DocumentService, logger zerolog.Logger) *InstructorController {
	return &InstructorController{
		instructorService: instructorService,
		documentService:   documentService,
		logger:            logger,
	}
}

// ListInstructors returns the instructors visible to the caller
// @Summary List visible instructors
// @Description Returns the instructors the caller may see, ordered by name. Coordinators see themselves and their transitive reports; admins see everyone. Optional status and q parameters narrow the result.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter" Enums(ACTIVE, INACTIVE, PENDING)
// @Param q query string false "Case-insensitive name or instructor ID filter"
// @Success 200 {object} dto.InstructorListResponse "Instructor list"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /instructors [get]
func (c *InstructorController) ListInstructors(ctx *gin.Context) {
	viewer, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	instructors, canManage, err := c.instructorService.ListInstructors(ctx.Request.Context(), viewer)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := ctx.Query("status")
	query := strings.ToLower(strings.TrimSpace(ctx.Query("q")))

	resp := dto.InstructorListResponse{
		Instructors: make([]dto.InstructorResponse, 0, len(instructors)),
	}
	for _, instructor := range instructors {
		if status != "" && string(instructor.Status) != status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(instructor.Name), query) &&
			!strings.Contains(strings.ToLower(instructor.InstructorID), query) {
			continue
		}
		resp.Instructors = append(resp.Instructors, dto.ToInstructorResponse(instructor, canManage[instructor.ID]))
	}
	resp.Total = len(resp.Instructors)
	ctx.JSON(http.StatusOK, resp)
}

// GetInstructor returns a single instructor with certifications
// @Summary Get an instructor
// @Description Returns a single instructor, including certifications, if the caller may see them.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Success 200 {object} dto.InstructorResponse "Instructor"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found or not visible"
// @Router /instructors/{id} [get]
func (c *InstructorController) GetInstructor(ctx *gin.Context) {
	viewer, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	instructor, canManage, err := c.instructorService.GetInstructor(ctx.Request.Context(), viewer, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToInstructorResponse(instructor, canManage))
}

// CreateInstructor creates a new instructor record
// @Summary Create an instructor
// @Description Creates a new instructor. Coordinators must place the new record under a supervisor within their own scope.
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateInstructorRequest true "Instructor fields"
// @Success 201 {object} dto.InstructorResponse "Created instructor"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or supervisor"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Failure 409 {object} dto.ErrorResponse "Instructor ID already exists"
// @Router /instructors [post]
func (c *InstructorController) CreateInstructor(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	var req dto.CreateInstructorRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	instructor, err := c.instructorService.CreateInstructor(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToInstructorResponse(instructor, true))
}

// UpdateInstructor updates an instructor record
// @Summary Update an instructor
// @Description Updates instructor fields. The caller must hold management rights over the instructor.
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Param request body dto.UpdateInstructorRequest true "Instructor fields"
// @Success 200 {object} dto.InstructorResponse "Updated instructor"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or supervisor"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [put]
func (c *InstructorController) UpdateInstructor(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	var req dto.UpdateInstructorRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	instructor, err := c.instructorService.UpdateInstructor(ctx.Request.Context(), actor, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToInstructorResponse(instructor, true))
}

// DeleteInstructor deletes an instructor record
// @Summary Delete an instructor
// @Description Deletes an instructor. Self-deletion is rejected. Direct reports keep their records with the supervisor link cleared.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Success 200 {object} dto.SuccessResponse "Instructor deleted"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions or self-deletion"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id} [delete]
func (c *InstructorController) DeleteInstructor(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	if err := c.instructorService.DeleteInstructor(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Instructor deleted successfully"})
}

// ApproveInstructor approves a pending instructor account
// @Summary Approve a pending instructor
// @Description Activates a pending instructor and their account, and sends an approval notification email. Admin only.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Success 200 {object} dto.SuccessResponse "Instructor approved"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /instructors/{id}/approve [put]
func (c *InstructorController) ApproveInstructor(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	if err := c.instructorService.ApproveInstructor(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Instructor approved successfully"})
}

// AddCertification records a certification for an instructor
// @Summary Add a certification
// @Description Records a certification for an instructor. The caller must hold management rights over the instructor.
// @Tags instructors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Param request body dto.CreateCertificationRequest true "Certification fields"
// @Success 201 {object} dto.SuccessResponse "Certification added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /instructors/{id}/certifications [post]
func (c *InstructorController) AddCertification(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	var req dto.CreateCertificationRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	cert := &models.Certification{
		InstructorID: ctx.Param("id"),
		Name:         req.Name,
	}
	if req.IssuedDate != "" {
		issued, err := time.Parse(helpers.CourseDateLayout, req.IssuedDate)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.ErrValidationFailed)
			return
		}
		cert.IssuedDate = &issued
	}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse(helpers.CourseDateLayout, req.ExpiryDate)
		if err != nil {
			middleware.HandleAPIError(ctx, apperrors.ErrValidationFailed)
			return
		}
		cert.ExpiryDate = &expiry
	}

	if err := c.instructorService.AddCertification(ctx.Request.Context(), actor, cert); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.SuccessResponse{Message: "Certification added successfully"})
}

// RemoveCertification deletes a certification record
// @Summary Remove a certification
// @Description Deletes a certification from an instructor. The caller must hold management rights over the instructor.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Param certId path string true "Certification ID"
// @Success 200 {object} dto.SuccessResponse "Certification removed"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} dto.ErrorResponse "Certification not found"
// @Router /instructors/{id}/certifications/{certId} [delete]
func (c *InstructorController) RemoveCertification(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	if err := c.instructorService.RemoveCertification(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("certId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Certification removed successfully"})
}

// UploadDocument stores a personal document for an instructor
// @Summary Upload a personal document
// @Description Stores a personal document (resume, certification card, teaching material) for an instructor. The caller must hold management rights over the instructor.
// @Tags instructors
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Param type formData string true "Document type" Enums(renewal_packet, certification_card, resume, other)
// @Param file formData file true "Document file"
// @Success 201 {object} dto.PersonalDocumentResponse "Uploaded document"
// @Failure 400 {object} dto.ErrorResponse "Invalid file or document type"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /instructors/{id}/documents [post]
func (c *InstructorController) UploadDocument(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrValidationFailed)
		return
	}
	docType := models.PersonalDocumentType(ctx.PostForm("type"))

	doc, err := c.documentService.Upload(ctx.Request.Context(), actor, ctx.Param("id"), docType, fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToPersonalDocumentResponse(doc))
}

// ListDocuments returns an instructor's personal documents
// @Summary List personal documents
// @Description Returns the personal documents of an instructor the caller may see.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Success 200 {object} dto.PersonalDocumentListResponse "Document list"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found or not visible"
// @Router /instructors/{id}/documents [get]
func (c *InstructorController) ListDocuments(ctx *gin.Context) {
	viewer, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	docs, err := c.documentService.List(ctx.Request.Context(), viewer, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.PersonalDocumentListResponse{
		Documents: make([]dto.PersonalDocumentResponse, 0, len(docs)),
		Total:     len(docs),
	}
	for _, doc := range docs {
		resp.Documents = append(resp.Documents, dto.ToPersonalDocumentResponse(doc))
	}
	ctx.JSON(http.StatusOK, resp)
}

// DeleteDocument deletes a personal document
// @Summary Delete a personal document
// @Description Deletes a personal document from an instructor. The caller must hold management rights over the instructor.
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Instructor ID"
// @Param docId path string true "Document ID"
// @Success 200 {object} dto.SuccessResponse "Document deleted"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} dto.ErrorResponse "Document not found"
// @Router /instructors/{id}/documents/{docId} [delete]
func (c *InstructorController) DeleteDocument(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	if err := c.documentService.Delete(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("docId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Document deleted successfully"})
}
