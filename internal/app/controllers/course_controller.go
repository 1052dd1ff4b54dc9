package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/app/services"
	"github.com/emskillz/instructpoint/internal/middleware"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
)

// CourseController handles course record operations
type CourseController struct {
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// ListCourses returns the courses visible to the caller
// @Summary List visible courses
// @Description Returns the courses taught by instructors the caller may see, newest course date first.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CourseListResponse "Course list"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	viewer, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	courses, err := c.courseService.ListCourses(ctx.Request.Context(), viewer)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.CourseListResponse{
		Courses: make([]dto.CourseResponse, 0, len(courses)),
		Total:   len(courses),
	}
	for _, course := range courses {
		resp.Courses = append(resp.Courses, dto.ToCourseResponse(course))
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetCourse returns a single course
// @Summary Get a course
// @Description Returns a single course if its instructor is visible to the caller.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.CourseResponse "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found or not visible"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	viewer, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), viewer, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ToCourseResponse(course))
}

// CreateCourse creates a single course record
// @Summary Create a course
// @Description Creates a single course record. The description is generated when an AI backend is configured, otherwise a standard description for the course type is used.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course fields"
// @Success 201 {object} dto.CourseResponse "Created course"
// @Failure 400 {object} dto.ErrorResponse "Invalid course type or instructor"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	var req dto.CreateCourseRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.ToCourseResponse(course))
}

// BulkCreateCourses ingests pasted tab-separated course rows
// @Summary Bulk ingest courses
// @Description Parses pasted tab-separated course rows, enriches them with generated descriptions, and persists each row independently. Partial success is reported, not rolled back.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BulkCreateCoursesRequest true "Raw rows and shared fields"
// @Success 200 {object} dto.BulkCreateCoursesResponse "Ingestion outcome"
// @Failure 400 {object} dto.ErrorResponse "Empty input, unknown instructor or invalid course type"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Router /courses/bulk [post]
func (c *CourseController) BulkCreateCourses(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	var req dto.BulkCreateCoursesRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result, err := c.courseService.BulkIngest(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int("total", result.TotalRows).
		Int("persisted", result.PersistedCount).
		Int("failed", result.FailedToPersistCount).
		Str("userID", actor.ID).
		Msg("Bulk course ingestion completed")
	ctx.JSON(http.StatusOK, result)
}

// DeleteCourse deletes a course record
// @Summary Delete a course
// @Description Deletes a course. The caller must hold management rights over the course's instructor. Courses of deleted instructors can only be removed by admins.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} dto.SuccessResponse "Course deleted"
// @Failure 403 {object} dto.ErrorResponse "Insufficient permissions"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	actor, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Course deleted successfully"})
}

// GetStats returns aggregate course statistics
// @Summary Course statistics
// @Description Returns course counts grouped by type and by month for the courses visible to the caller.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CourseStatsResponse "Statistics"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /courses/stats [get]
func (c *CourseController) GetStats(ctx *gin.Context) {
	viewer, ok := middleware.GetCurrentUser(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUserNotFound)
		return
	}

	stats, err := c.courseService.GetStats(ctx.Request.Context(), viewer)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
