package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/app/services"
	"github.com/emskillz/instructpoint/internal/middleware"
)

// CurriculumController serves the shared curriculum document tree
type CurriculumController struct {
	curriculumService services.CurriculumService
	logger            zerolog.Logger
}

// NewCurriculumController creates a new CurriculumController
func NewCurriculumController(curriculumService services.CurriculumService, logger zerolog.Logger) *CurriculumController {
	return &CurriculumController{
		curriculumService: curriculumService,
		logger:            logger,
	}
}

// GetTree returns the curriculum document tree
// @Summary Get the curriculum tree
// @Description Returns the full curriculum folder tree, visible to every authenticated user. An optional q parameter filters by name: a matching folder keeps its whole subtree, otherwise ancestors of matching documents are kept.
// @Tags curriculum
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive name filter"
// @Success 200 {object} dto.CurriculumTreeResponse "Curriculum tree"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /curriculum [get]
func (c *CurriculumController) GetTree(ctx *gin.Context) {
	roots, err := c.curriculumService.GetTree(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.CurriculumTreeResponse{
		Documents: make([]dto.CurriculumDocumentResponse, 0, len(roots)),
	}
	for _, root := range roots {
		resp.Documents = append(resp.Documents, dto.ToCurriculumDocumentResponse(root))
	}
	ctx.JSON(http.StatusOK, resp)
}
