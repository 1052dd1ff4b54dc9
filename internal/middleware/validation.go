package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/emskillz/instructpoint/internal/app/models/dto"
)

var validate = validator.New()

// BindAndValidate binds the JSON body into obj and runs struct validation.
// On failure it writes a field-level validation error response and returns
// false.
func BindAndValidate(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format").
			WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}

	if err := validate.Struct(obj); err != nil {
		validationErrors := dto.NewValidationErrors()
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range fieldErrors {
				validationErrors.AddError(fieldError.Field(), "failed on rule '"+fieldError.Tag()+"'")
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed").
			WithDetails(validationErrors.Errors)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}

	return true
}
