package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"chat-api/internal/interfaces/httpserver/dto"
)

// respondValidationError itemizes binding failures per field before any
// store mutation has happened.
func respondValidationError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.FieldError, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, dto.FieldError{
				Field:   fieldErr.Field(),
				Message: fieldMessage(fieldErr),
			})
		}
		c.JSON(http.StatusBadRequest, dto.ErrorPayload{
			Error:   "Validation failed",
			Details: details,
		})
		return
	}

	c.JSON(http.StatusBadRequest, dto.ErrorPayload{
		Error:   "Validation failed",
		Message: err.Error(),
	})
}

// respondInternal hides failure detail outside development.
func respondInternal(c *gin.Context, environment string, err error, message string) {
	payload := dto.ErrorPayload{Error: message}
	if environment != "production" {
		payload.Message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, payload)
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.ErrorPayload{Error: message})
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldErr.Field())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", fieldErr.Field(), fieldErr.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fieldErr.Field())
	default:
		return fmt.Sprintf("%s is invalid", fieldErr.Field())
	}
}
