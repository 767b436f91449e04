// Package response defines the error envelope and status helpers shared by
// all handlers. Errors carry a machine-readable code plus optional per-field
// details; successful payloads are written as-is.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeFeatureDisabled = "FEATURE_DISABLED"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

// ErrorBody is the error envelope.
type ErrorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// OK writes a 200 with the payload.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Accepted writes a 202, used when a job has been queued.
func Accepted(c *gin.Context, data interface{}) {
	c.JSON(http.StatusAccepted, data)
}

// BadRequest writes a 400 validation error with per-field details.
func BadRequest(c *gin.Context, message string, details map[string]string) {
	if message == "" {
		message = "request validation failed"
	}
	c.JSON(http.StatusBadRequest, ErrorBody{
		Code:    CodeValidationError,
		Message: message,
		Details: details,
	})
}

// Forbidden writes a 403 for disabled features.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "feature is disabled"
	}
	c.JSON(http.StatusForbidden, ErrorBody{
		Code:    CodeFeatureDisabled,
		Message: message,
	})
}

// NotFound writes a 404.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "resource not found"
	}
	c.JSON(http.StatusNotFound, ErrorBody{
		Code:    CodeNotFound,
		Message: message,
	})
}

// ServerError writes a 500.
func ServerError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error"
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{
		Code:    CodeInternalError,
		Message: message,
	})
}
