// utils/errors.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Stable error codes surfaced to API clients.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeWeekdayOnly        = "WEEKDAY_ONLY"
	CodeOutsideHours       = "OUTSIDE_OPENING_HOURS"
	CodeEndOutsideHours    = "END_OUTSIDE_OPENING_HOURS"
	CodeDateInPast         = "DATE_IN_PAST"
	CodeInvalidStatus      = "INVALID_STATUS"
	CodeAlreadyRegistered  = "ALREADY_REGISTERED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
)

// AppError is a user-facing error with a stable code. Internal errors
// (database and the like) are never wrapped into one of these; they get
// logged and reported as a plain 500.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg, Status: http.StatusBadRequest}
}

// NewConstraintError reports a violated booking rule (weekday-only,
// opening hours, past date, duplicate registration).
func NewConstraintError(code, msg string) *AppError {
	return &AppError{Code: code, Message: msg, Status: http.StatusUnprocessableEntity}
}

// NewStateError reports a transition attempted from the wrong status.
func NewStateError(msg string) *AppError {
	return &AppError{Code: CodeInvalidStatus, Message: msg, Status: http.StatusConflict}
}

func NewForbiddenError(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg, Status: http.StatusForbidden}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Message: msg, Status: http.StatusNotFound}
}

// RespondWithError sends a plain error response with the given status.
func RespondWithError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// RespondWithServiceError translates a service-layer error into a JSON
// response. AppErrors pass through with their code; anything else is a 500.
func RespondWithServiceError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}
	GetLogger().Error("unexpected service error",
		zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
