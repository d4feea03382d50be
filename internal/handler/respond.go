package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hpenglish/course-portal/internal/dto"
	"github.com/hpenglish/course-portal/internal/service"
)

// errorStatus maps a service error to its stable status code and the message
// safe to show the caller. Unclassified errors are reported generically so
// internals never leak.
func errorStatus(err error) (int, string) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		return http.StatusConflict, conflictErr.Message
	}

	var notFoundErr *service.NotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusNotFound, notFoundErr.Message
	}

	var unauthorizedErr *service.UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		return http.StatusUnauthorized, unauthorizedErr.Message
	}

	return http.StatusInternalServerError, ""
}

func respondError(c *gin.Context, err error, genericMessage string) {
	status, message := errorStatus(err)
	if message == "" {
		message = genericMessage
	}
	c.JSON(status, dto.ErrorResponse{Error: message})
}
