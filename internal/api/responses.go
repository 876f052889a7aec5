package api

import (
	"gymconnect/internal/apperr"
	"gymconnect/internal/logger"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"requested time overlaps an existing booking"`
	Code  string `json:"code,omitempty" example:"slot_conflict"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// RespondError writes err as an ErrorResponse with the status mapped from its code.
func RespondError(c *gin.Context, err error) {
	code := apperr.CodeOf(err)
	if code == apperr.CodeStorageFailure {
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
	}

	c.JSON(apperr.HTTPStatus(code), ErrorResponse{
		Error: apperr.PublicMessage(err),
		Code:  string(code),
	})
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(c *gin.Context, message string) {
	RespondError(c, apperr.New(apperr.CodeInvalidRequest, message))
}
