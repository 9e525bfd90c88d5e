package handler

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/solivagant/quote-api/pkg/errors"
)

// Response is the envelope shared by every /api endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Success: false,
		Message: message,
	}
}

// RespondWithError writes err as a failure envelope and aborts the chain.
// Errors that are not *AppError are reported as internal errors without
// leaking their text.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = apperrors.NewInternal(err)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.StatusCode(), NewErrorResponse(appErr.Message))
}

// MethodNotAllowed answers any verb a route does not support.
func MethodNotAllowed(c *gin.Context) {
	RespondWithError(c, apperrors.NewMethodNotAllowed())
}

// NotFound answers paths no route matches.
func NotFound(c *gin.Context) {
	RespondWithError(c, apperrors.NewNotFound())
}
