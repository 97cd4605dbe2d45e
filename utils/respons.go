package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// RespondJSON writes data as the whole response body.
func RespondJSON(c *gin.Context, code int, data interface{}) {
	c.JSON(code, data)
}

// RespondError writes {"error": ...}. Field-level validation failures also
// carry a "fields" map keyed by JSON field name.
func RespondError(c *gin.Context, code int, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		resp.Error = "Invalid request"
		resp.Fields = fieldErrs
	}
	c.AbortWithStatusJSON(code, resp)
}

// RespondInternal logs err with the request context and replies with a
// generic message so store details never reach the caller.
func RespondInternal(c *gin.Context, message string, err error) {
	ErrorLogger.WithFields(logrus.Fields{
		"request_id": c.GetString(RequestIDKey),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}).WithError(err).Error(message)

	c.AbortWithStatusJSON(500, ErrorResponse{Error: message})
}
