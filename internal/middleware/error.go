package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/clinic-registry/pkg/validator"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	TraceID string                 `json:"trace_id,omitempty"`
	Details []validator.FieldError `json:"details,omitempty"`
}

type statusCoder interface {
	StatusCode() int
}

type fieldErrorer interface {
	FieldErrors() []validator.FieldError
}

type publicMessager interface {
	statusCoder
	PublicMessage() string
}

// ErrorHandler renders the last error attached with c.Error. Errors that do not
// carry a status are reported as 500 without leaking their text.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("trace_id", traceID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Msg("Request error")
		}

		// the handler already wrote a response
		if c.Writer.Written() {
			return
		}

		c.JSON(renderError(c.Errors.Last().Err, traceID))
	}
}

func renderError(err error, traceID string) (int, ErrorResponse) {
	resp := ErrorResponse{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
		TraceID: traceID,
	}

	var sc statusCoder
	if !errors.As(err, &sc) {
		return resp.Code, resp
	}

	resp.Code = sc.StatusCode()
	var pm publicMessager
	if errors.As(err, &pm) {
		resp.Message = pm.PublicMessage()
	}

	var fe fieldErrorer
	if errors.As(err, &fe) {
		resp.Details = fe.FieldErrors()
	}
	return resp.Code, resp
}
