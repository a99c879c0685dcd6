package utils

import (
	"Courtside/models"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var errInternal = &models.Error{Code: "internal", Message: "internal error, try again later"}

// Logger logs one line per request.
func Logger(l zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		status := c.Writer.Status()
		ev := l.Info()
		if status >= http.StatusInternalServerError {
			ev = l.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(startTime)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

// ErrorHandler renders the last error a handler attached with c.Error, unless
// the handler already wrote a response.
func ErrorHandler(l zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, body := ErrorResponse(err)
		if status >= http.StatusInternalServerError {
			l.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		}
		c.JSON(status, body)
	}
}

// ErrorResponse maps an error to its HTTP status and response body.
func ErrorResponse(err error) (int, *models.Error) {
	var e *models.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, errInternal
	}
	switch e.Kind {
	case models.KindValidation:
		return http.StatusBadRequest, e
	case models.KindNotFound:
		return http.StatusNotFound, e
	case models.KindConflict:
		return http.StatusConflict, e
	case models.KindUnauthorized:
		return http.StatusUnauthorized, e
	case models.KindTransient:
		return http.StatusServiceUnavailable, e
	}
	return http.StatusInternalServerError, errInternal
}

// Fail hands err to ErrorHandler and stops the chain.
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
