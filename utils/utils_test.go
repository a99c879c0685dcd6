package utils

import (
	"Courtside/models"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{models.ErrInvalidName, http.StatusBadRequest, "invalid_name"},
		{models.ErrTeamNotFound, http.StatusNotFound, "team_not_found"},
		{models.ErrQueueFull, http.StatusConflict, "queue_full"},
		{models.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{models.ErrJoinFailed, http.StatusServiceUnavailable, "join_failed"},
		{fmt.Errorf("wrapped: %w", models.ErrMatchNotActive), http.StatusConflict, "match_not_active"},
		{errors.New("connection refused"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		status, body := ErrorResponse(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, body.Code)
	}
}

func TestErrorHandlerRendersLastError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(zerolog.Nop()))
	r.GET("/fail", func(c *gin.Context) { Fail(c, models.ErrNameExists) })
	r.GET("/ok", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/fail", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"code":"name_exists","error":"a team with this name already exists"}`, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/ok", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
