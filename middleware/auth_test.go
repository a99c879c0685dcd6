package middleware

import (
	"Courtside/config"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := config.Default()
	cfg.SessionKey = "test-session-key"
	SetUpMiddleware(r, cfg)

	r.POST("/login", func(c *gin.Context) {
		if err := StartAdminSession(c); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/admin", AdminRequired(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.GetString(rolekey)})
	})
	return r
}

func TestAdminRequiredRejectsAnonymous(t *testing.T) {
	r := newRouter()
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"code":"unauthorized","error":"admin privileges required"}`, w.Body.String())
}

func TestAdminRequiredAcceptsBearerToken(t *testing.T) {
	r := newRouter()
	token, expires, err := IssueAdminToken(testSecret, time.Hour)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	other, _, err := IssueAdminToken("another-secret", time.Hour)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRequiredAcceptsSession(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/login", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/admin", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"role":"admin"}`, w.Body.String())
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, _, err := IssueAdminToken(testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	ok, err := Socketio_JWT_decoder(map[string]interface{}{}, testSecret)
	assert.False(t, ok)
	assert.Error(t, err)
}
