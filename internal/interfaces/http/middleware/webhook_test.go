package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newWebhookRouter(secret string) *gin.Engine {
	router := gin.New()
	router.Use(WebhookSecret(secret, nil))
	router.POST("/hook", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestWebhookSecret_Valid(t *testing.T) {
	router := newWebhookRouter("hunter2")

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(WebhookSecretHeader, "hunter2")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookSecret_Mismatch(t *testing.T) {
	router := newWebhookRouter("hunter2")

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	req.Header.Set(WebhookSecretHeader, "wrong")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookSecret_MissingHeader(t *testing.T) {
	router := newWebhookRouter("hunter2")

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookSecret_DisabledWhenEmpty(t *testing.T) {
	router := newWebhookRouter("")

	req := httptest.NewRequest(http.MethodPost, "/hook", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
