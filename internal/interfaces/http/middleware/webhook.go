package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookSecretHeader carries the shared secret on inbound webhook calls
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookSecret verifies the shared secret on inbound webhook requests.
// An empty configured secret disables the check.
func WebhookSecret(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			if logger != nil {
				logger.Warn("webhook secret mismatch",
					zap.String("path", c.Request.URL.Path),
					zap.String("remote_addr", c.ClientIP()),
				)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Invalid webhook secret",
				},
			})
			return
		}

		c.Next()
	}
}
