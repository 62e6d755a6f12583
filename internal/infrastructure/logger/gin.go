package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ginLoggerKey = "logger"

// GinMiddleware returns a gin middleware that logs every request with a
// request-scoped zap logger. Health probes are logged at debug to keep
// them out of the normal stream.
func GinMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		reqLogger := log.With(
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
		)
		c.Set(ginLoggerKey, reqLogger)

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("body_size", c.Writer.Size()),
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			reqLogger.Error("HTTP request", fields...)
		case status >= 400:
			reqLogger.Warn("HTTP request", fields...)
		case path == "/health" || path == "/api/v1/health":
			reqLogger.Debug("HTTP request", fields...)
		default:
			reqLogger.Info("HTTP request", fields...)
		}
	}
}

// Recovery returns a gin middleware that recovers from panics, logs the
// stack, and answers 500 without leaking the panic value.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					zap.String("request_id", c.GetString("request_id")),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "ERR_INTERNAL",
						"message": "An unexpected error occurred",
					},
				})
			}
		}()
		c.Next()
	}
}

// FromGin retrieves the request-scoped logger set by GinMiddleware.
func FromGin(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(ginLoggerKey); exists {
		if log, ok := l.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}
