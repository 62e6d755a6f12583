package middleware

import (
	"net/http"
	"strings"

	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys
const (
	ClaimsKey     = "auth_claims"
	OperatorKey   = "auth_operator"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// AuthConfig holds configuration for the token middleware
type AuthConfig struct {
	// Tokens is required for token validation
	Tokens *auth.TokenService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultAuthConfig returns default token middleware configuration
func DefaultAuthConfig(tokens *auth.TokenService) AuthConfig {
	return AuthConfig{
		Tokens: tokens,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
		},
		SkipPathPrefixes: []string{
			"/api/v1/webhooks/missive",
		},
	}
}

// TokenAuth creates bearer-token authentication middleware
func TokenAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return TokenAuthWithConfig(DefaultAuthConfig(tokens))
}

// TokenAuthWithConfig creates bearer-token authentication middleware with custom config
func TokenAuthWithConfig(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.Tokens.Validate(tokenString)
		if err != nil {
			abortUnauthorized(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(OperatorKey, claims.Operator)
		c.Next()
	}
}

// abortUnauthorized rejects the request with a 401 error response
func abortUnauthorized(c *gin.Context, cfg AuthConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := "UNAUTHORIZED"
	errorMessage := "Authentication required"

	switch err {
	case auth.ErrExpiredToken:
		errorCode = "TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case auth.ErrInvalidToken:
		errorCode = "TOKEN_INVALID"
		errorMessage = "Invalid token"
	case auth.ErrTokenNotYetValid:
		errorCode = "TOKEN_INVALID"
		errorMessage = "Token is not yet valid"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errorCode,
			"message": errorMessage,
		},
	})
}

// GetClaims retrieves token claims from gin.Context
func GetClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(ClaimsKey); exists {
		if tokenClaims, ok := claims.(*auth.Claims); ok {
			return tokenClaims
		}
	}
	return nil
}

// GetOperator retrieves the authenticated operator name from gin.Context
func GetOperator(c *gin.Context) string {
	return c.GetString(OperatorKey)
}
