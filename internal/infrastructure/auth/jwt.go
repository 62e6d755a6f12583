package auth

import (
	"errors"
	"time"

	"github.com/dangreenberg93/cin7-uploader/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingOperator  = errors.New("missing operator in claims")
)

// Claims represents the API token claims
type Claims struct {
	jwt.RegisteredClaims
	Operator string `json:"operator"`
}

// Token represents an issued API token
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"` // Bearer
}

// TokenService issues and validates API tokens
type TokenService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewTokenService creates a new token service
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.JWTSecret),
		expiration: cfg.TokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// Generate issues a signed token for the given operator
func (s *TokenService) Generate(operator string) (*Token, error) {
	if operator == "" {
		return nil, ErrMissingOperator
	}

	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   operator,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Operator: operator,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// Validate parses and verifies a token, returning its claims
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Operator == "" {
		return nil, ErrMissingOperator
	}

	return claims, nil
}
