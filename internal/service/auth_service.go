package service

import (
	"errors"
	"fmt"
	"time"

	"lowbid/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService issues tokens that let HTTP callers act as a live connection
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
}

// NewAuthService creates a new auth service. A zero ttl issues tokens without expiry.
func NewAuthService(secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: []byte(secret),
		ttl:       ttl,
	}
}

// GenerateConnectionToken signs a token for a connection id
func (s *AuthService) GenerateConnectionToken(connID string) (string, error) {
	now := time.Now()
	claims := &model.ConnectionClaims{
		ConnectionID: connID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			Subject:  connID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateConnectionToken validates a connection JWT and returns claims
func (s *AuthService) ValidateConnectionToken(tokenString string) (*model.ConnectionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.ConnectionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.ConnectionClaims)
	if !ok || !token.Valid || claims.ConnectionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
