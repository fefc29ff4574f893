// Package auth verifies the bearer tokens issued by the campus identity
// provider and mints development tokens for local use.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sijamu/backend/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the caller identity asserted by the identity provider.
type Claims struct {
	ID    uint   `json:"id"`
	Role  string `json:"role"`
	Prodi string `json:"prodi"`
	jwt.RegisteredClaims
}

// Identity returns the caller described by the claims.
func (c *Claims) Identity() models.Identity {
	return models.Identity{ID: c.ID, Role: c.Role, Prodi: c.Prodi}
}

// GenerateToken signs an HS256 token for id valid for ttl.
func GenerateToken(secret string, id models.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:    id.ID,
		Role:  id.Role,
		Prodi: id.Prodi,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken checks the signature and expiry of tokenStr.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
