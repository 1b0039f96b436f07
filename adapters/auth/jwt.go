// Package auth provides stateless admin authentication using JWT.
// No server-side session storage; tokens carry everything.
package auth

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims for admin authentication.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService provides stateless JWT token operations.
// Thread-safe and suitable for concurrent use.
type TokenService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
}

// NewTokenService creates a new JWT token service.
// If secret is empty, a random 32-byte secret is generated; tokens
// then survive only for the lifetime of this process.
func NewTokenService(secret string, expiration time.Duration) *TokenService {
	var secretBytes []byte
	if secret == "" {
		secretBytes = make([]byte, 32)
		rand.Read(secretBytes)
	} else {
		secretBytes = []byte(secret)
	}

	if expiration == 0 {
		expiration = 24 * time.Hour
	}

	return &TokenService{
		secret:     secretBytes,
		issuer:     "storefront",
		expiration: expiration,
	}
}

// GenerateToken creates a new admin token.
func (s *TokenService) GenerateToken(email string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.expiration)

	claims := Claims{
		Email: email,
		Role:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
