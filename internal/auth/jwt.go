// Package auth provides JWT token issuance/verification, bcrypt password
// hashing, and the authentication middleware.
//
// AUTHENTICATION FLOW:
//  1. POST /api/users or /api/auth verifies credentials and issues a JWT
//  2. The client sends that token back in the x-auth-token header
//  3. RequireAuth validates it and puts the user ID in the request context
//  4. Handlers read the ID with UserIDFromContext
//
// JWT is stateless — everything the server needs (user ID, expiry) is inside
// the signed token, so verification is a signature check, never a DB lookup.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the fixed lifetime of an access token. After an hour the
// client must log in again.
const tokenTTL = time.Hour

const issuer = "devconnector"

// TokenService signs and verifies JWT access tokens with a shared HMAC
// secret. The same secret must be used for both; rotate it and every
// outstanding token dies, which is the intended blast radius.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims; the user ID lives in the standard
// "sub" (Subject) claim and nothing else is carried.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a one-hour access token for the given userID.
//
// HS256 (HMAC-SHA256) is symmetric — same key signs and verifies. Fine for
// a single-server deployment; asymmetric RS256 only matters once other
// services need to verify tokens without holding the signing key.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, tokenTTL)
}

// GenerateWithDuration creates a token with a custom expiry. Exported for
// tests, which need already-expired tokens.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT string and returns the userID from the
// "sub" claim.
//
// The jwt library checks signature, expiry and issuer. WithValidMethods
// pins the algorithm to HS256 — without it, an attacker could present a
// token claiming a different algorithm ("algorithm confusion").
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
