// Package auth provides HS256 JWT generation and validation for service tokens.
// This is a leaf package with no domain dependencies. Used by internal/api/middleware
// and by operators minting tokens out of band.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenExpiry is the token lifetime used when expiry is not specified.
const DefaultTokenExpiry = 24 * time.Hour

// Claims are the JWT claims carried by agentgate service tokens.
// Subject identifies the calling client (human or machine).
type Claims struct {
	Subject string `json:"sub_name"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed HS256 token for subject, valid for expiry
// (DefaultTokenExpiry when expiry <= 0).
func GenerateToken(secret []byte, subject string, expiry time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("auth: signing secret is empty")
	}
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}

	now := time.Now()
	claims := &Claims{
		Subject: subject,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates tokenString against secret and returns its claims.
// Returns an error for expired, malformed, or wrongly signed tokens.
func ParseToken(secret []byte, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("auth: token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Reject algorithm substitution: only HMAC is acceptable.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims or signature")
	}
	return claims, nil
}
