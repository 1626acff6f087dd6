package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// AdminClaims are the claims carried by a maintenance-endpoint bearer token.
type AdminClaims struct {
	Role                 string `json:"role"` // Always "admin"
	jwt.RegisteredClaims        // Standard JWT claims
}

// GenerateAdminToken mints a bearer token for the /admin maintenance
// endpoints, signed with the application secret and valid for 24 hours.
func GenerateAdminToken(secret string) (string, error) {
	claims := AdminClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // Token expires in 24 hours
			IssuedAt:  jwt.NewNumericDate(time.Now()),                     // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseAdminToken parses and validates an admin bearer token.
func ParseAdminToken(tokenStr, secret string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &AdminClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid || claims.Role != "admin" {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}
