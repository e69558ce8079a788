package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	Email string
	JTI   string
}

// AccessTokenClaims represents the typed JWT issued to the admin surface.
type AccessTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}
