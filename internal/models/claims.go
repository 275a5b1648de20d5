package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserClaimKey is the context key under which the Authenticate middleware
// stores the parsed claims.
type UserClaimKey struct{}

type UserClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
	Aud    string    `json:"aud_type"`
	Issuer string    `json:"iss_name"`
	jwt.RegisteredClaims
}
