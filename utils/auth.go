package utils

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtKey is the HMAC signing key, loaded from JWT_SECRET at startup.
var JwtKey []byte

// Claims represents the session token payload.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwt.StandardClaims
}

// GenerateJWT mints a session token for a user, valid for one hour.
func GenerateJWT(id, email string) (string, error) {
	expirationTime := time.Now().Add(1 * time.Hour)
	claims := &Claims{
		ID:    id,
		Email: email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}
