// Package auth implements the credential verifier: issuing and checking
// signed, time-bounded JWTs, plus the password hashing primitive.
package auth

import (
	"errors"
	"time"

	"github.com/avoronin/placekeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the caller's identity and email claim inside the token.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
	Email  string
}

// GenerateToken issues an HS256 token encoding {userID, email}, valid for
// validityDuration from now.
func GenerateToken(userID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Email:  email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetUserIDFromToken validates the token signature and expiry and returns the
// identity claim. Malformed, mis-signed and expired tokens all fail.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
