// Package auth implements session tokens and password hashing for the
// snapshare server. Tokens are HS256-signed, time-bounded claims; possession
// of a valid token is the only accepted proof of identity on mutating
// requests.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/snapshare/backend/internal/common"
)

// Claims extends the registered JWT claims with the user's id and email.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// GenerateToken mints a signed token asserting the given identity for
// validityDuration from now.
func GenerateToken(userID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
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

// ParseToken verifies tokenString and returns the asserted identity.
// Malformed, expired, and badly signed tokens all collapse into
// common.ErrInvalidToken so the caller cannot distinguish which check
// failed.
func ParseToken(tokenString string, secretKey []byte) (userID, email string, err error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return "", "", common.ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", "", common.ErrInvalidToken
	}

	return claims.UserID, claims.Email, nil
}
