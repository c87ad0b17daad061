package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims of an API access token that the front end cares about.
// The API owns verification; tokens are only decoded here.
type AccessClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

var tokenParser = jwt.NewParser()

// DecodeAccessToken reads the claims of a token without verifying its signature.
func DecodeAccessToken(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if _, _, err := tokenParser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpiry returns the exp claim of token. ok is false for opaque tokens
// and tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims, err := DecodeAccessToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ErrTokenExpired reports an access token past its exp claim.
var ErrTokenExpired = errors.New("access token expired")
