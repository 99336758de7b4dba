package session

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

// ErrNoExpiry is returned when the token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiry")

func unverifiedClaims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// TokenExpiry reads the exp claim without verifying the signature. The client
// never holds the signing key; the result is only used for diagnostics.
func TokenExpiry(token string) (time.Time, error) {
	claims, err := unverifiedClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, ErrNoExpiry
	}
	return time.Unix(int64(exp), 0).UTC(), nil
}

// TokenSubject returns the sub claim, or "" when absent or unreadable.
func TokenSubject(token string) string {
	claims, err := unverifiedClaims(token)
	if err != nil {
		return ""
	}
	switch v := claims["sub"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return ""
}
