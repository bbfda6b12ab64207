package utils

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type ContextKey string

const (
	ClaimsKey ContextKey = "claims"
	RoleKey   ContextKey = "role"
)

var (
	ErrNoClaimsInContext = errors.New("no claims found in context")
	ErrNoSubjectInClaims = errors.New("no subject found in claims")
	ErrInvalidClaimType  = errors.New("claim must be a string")
)

func claimsFromContext(c context.Context) (jwt.MapClaims, error) {
	claims, ok := c.Value(ClaimsKey).(jwt.MapClaims)
	if !ok {
		return nil, ErrNoClaimsInContext
	}
	return claims, nil
}

func stringClaim(c context.Context, key string, missing error) (string, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return "", err
	}

	value, exists := claims[key]
	if !exists {
		return "", missing
	}

	str, ok := value.(string)
	if !ok {
		return "", ErrInvalidClaimType
	}

	return str, nil
}

// GetUserIDFromContext returns the "sub" claim.
func GetUserIDFromContext(c context.Context) (string, error) {
	return stringClaim(c, "sub", ErrNoSubjectInClaims)
}
