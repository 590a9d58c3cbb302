package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/naveenspark/rxadmin/pkg/domain"
)

// The console never holds the signing key, so claims are read without
// verification. They only decide what to show; the backend still checks the
// signature on every request.
func parseClaims(token string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// RoleFromToken returns the role claim of a JWT, or "" if the token is opaque
// or the claim is not a known role.
func RoleFromToken(token string) domain.Role {
	claims, ok := parseClaims(token)
	if !ok {
		return ""
	}
	v, _ := claims["role"].(string)
	if r := domain.Role(v); r.Valid() {
		return r
	}
	return ""
}

// ExpiryFromToken returns the exp claim of a JWT.
func ExpiryFromToken(token string) (time.Time, bool) {
	claims, ok := parseClaims(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
