package auth

import (
	"fmt"
	"strings"

	"example/sweetshop-client/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeToken reads the identity out of a bearer token without verifying the
// signature. The client has no key material; verification is the backend's
// job. The admin flag is inferred from the username containing "admin" —
// a known smell carried over from the backend contract, not a security
// boundary.
func DecodeToken(token string) (*models.Session, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("decodeToken: %v", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("decodeToken: unexpected claims type")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("decodeToken: missing sub claim")
	}

	return &models.Session{
		Username: sub,
		IsAdmin:  strings.Contains(strings.ToLower(sub), "admin"),
	}, nil
}
