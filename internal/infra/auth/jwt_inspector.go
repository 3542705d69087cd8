package auth

import (
	"dinein/internal/domain/entity"
	"dinein/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// jwtInspector reads claims from backend-issued JWTs. The client never holds
// the signing secret, so the signature is not checked; the backend remains the
// authority and expiry is only used to avoid sending a token known to be stale.
type jwtInspector struct {
	parser *jwt.Parser
}

// NewJWTInspector is the constructor for jwtInspector.
func NewJWTInspector() service.TokenInspector {
	return &jwtInspector{parser: jwt.NewParser()}
}

// Inspect returns subject and expiry. Opaque (non-JWT) tokens yield empty claims.
func (i *jwtInspector) Inspect(token string) (entity.CredentialClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := i.parser.ParseUnverified(token, claims); err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return entity.CredentialClaims{}, nil
		}

		return entity.CredentialClaims{}, errors.Wrap(err, "failed to parse credential")
	}

	var out entity.CredentialClaims
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	return out, nil
}
