package service

import (
	"context"

	"dinein/internal/domain/entity"
)

// CredentialSource is the read side of the bearer credential, used by the request layer.
type CredentialSource interface {
	// Current returns the token and the generation it belongs to.
	Current() entity.Credential

	// ReportUnauthorized signals that a request made under generation got a 401.
	ReportUnauthorized(ctx context.Context, generation uint64)
}

// ExpiryHandler receives 401 reports routed through the credential store.
type ExpiryHandler func(ctx context.Context, generation uint64)

// CredentialStore is the write side, owned exclusively by the session store.
type CredentialStore interface {
	CredentialSource

	// Set replaces the token and returns the new generation.
	Set(token string) uint64

	// Clear drops the token and returns the new generation.
	Clear() uint64

	// HandleExpiry installs the single 401 handler.
	HandleExpiry(handler ExpiryHandler)
}

// TokenInspector reads claims from a bearer token without verifying its signature.
type TokenInspector interface {
	Inspect(token string) (entity.CredentialClaims, error)
}
