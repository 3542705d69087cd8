package repository

import (
	"context"

	"dinein/internal/errors"
)

// ErrStateNotFound is returned by Get when the key was never stored or was deleted.
var ErrStateNotFound = errors.New("state not found")

// StateStore persists small client values that survive a restart
// (credential, pending table identifier, development OTP hint).
type StateStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error

	// Delete removes keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
