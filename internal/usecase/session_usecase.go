// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"dinein/internal/domain/entity"
)

// SessionListener observes session phase transitions. It runs synchronously
// after the transition is visible through State.
type SessionListener func(ctx context.Context, prev, next entity.SessionState)

// SessionUsecase owns the authentication lifecycle and the active table session.
type SessionUsecase interface {
	// State returns an immutable snapshot.
	State() entity.SessionState

	// Subscribe registers a listener for phase transitions.
	Subscribe(listener SessionListener)

	// Restore loads a persisted credential and re-establishes the session.
	Restore(ctx context.Context) error

	RequestCode(ctx context.Context, phoneNumber string) (*entity.OTPRequest, error)
	ResendCode(ctx context.Context) (*entity.OTPRequest, error)
	VerifyCode(ctx context.Context, code string) (entity.SessionState, error)

	FetchProfile(ctx context.Context) (entity.SessionState, error)
	UpdateProfile(ctx context.Context, name string) error

	// BindTable clears the pending table marker whether or not the bind succeeds.
	BindTable(ctx context.Context, identifier string) (*entity.TableSession, error)

	// Checkout is a no-op when no table session is active.
	Checkout(ctx context.Context) error

	// Logout clears every piece of session state. It cannot fail.
	Logout(ctx context.Context)

	// Countdown is the number of ticks left before a code may be resent.
	Countdown() int
	Tick() int

	// DevOTPHint returns the diagnostic code stored by RequestCode, if any.
	DevOTPHint(ctx context.Context) string

	// TakeExpiryNotice returns the pending expiry notice once.
	TakeExpiryNotice() string
}
