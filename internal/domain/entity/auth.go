package entity

import "time"

// Phase is the coarse session state.
type Phase int

const (
	PhaseAnonymous Phase = iota
	PhaseAuthenticating
	PhaseAuthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// SessionState is an immutable snapshot of the session store.
type SessionState struct {
	Phase       Phase         `json:"phase"`
	PhoneNumber string        `json:"phoneNumber,omitempty"`
	Customer    *Customer     `json:"customer,omitempty"`
	Table       *TableSession `json:"table,omitempty"`

	// Generation changes whenever the credential is set or cleared.
	Generation uint64 `json:"-"`
}

// Established reports whether authenticated calls may be issued.
func (s SessionState) Established() bool {
	return s.Phase == PhaseAuthenticated
}

// HasTable reports whether a table session is active.
func (s SessionState) HasTable() bool {
	return s.Phase == PhaseAuthenticated && s.Table != nil
}

// OTPRequest is the backend answer to a code request.
type OTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`

	// DevOTP is only returned by non-production backends.
	DevOTP string `json:"devOtp,omitempty"`
}

// Credential is the bearer token with the generation it was issued under.
type Credential struct {
	Token      string
	Generation uint64
}

// Present reports whether a token is held.
func (c Credential) Present() bool {
	return c.Token != ""
}

// CredentialClaims is what the client can learn from the token without verifying it.
type CredentialClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now. Tokens without exp never expire locally.
func (c CredentialClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}
