// Package auth provides the client-side credential plumbing.
package auth

import (
	"context"
	"sync"

	"dinein/internal/domain/entity"
	"dinein/internal/domain/service"
)

// credentialHolder is the single owner of the bearer token shared by the
// session store (writer) and the request layer (reader).
type credentialHolder struct {
	mu         sync.RWMutex
	token      string
	generation uint64
	onExpiry   service.ExpiryHandler
}

// NewCredentialHolder creates an empty holder.
func NewCredentialHolder() service.CredentialStore {
	return &credentialHolder{}
}

func (h *credentialHolder) Current() entity.Credential {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return entity.Credential{Token: h.token, Generation: h.generation}
}

func (h *credentialHolder) Set(token string) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.token = token
	h.generation++

	return h.generation
}

func (h *credentialHolder) Clear() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.token = ""
	h.generation++

	return h.generation
}

func (h *credentialHolder) HandleExpiry(handler service.ExpiryHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.onExpiry = handler
}

// ReportUnauthorized forwards to the installed handler outside the lock.
func (h *credentialHolder) ReportUnauthorized(ctx context.Context, generation uint64) {
	h.mu.RLock()
	handler := h.onExpiry
	h.mu.RUnlock()

	if handler != nil {
		handler(ctx, generation)
	}
}
