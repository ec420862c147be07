package client

import (
	"context"
	"sync"
)

// SessionSource supplies the current access token. It is queried before
// every call; the client never caches tokens itself, so rotation in the
// source takes effect immediately.
type SessionSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// StaticToken is a SessionSource for a fixed token.
type StaticToken string

// AccessToken returns the fixed token.
func (t StaticToken) AccessToken(context.Context) (string, error) {
	return string(t), nil
}

// SessionState is the resolution state of a session guard.
type SessionState int

const (
	// StateLoading means the session has not been resolved yet. No call
	// proceeds in this state.
	StateLoading SessionState = iota
	// StateAuthenticated means a token is available.
	StateAuthenticated
	// StateUnauthenticated means resolution finished without a token.
	StateUnauthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// SessionGuard wraps a SessionSource and resolves it at most once. It
// starts in StateLoading; the first Token call resolves the source and
// settles the state, and every later call reuses that decision until
// Reset. An unauthenticated resolution reports ErrNoSession from the
// resolving call onwards; the state never flips back without Reset.
type SessionGuard struct {
	source SessionSource

	mu    sync.Mutex
	state SessionState
}

// NewSessionGuard creates a guard in StateLoading over the given source.
func NewSessionGuard(source SessionSource) *SessionGuard {
	return &SessionGuard{source: source, state: StateLoading}
}

// State returns the current resolution state.
func (g *SessionGuard) State() SessionState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Token resolves the session if still loading and returns the current
// access token. Returns ErrNoSession once the session has settled as
// unauthenticated.
func (g *SessionGuard) Token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateUnauthenticated {
		return "", ErrNoSession
	}

	token, err := g.source.AccessToken(ctx)
	if err != nil || token == "" {
		g.state = StateUnauthenticated
		if err != nil {
			return "", err
		}
		return "", ErrNoSession
	}

	g.state = StateAuthenticated
	return token, nil
}

// Reset puts the guard back into StateLoading, e.g. after a fresh login
// lands a new token in the source.
func (g *SessionGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateLoading
}
