// Package session tracks who a request acts for and keeps that identity
// fresh against the auth store.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Identity is the owner a session acts for.
type Identity struct {
	OwnerID   string
	Superuser bool
}

// RefreshFunc reloads the identity from its source of truth.
type RefreshFunc func(ctx context.Context) (Identity, error)

// Session is safe for concurrent use. It never touches quote state.
type Session struct {
	mu          sync.Mutex
	identity    Identity
	refreshedAt time.Time
	ttl         time.Duration
	refresh     RefreshFunc
	now         func() time.Time
}

// New returns a session considered fresh as of now.
func New(id Identity, ttl time.Duration, refresh RefreshFunc) *Session {
	return newWithClock(id, ttl, refresh, time.Now)
}

func newWithClock(id Identity, ttl time.Duration, refresh RefreshFunc, now func() time.Time) *Session {
	return &Session{identity: id, refreshedAt: now(), ttl: ttl, refresh: refresh, now: now}
}

func (s *Session) OwnerID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.OwnerID
}

func (s *Session) IsSuperuser() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.Superuser
}

// Stale reports whether the identity is older than the session TTL.
func (s *Session) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.staleLocked()
}

func (s *Session) staleLocked() bool {
	return s.ttl > 0 && s.now().Sub(s.refreshedAt) >= s.ttl
}

// EnsureFresh reloads the identity when it is older than the TTL.
// Concurrent callers wait for a single refresh. On failure the previous
// identity is kept and the error returned.
func (s *Session) EnsureFresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.staleLocked() || s.refresh == nil {
		return nil
	}
	id, err := s.refresh(ctx)
	if err != nil {
		return fmt.Errorf("session: refresh %s: %w", s.identity.OwnerID, err)
	}
	s.identity = id
	s.refreshedAt = s.now()
	return nil
}
