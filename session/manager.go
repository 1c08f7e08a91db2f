package session

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// ErrRevoked is returned when the auth record behind a session is gone.
var ErrRevoked = errors.New("auth record no longer exists")

// minIdle is the shortest time an unused session is kept.
const minIdle = time.Hour

// Manager hands out one Session per auth record. Sessions unused for the
// idle window (the TTL, at least minIdle) are evicted, so the map only holds
// recently active records.
type Manager struct {
	app    core.App
	ttl    time.Duration
	idle   time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	sessions  map[string]*entry
	lastSweep time.Time
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

func NewManager(app core.App, ttl time.Duration, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	idle := max(ttl, minIdle)
	return &Manager{app: app, ttl: ttl, idle: idle, logger: logger, now: time.Now, sessions: map[string]*entry{}}
}

// For returns the session for auth, creating it on first use. At most once
// per idle window it also evicts sessions nobody asked for within it.
func (m *Manager) For(auth *core.Record) *Session {
	key := auth.Collection().Id + "/" + auth.Id
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastSweep.IsZero() {
		m.lastSweep = now
	} else if now.Sub(m.lastSweep) >= m.idle {
		m.pruneLocked(now)
	}
	if e, ok := m.sessions[key]; ok {
		e.lastSeen = now
		return e.session
	}
	collectionID, recordID := auth.Collection().Id, auth.Id
	s := newWithClock(identityOf(auth), m.ttl, func(ctx context.Context) (Identity, error) {
		if err := ctx.Err(); err != nil {
			return Identity{}, err
		}
		rec, err := m.app.FindRecordById(collectionID, recordID)
		if errors.Is(err, sql.ErrNoRows) {
			return Identity{}, ErrRevoked
		}
		if err != nil {
			return Identity{}, err
		}
		m.logger.Debug("session: refreshed", "owner", rec.Id, "superuser", rec.IsSuperuser())
		return identityOf(rec), nil
	}, m.now)
	m.sessions[key] = &entry{session: s, lastSeen: now}
	return s
}

// Prune evicts sessions unused for the idle window and returns how many
// were removed.
func (m *Manager) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pruneLocked(m.now())
}

func (m *Manager) pruneLocked(now time.Time) int {
	removed := 0
	for key, e := range m.sessions {
		if now.Sub(e.lastSeen) >= m.idle {
			delete(m.sessions, key)
			removed++
		}
	}
	m.lastSweep = now
	if removed > 0 {
		m.logger.Debug("session: pruned", "removed", removed, "remaining", len(m.sessions))
	}
	return removed
}

// Len is the number of tracked sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close forgets every session.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.sessions)
}

func identityOf(r *core.Record) Identity {
	return Identity{OwnerID: r.Id, Superuser: r.IsSuperuser()}
}
