package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/habib-676/talk-sync-server/internal/core"
	"github.com/habib-676/talk-sync-server/internal/domain"
)

// PresenceEntry is one live user -> connection association.
type PresenceEntry struct {
	ID   domain.UserID
	Conn core.SignalConnection
}

// Announcer receives the full post-mutation presence snapshot.
type Announcer interface {
	Announce(entries []PresenceEntry)
}

// Registry is the single source of truth for which users hold a live
// connection on this process. At most one connection per user id: a
// later Register for the same id replaces the earlier handle.
//
// The registry is per-process. Scaling beyond one instance needs a
// shared presence layer in front of it.
type Registry struct {
	mu        sync.RWMutex
	conns     map[domain.UserID]core.SignalConnection
	announcer Announcer
}

func NewRegistry(announcer Announcer) *Registry {
	return &Registry{
		conns:     make(map[domain.UserID]core.SignalConnection),
		announcer: announcer,
	}
}

// Register associates uid with conn, replacing any prior handle for
// that id, and announces the new presence state.
func (r *Registry) Register(uid domain.UserID, conn core.SignalConnection) {
	r.mu.Lock()
	_, replaced := r.conns[uid]
	r.conns[uid] = conn
	snap := r.snapshotLocked()
	r.mu.Unlock()

	log.Info().Str("module", "app.registry").Str("uid", string(uid)).Bool("replaced", replaced).Msg("registered connection")
	r.announce(snap)
}

// Unregister removes the association only when conn is the handle
// currently stored for uid. A teardown event from a connection that has
// already been superseded by a reconnect must not evict the newer one,
// so a mismatch is a silent no-op.
func (r *Registry) Unregister(uid domain.UserID, conn core.SignalConnection) {
	r.mu.Lock()
	cur, ok := r.conns[uid]
	stale := ok && cur != conn
	if ok && !stale {
		delete(r.conns, uid)
	}
	snap := r.snapshotLocked()
	r.mu.Unlock()

	if stale {
		log.Debug().Str("module", "app.registry").Str("uid", string(uid)).Msg("ignored stale disconnect")
	} else {
		log.Info().Str("module", "app.registry").Str("uid", string(uid)).Msg("unregistered connection")
	}
	r.announce(snap)
}

// Lookup returns the live connection for uid, if any.
func (r *Registry) Lookup(uid domain.UserID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[uid]
	return conn, ok
}

// OnlineIDs returns a sorted snapshot of the currently online user ids.
func (r *Registry) OnlineIDs() []domain.UserID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.UserID, 0, len(r.conns))
	for uid := range r.conns {
		out = append(out, uid)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Snapshot returns the current entries for broadcast fan-out.
func (r *Registry) Snapshot() []PresenceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Count reports how many users are online, for health reporting.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

func (r *Registry) snapshotLocked() []PresenceEntry {
	out := make([]PresenceEntry, 0, len(r.conns))
	for uid, conn := range r.conns {
		out = append(out, PresenceEntry{ID: uid, Conn: conn})
	}
	return out
}

// announce runs outside the lock so a slow send path can never block
// registry mutations.
func (r *Registry) announce(snap []PresenceEntry) {
	if r.announcer != nil {
		r.announcer.Announce(snap)
	}
}
