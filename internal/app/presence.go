package app

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/habib-676/talk-sync-server/internal/core"
)

// Broadcaster pushes the online-user set to every connected party after
// each registry mutation. The audience is the attached connection set,
// not the registry: a connection that never supplied a uid is still a
// party and observes presence. Delivery is fire-and-forget: a
// connection that died in the meantime just misses one announcement and
// the next mutation converges it.
type Broadcaster struct {
	mu      sync.RWMutex
	parties map[core.SignalConnection]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{parties: make(map[core.SignalConnection]struct{})}
}

// Attach adds a live connection to the announcement audience. The
// transport adapter owns the lifecycle and must Detach on teardown.
func (b *Broadcaster) Attach(conn core.SignalConnection) {
	b.mu.Lock()
	b.parties[conn] = struct{}{}
	b.mu.Unlock()
}

func (b *Broadcaster) Detach(conn core.SignalConnection) {
	b.mu.Lock()
	delete(b.parties, conn)
	b.mu.Unlock()
}

func (b *Broadcaster) Announce(entries []PresenceEntry) {
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, string(e.ID))
	}
	sort.Strings(ids)

	frame, err := core.Encode(core.EventGetOnlineUsers, ids)
	if err != nil {
		log.Error().Err(err).Str("module", "app.presence").Msg("encode online set")
		return
	}

	b.mu.RLock()
	conns := make([]core.SignalConnection, 0, len(b.parties))
	for c := range b.parties {
		conns = append(conns, c)
	}
	b.mu.RUnlock()

	dropped := 0
	for _, c := range conns {
		if err := c.TrySend(frame); err != nil {
			dropped++
		}
	}
	if dropped > 0 {
		log.Debug().Str("module", "app.presence").Int("online", len(ids)).Int("dropped", dropped).Msg("presence announce")
	}
}
