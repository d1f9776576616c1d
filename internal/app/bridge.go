package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/habib-676/talk-sync-server/internal/core"
	"github.com/habib-676/talk-sync-server/internal/domain"
)

// Bridge is how the rest of the platform (REST handlers for chat
// messages, session scheduling, announcements) gets best-effort
// realtime delivery on top of its own durable writes. The payload is
// opaque here; the caller has already stored it, so an offline
// recipient only misses the live notification, never the data.
type Bridge struct {
	reg *Registry
}

func NewBridge(reg *Registry) *Bridge {
	return &Bridge{reg: reg}
}

// DeliverIfOnline forwards payload verbatim under event to uid's
// connection when one exists. The return value reports whether a
// delivery was attempted; an offline user is not an error.
func (b *Bridge) DeliverIfOnline(uid domain.UserID, event string, payload json.RawMessage) bool {
	conn, ok := b.reg.Lookup(uid)
	if !ok {
		return false
	}
	frame, err := core.Encode(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "app.bridge").Str("event", event).Msg("encode")
		return false
	}
	if err := conn.TrySend(frame); err != nil {
		log.Debug().Err(err).Str("module", "app.bridge").Str("event", event).Str("uid", string(uid)).Msg("send failed")
		return false
	}
	return true
}
