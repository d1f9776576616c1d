package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/habib-676/talk-sync-server/internal/core"
	"github.com/habib-676/talk-sync-server/internal/domain"
)

const writeWait = 5 * time.Second

func (ctl *SocketController) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping error")
				return
			}
		}
	}
}

func (ctl *SocketController) readPump(ctx context.Context, cancel context.CancelFunc, uid domain.UserID, c *wsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("uid", string(uid)).Msg("readPump closing")
		cancel()
		c.Close()
		// Leave the audience before the unregister announcement so the
		// closing connection is not a send target.
		ctl.presence.Detach(c)
		if uid != "" {
			// Pass the exact handle so a teardown that raced with a
			// reconnect cannot evict the newer connection.
			ctl.registry.Unregister(uid, c)
		}
	}()

	// The pong deadline is the ping period plus slack, so one missed
	// pong does not kill the connection.
	pongWait := ctl.cfg.PingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("uid", string(uid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("uid", string(uid)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(uid, data)
		}
	}
}

// handleEvent dispatches one inbound frame. This layer trusts the call
// UI to send well-formed events; anything else is logged and dropped,
// there is no error channel back to the client.
func (ctl *SocketController) handleEvent(uid domain.UserID, data []byte) {
	var env core.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Event {
	case core.EventCallUser:
		ctl.handleCallUser(uid, env.Data)
	case core.EventAcceptCall:
		ctl.handleAcceptCall(uid, env.Data)
	case core.EventDeclineCall:
		ctl.handleDeclineCall(uid, env.Data)
	case core.EventIceCandidate:
		ctl.handleICECandidate(uid, env.Data)
	case core.EventEndCall:
		ctl.handleEndCall(uid, env.Data)
	default:
		log.Warn().Str("module", "signal").Str("event", env.Event).Msg("unknown event")
	}
}
