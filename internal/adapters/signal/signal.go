// Package signal is the websocket adapter: it owns connection
// lifecycle and translates wire events into app-layer calls.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/habib-676/talk-sync-server/internal/app"
	"github.com/habib-676/talk-sync-server/internal/config"
	"github.com/habib-676/talk-sync-server/internal/core"
	"github.com/habib-676/talk-sync-server/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type SocketController struct {
	cfg      *config.Config
	registry *app.Registry
	router   *app.CallRouter
	presence *app.Broadcaster
	limiter  *CallRateLimiter
	upgrader websocket.Upgrader
}

func NewSocketController(cfg *config.Config, reg *app.Registry, router *app.CallRouter, presence *app.Broadcaster) *SocketController {
	return &SocketController{
		cfg:      cfg,
		registry: reg,
		router:   router,
		presence: presence,
		limiter:  NewCallRateLimiter(cfg.CallRateLimit, cfg.CallRateInterval),
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(cfg.AllowedOrigins),
		},
	}
}

// originChecker allows everything when no allowlist is configured,
// matching local development in the frontend.
func originChecker(origins []string) func(*http.Request) bool {
	if len(origins) == 0 {
		return func(*http.Request) bool { return true }
	}
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSocket upgrades the request and starts the pump pair. The
// client identifies itself with the uid query parameter; a connection
// without one is served but never registered, it can only observe.
func (ctl *SocketController) HandleSocket(ctx context.Context, c *gin.Context) {
	sid := c.GetString("client_token")

	uid, err := domain.ParseUserID(c.Query("uid"))
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", sid).Msg("handshake without usable uid")
		uid = ""
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	log.Info().Str("module", "signal").Str("sid", sid).Str("uid", string(uid)).Msg("new WS connection")

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}

	ctx, cancel := context.WithCancel(ctx)

	// Every connection is an announcement party, registered or not.
	ctl.presence.Attach(conn)
	if uid != "" {
		ctl.registry.Register(uid, conn)
	} else {
		// No registry mutation happens for a uid-less connection, so
		// push the current online set to converge the new party.
		ctl.presence.Announce(ctl.registry.Snapshot())
	}

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, uid, conn)
}
