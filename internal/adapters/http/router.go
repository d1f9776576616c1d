package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/habib-676/talk-sync-server/internal/adapters/signal"
	"github.com/habib-676/talk-sync-server/internal/app"
	"github.com/habib-676/talk-sync-server/internal/config"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware gives every browser a stable correlation id so
// log lines from HTTP and socket traffic can be tied together.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// CORSMiddleware mirrors the frontend origin allowlist: a matching
// Origin gets credentialed CORS headers, anything else gets none. With
// an empty allowlist the deployment is same-origin and no headers are
// emitted.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST")
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Internal-Token")
			c.Header("Vary", "Origin")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, reg *app.Registry, router *app.CallRouter, bridge *app.Bridge, presence *app.Broadcaster) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware(cfg.AllowedOrigins))

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("TalkSyncSessions", store))
	r.Use(ClientTokenMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Welcome to TalkSync server"})
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "online": reg.Count()})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")

	ctrl := signal.NewSocketController(cfg, reg, router, presence)

	api := r.Group("/api")

	api.GET("/ws", func(c *gin.Context) {
		ctrl.HandleSocket(ctx, c)
	})

	api.GET("/online", func(c *gin.Context) {
		c.JSON(200, gin.H{"online": reg.OnlineIDs()})
	})

	api.POST("/notify", InternalTokenMiddleware(cfg.Secret), handleNotify(bridge))

	return r
}
