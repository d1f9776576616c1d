package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/habib-676/talk-sync-server/internal/app"
	"github.com/habib-676/talk-sync-server/internal/domain"
)

// NotifyRequest is what the CRUD tier posts after its own durable
// write: deliver this payload to this user if they are online right
// now. The payload is opaque here.
type NotifyRequest struct {
	UserID  string          `json:"userId" binding:"required"`
	Event   string          `json:"event" binding:"required"`
	Payload json.RawMessage `json:"payload"`
}

type NotifyResponse struct {
	Delivered bool `json:"delivered"`
}

// InternalTokenMiddleware guards collaborator-only endpoints with the
// shared secret. These are called service-to-service, never by the
// browser.
func InternalTokenMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" || c.GetHeader("X-Internal-Token") != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func handleNotify(bridge *app.Bridge) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NotifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing userId or event"})
			return
		}

		uid, err := domain.ParseUserID(req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		delivered := bridge.DeliverIfOnline(uid, req.Event, req.Payload)
		log.Debug().Str("module", "adapters.http").Str("uid", req.UserID).Str("event", req.Event).Bool("delivered", delivered).Msg("notify")
		c.JSON(http.StatusOK, NotifyResponse{Delivered: delivered})
	}
}
