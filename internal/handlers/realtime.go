package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yukikurage/taskboard/internal/constants"
	"github.com/yukikurage/taskboard/internal/realtime"
)

type RealtimeHandler struct {
	hub      *realtime.Hub
	upgrader *websocket.Upgrader
}

// NewRealtimeHandler serves the feed to browsers from allowedOrigins
func NewRealtimeHandler(hub *realtime.Hub, allowedOrigins []string) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, upgrader: realtime.NewUpgrader(allowedOrigins)}
}

// ServeWS upgrades to a websocket that streams change events.
// ?board= limits the feed to one board; the tab id comes from ClientTab.
func (h *RealtimeHandler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	realtime.NewClient(h.hub, conn, c.GetString(constants.ContextKeyClientTabID), c.Query("board")).Serve()
}
