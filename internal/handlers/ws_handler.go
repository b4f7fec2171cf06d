package handlers

import (
	"encoding/json"
	"net"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"

	"divitrack/internal/hub"
	"divitrack/internal/logger"
	"divitrack/internal/services"
)

// WSHandler upgrades authenticated connections and streams live collection
// snapshots from the hub.
type WSHandler struct {
	hub          *hub.Hub
	statsService services.StatsServicer
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(h *hub.Hub, statsService services.StatsServicer) *WSHandler {
	return &WSHandler{hub: h, statsService: statsService}
}

// Subscribe upgrades the request to a websocket and streams updates.
// @Summary     Subscribe to live updates
// @Description Upgrade to a websocket and receive a full snapshot of each
// @Description subscribed collection, then a fresh snapshot (with recomputed
// @Description statistics) after every mutation. Snapshots replace prior
// @Description state wholesale. Pass ?collections=members,symbols to restrict;
// @Description omitting it subscribes to all four collections.
// @Tags        ws
// @Security    BearerAuth
// @Param       token       query string false "JWT, for clients that cannot set headers"
// @Param       collections query string false "Comma-separated collection names"
// @Success     101 "Switching protocols"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /ws [get]
func (h *WSHandler) Subscribe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	collections := parseCollections(c.Query("collections"))

	conn, _, _, err := ws.UpgradeHTTP(c.Request, c.Writer)
	if err != nil {
		logger.Get().Warnw("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	updates, cancel := h.hub.Subscribe(userID, collections)

	go h.writeLoop(conn, userID, collections, updates)
	h.readLoop(conn, cancel)
}

// writeLoop sends the initial snapshots followed by hub updates. It owns
// the write side of the connection and exits when the update channel is
// closed by cancel.
func (h *WSHandler) writeLoop(conn net.Conn, userID string, collections []string, updates <-chan hub.Update) {
	for _, collection := range collections {
		records, err := h.statsService.CollectionSnapshot(userID, collection)
		if err != nil {
			logger.Get().Errorw("failed to load initial snapshot",
				"user_id", userID, "collection", collection, "error", err)
			continue
		}
		stats, err := h.statsService.GetStats(userID, "")
		if err != nil {
			logger.Get().Errorw("failed to compute initial stats",
				"user_id", userID, "collection", collection, "error", err)
			continue
		}
		if !h.send(conn, hub.Update{Collection: collection, Records: records, Stats: stats}) {
			return
		}
	}

	for update := range updates {
		if !h.send(conn, update) {
			return
		}
	}
	conn.Write(ws.CompiledClose)
}

func (h *WSHandler) send(conn net.Conn, update hub.Update) bool {
	payload, err := json.Marshal(update)
	if err != nil {
		logger.Get().Errorw("failed to marshal update",
			"collection", update.Collection, "error", err)
		return true
	}
	return wsutil.WriteServerText(conn, payload) == nil
}

// readLoop drains client frames until the peer disconnects, then tears the
// subscription down. Clients send nothing meaningful; subscriptions change
// by reconnecting with a different collections parameter.
func (h *WSHandler) readLoop(conn net.Conn, cancel func()) {
	defer func() {
		cancel()
		conn.Close()
	}()

	for {
		if _, _, err := wsutil.ReadClientData(conn); err != nil {
			return
		}
	}
}

// parseCollections normalizes the comma-separated collections query
// parameter. Unknown names are dropped; an empty result means all.
func parseCollections(raw string) []string {
	valid := make(map[string]bool, len(hub.Collections))
	for _, c := range hub.Collections {
		valid[c] = true
	}

	var collections []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if valid[name] {
			collections = append(collections, name)
		}
	}
	if len(collections) == 0 {
		collections = append(collections, hub.Collections...)
	}
	return collections
}
