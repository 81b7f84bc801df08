package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/league-system/live"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *live.Hub
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *live.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS для WebSocket решается на уровне прокси.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeSeasonRoom подключает клиента к live-комнате сезона. Клиент получает
// события MATCH_STATUS_UPDATED и DISCIPLINARY_RECALCULATED этого сезона.
func (h *WebSocketHandler) ServeSeasonRoom(w http.ResponseWriter, r *http.Request) {
	seasonID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.Any("error", err), slog.Int("season_id", seasonID))
		return
	}

	client := live.NewClient(h.hub, conn, live.SeasonRoom(seasonID))
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
