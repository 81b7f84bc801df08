package live

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"
)

// Message — конверт для всех событий, уходящих подписчикам комнаты сезона.
type Message struct {
	Type    string      `json:"type"` // Например, "MATCH_STATUS_UPDATED", "DISCIPLINARY_RECALCULATED"
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

type Hub struct {
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan roomMessage

	rooms map[string]map[*Client]bool
	mu    sync.RWMutex
}

type roomMessage struct {
	room string
	data []byte
}

func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan roomMessage, 64),
		rooms:      make(map[string]map[*Client]bool),
	}
}

func SeasonRoom(seasonID int) string {
	return "season:" + strconv.Itoa(seasonID)
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			log.Printf("Client registered to room %s. Total clients in room: %d", client.Room, len(h.rooms[client.Room]))
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.Room]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.Room)
						log.Printf("Room %s closed as it's empty.", client.Room)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.rooms[msg.room] {
				client.trySend(msg.data)
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastToSeason реализует services.LiveBroadcaster. Ошибки сериализации
// только логируются: live-рассылка не должна влиять на основную операцию.
func (h *Hub) BroadcastToSeason(seasonID int, messageType string, payload interface{}) {
	room := SeasonRoom(seasonID)
	data, err := json.Marshal(Message{
		Type:    messageType,
		Payload: payload,
		RoomID:  room,
	})
	if err != nil {
		log.Printf("Failed to marshal live message %s for room %s: %v", messageType, room, err)
		return
	}

	select {
	case h.broadcast <- roomMessage{room: room, data: data}:
	default:
		log.Printf("Live broadcast channel full, dropping %s for room %s", messageType, room)
	}
}
