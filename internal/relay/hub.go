package relay

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/Rupmejs/CareRemote-sub000/internal/models"
)

// Hub relays persisted chat messages to websocket clients subscribed to
// their room. Rooms are independent; a client subscribes to exactly one.
// Delivery is best effort: the source of truth is the message log, and a
// client that misses a frame catches up by reloading history.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	publish    chan roomMessage
	mutex      sync.RWMutex
}

type roomMessage struct {
	roomID  string
	payload []byte
}

// NewHub creates a new relay hub. Run must be started for it to operate.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		publish:    make(chan roomMessage, 1024),
	}
}

// Run processes subscription and fan-out events until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			clients, ok := h.rooms[client.roomID]
			if !ok {
				clients = make(map[*Client]bool)
				h.rooms[client.roomID] = clients
			}
			clients[client] = true
			total := len(clients)
			h.mutex.Unlock()
			log.Printf("Chat relay: client joined room %s (%d connected)", client.roomID, total)

		case client := <-h.unregister:
			h.mutex.Lock()
			if clients, ok := h.rooms[client.roomID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
				}
				if len(clients) == 0 {
					delete(h.rooms, client.roomID)
				}
			}
			h.mutex.Unlock()
			log.Printf("Chat relay: client left room %s", client.roomID)

		case msg := <-h.publish:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.rooms[msg.roomID]))
			for c := range h.rooms[msg.roomID] {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- msg.payload:
				default:
					// Slow consumer; drop it rather than stall the room
					h.unregister <- client
				}
			}
		}
	}
}

// Publish fans a persisted message out to the room's connected clients.
// Satisfies the chat service's notifier contract.
func (h *Hub) Publish(roomID string, message models.Message) {
	if h == nil {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		log.Printf("Chat relay: failed to encode message for room %s: %v", roomID, err)
		return
	}

	select {
	case h.publish <- roomMessage{roomID: roomID, payload: payload}:
	default:
		log.Printf("Chat relay: dropped message for room %s (buffer full)", roomID)
	}
}

// RoomClientCount reports how many clients are subscribed to a room
func (h *Hub) RoomClientCount(roomID string) int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[roomID])
}
