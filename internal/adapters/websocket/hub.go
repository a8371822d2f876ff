package websocket

import (
	"sync"
)

// Hub tracks which clients joined which chat rooms. Rooms are keyed by chat
// id; membership only exists for the lifetime of a connection.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]bool)}
}

func (h *Hub) Join(c *Client, chatIDs ...uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range chatIDs {
		room, ok := h.rooms[id]
		if !ok {
			room = make(map[*Client]bool)
			h.rooms[id] = room
		}
		room[c] = true
	}
}

// Leave removes the client from every room it joined.
func (h *Hub) Leave(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, id)
		}
	}
}

// Broadcast queues frame for every member of the room except the sender.
// Clients with a full send queue are skipped rather than blocked on.
func (h *Hub) Broadcast(chatID uint, sender *Client, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[chatID] {
		if c == sender {
			continue
		}
		select {
		case c.send <- frame:
		default:
		}
	}
}
