package sse

import (
	"fmt"
	"log"
	"sync"
)

// Event represents a Server-Sent Event
type Event struct {
	EventType string `json:"event"`
	Data      string `json:"data"`
}

// Client represents a connected SSE client
type Client struct {
	ID       string
	Username string
	Events   chan Event
}

// Hub manages all SSE client connections
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// GlobalHub is the singleton SSE Hub instance
var GlobalHub = NewHub()

// NewHub creates a new SSE Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client to the hub
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
	log.Printf("[SSE] Client registered: id=%s user=%s (total: %d)", client.ID, client.Username, len(h.clients))
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[clientID]; ok {
		close(client.Events)
		delete(h.clients, clientID)
		log.Printf("[SSE] Client unregistered: id=%s (total: %d)", clientID, len(h.clients))
	}
}

// Broadcast sends an event to all connected clients
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Events <- event:
		default:
			log.Printf("[SSE] Client %s buffer full, skipping event", client.ID)
		}
	}
}

// PublishOrderUpdate 广播工单变更（创建、更新、完工、暂停、恢复、级联顺延）
func PublishOrderUpdate(machine string, orderID uint, action string) {
	data := fmt.Sprintf(`{"machine":%q,"order_id":%d,"action":%q}`, machine, orderID, action)
	GlobalHub.Broadcast(Event{
		EventType: "order_update",
		Data:      data,
	})
}

// PublishMachineUpdate 广播机台变更（状态切换、维修、参数调整）
func PublishMachineUpdate(machine string, action string) {
	data := fmt.Sprintf(`{"machine":%q,"action":%q}`, machine, action)
	GlobalHub.Broadcast(Event{
		EventType: "machine_update",
		Data:      data,
	})
}
