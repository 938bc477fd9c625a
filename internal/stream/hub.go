package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// Message is the envelope every websocket payload travels in.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Hub fans frames out to every connected viewer and collects their commands.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	commands   chan Command
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan Command, 64),
		done:       make(chan struct{}),
	}
}

// Run owns client registration until ctx ends, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("[stream] client connected (%d total)", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Printf("[stream] client disconnected (%d total)", n)

		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast sends msg to every client. Slow clients drop the message.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[stream] marshal %s: %v", msgType, err)
		return
	}
	out, err := json.Marshal(Message{Type: msgType, Data: data})
	if err != nil {
		log.Printf("[stream] marshal envelope: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- out:
		default:
			log.Printf("[stream] send buffer full for %s, dropping %s", c.remote, msgType)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Commands delivers viewer commands to the driver.
func (h *Hub) Commands() <-chan Command { return h.commands }
