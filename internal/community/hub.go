// Package community fans state changes out to connected browsers over
// websockets so chat, polls and posts update without polling.
package community

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/Awasthi-Ram/Root-fix-app/internal/state"
)

const broadcastBuffer = 64

// Hub tracks connected clients and broadcasts every published event to all
// of them. A slow client is dropped rather than allowed to stall the rest.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Encoded events waiting to be fanned out.
	broadcast chan []byte

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	connected atomic.Int64
	logger    zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger.With().Str("component", "community_hub").Logger(),
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			h.connected.Store(int64(len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.logger.Warn().Int64("user_id", client.userID).Msg("dropping slow client")
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.connected.Store(int64(len(h.clients)))
}

// Publish implements state.Publisher. Events published after the hub has
// stopped, or while its buffer is full, are discarded.
func (h *Hub) Publish(ev state.Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Str("kind", string(ev.Kind)).Msg("encode event")
		return
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.logger.Warn().Str("kind", string(ev.Kind)).Msg("broadcast buffer full, event dropped")
	}
}

// Connected reports how many clients are currently registered.
func (h *Hub) Connected() int {
	return int(h.connected.Load())
}

func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

var _ state.Publisher = (*Hub)(nil)
