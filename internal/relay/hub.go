// Package relay bridges websocket clients to the game loop. The hub owns
// the client set and all fan-out; each connection gets a read pump and a
// write pump goroutine, and nothing outside the hub goroutine touches the
// client map.
package relay

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/planetfall/internal/game"
)

const (
	// How many chat messages are kept for replay to newly joined clients.
	maxRecent = 30

	// How often the full entity state is pushed to connected clients.
	stateInterval = 3 * time.Second
)

// Hub maintains the set of active clients, broadcasts chat, and pushes
// periodic world state snapshots.
type Hub struct {
	game       *game.Game
	log        *zap.Logger
	maxClients int

	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	recent     messageQueue

	stop chan struct{}
	done chan struct{}
}

// NewHub wires a hub to a running game. maxClients bounds concurrent
// connections; extra clients are turned away at registration.
func NewHub(g *game.Game, maxClients int, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		game:       g,
		log:        log,
		maxClients: maxClients,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run serves the hub loop until Stop is called. Run it on its own goroutine.
func (h *Hub) Run() {
	defer close(h.done)

	stateTicker := time.NewTicker(stateInterval)
	defer stateTicker.Stop()

	for {
		select {
		case <-h.stop:
			for c := range h.clients {
				close(c.send)
			}
			return

		case c := <-h.register:
			if len(h.clients) >= h.maxClients {
				h.log.Warn("turning away client, hub full",
					zap.Int("max_clients", h.maxClients),
					zap.String("session", c.session.String()))
				h.game.Leave(c.playerID)
				close(c.send)
				continue
			}
			h.clients[c] = true
			h.recent.replay(c)
			h.fanout([]byte("Welcome, " + c.username + "."))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.game.Leave(c.playerID)
				h.fanout([]byte(c.username + " has left."))
			}

		case msg := <-h.broadcast:
			h.recent.add(msg)
			h.fanout(msg)

		case <-stateTicker.C:
			if len(h.clients) > 0 {
				h.fanout(h.game.StateJSON())
			}
		}
	}
}

// fanout delivers msg to every client, dropping any whose send buffer is
// full rather than letting one slow reader stall the hub.
func (h *Hub) fanout(msg []byte) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			delete(h.clients, c)
			close(c.send)
			h.game.Leave(c.playerID)
			h.log.Warn("dropping slow client", zap.String("session", c.session.String()))
		}
	}
}

// Stop shuts the hub loop down and closes every client send channel.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

// messageQueue keeps the most recent chat messages so a newly connected
// client sees some history. Index 0 is the oldest surviving message.
type messageQueue struct {
	messages [][]byte
}

func (q *messageQueue) add(msg []byte) {
	if len(q.messages) == maxRecent {
		copy(q.messages, q.messages[1:])
		q.messages = q.messages[:maxRecent-1]
	}
	q.messages = append(q.messages, msg)
}

// replay queues the saved history onto a fresh client, oldest first.
// Replayed messages carry a "**" prefix so clients can tell them apart
// from live traffic.
func (q *messageQueue) replay(c *Client) {
	for _, m := range q.messages {
		c.send <- append([]byte("**"), m...)
	}
}
