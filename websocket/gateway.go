package websocket

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/omondivictor/chirpnet/models"
	"github.com/omondivictor/chirpnet/presence"
)

const (
	EventNewMessage     = "newMessage"
	EventGetOnlineUsers = "getOnlineUsers"

	writeWait = 5 * time.Second
)

// Event is the envelope pushed to clients over the realtime channel.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the subset of the websocket connection the gateway uses.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
}

type connState int

const (
	stateConnecting connState = iota
	stateIdentified
	stateDisconnected
)

// connection wraps one client connection. Writes are serialized: the
// broadcast path, the push path and the sweep may touch the same
// connection from different goroutines.
type connection struct {
	wmu   sync.Mutex
	conn  Conn
	user  *uuid.UUID
	state connState
	done  sync.Once
}

func (c *connection) WriteJSON(v interface{}) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *connection) WriteControl(messageType int, data []byte, deadline time.Time) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.conn.WriteControl(messageType, data, deadline)
}

func (c *connection) Close() error {
	return c.conn.Close()
}

// Gateway owns the realtime connection lifecycle. Every connection
// moves Connecting -> Identified -> Disconnected (anonymous ones skip
// Identified). Registration with the presence registry happens on the
// Identified transition, and the online-user list is broadcast to all
// connections on every connect and disconnect.
type Gateway struct {
	registry *presence.Registry

	mu    sync.RWMutex
	conns map[*connection]struct{}
}

func NewGateway(registry *presence.Registry) *Gateway {
	return &Gateway{
		registry: registry,
		conns:    make(map[*connection]struct{}),
	}
}

// Handle runs one connection to completion. identity is nil for
// anonymous connections: they receive broadcasts but are never
// registered and can never receive a push. The channel is push-only,
// so the read loop exists purely to notice the disconnect.
func (g *Gateway) Handle(conn Conn, identity *uuid.UUID) {
	c := &connection{conn: conn, state: stateConnecting}
	g.mu.Lock()
	g.conns[c] = struct{}{}
	g.mu.Unlock()

	if identity != nil {
		c.user = identity
		c.state = stateIdentified
		g.registry.Register(*identity, c)
		log.Printf("User %s connected", identity)
	}
	g.BroadcastOnlineUsers()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	g.disconnect(c)
}

func (g *Gateway) disconnect(c *connection) {
	c.done.Do(func() {
		c.state = stateDisconnected
		g.mu.Lock()
		delete(g.conns, c)
		g.mu.Unlock()
		if c.user != nil {
			g.registry.Unregister(*c.user, c)
			log.Printf("User %s disconnected", c.user)
		}
		c.conn.Close()
		g.BroadcastOnlineUsers()
	})
}

// BroadcastOnlineUsers sends the current online-user snapshot to every
// connection, identified or not.
func (g *Gateway) BroadcastOnlineUsers() {
	ev := Event{Event: EventGetOnlineUsers, Data: g.registry.Online()}

	g.mu.RLock()
	targets := make([]*connection, 0, len(g.conns))
	for c := range g.conns {
		targets = append(targets, c)
	}
	g.mu.RUnlock()

	for _, c := range targets {
		if err := c.WriteJSON(ev); err != nil {
			log.Printf("Dropping unreachable connection: %v", err)
			g.disconnect(c)
		}
	}
}

// NotifyNewMessage pushes a newMessage event to the recipient if they
// are online. Best effort: an absent recipient is the normal offline
// case, and a write failure only tears down the stale connection. The
// message is already persisted and the caller must not fail.
func (g *Gateway) NotifyNewMessage(userID uuid.UUID, msg *models.Message) {
	h, ok := g.registry.Lookup(userID)
	if !ok {
		return
	}
	if err := h.WriteJSON(Event{Event: EventNewMessage, Data: msg}); err != nil {
		log.Printf("Failed to push message to user %s: %v", userID, err)
		g.registry.Unregister(userID, h)
		h.Close()
	}
}

// SweepStale pings every registered connection and unregisters the
// ones that no longer accept writes. Run periodically from a cron job.
func (g *Gateway) SweepStale() {
	dropped := 0
	for userID, h := range g.registry.Snapshot() {
		if err := h.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			log.Printf("Dropping stale connection for user %s: %v", userID, err)
			g.registry.Unregister(userID, h)
			h.Close()
			dropped++
		}
	}
	if dropped > 0 {
		g.BroadcastOnlineUsers()
	}
}
