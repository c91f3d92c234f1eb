// Package presence tracks which users currently hold a realtime connection.
package presence

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const EventOnlineUsers = "getOnlineUsers"

// Conn is a connection a message can be pushed to.
type Conn interface {
	Send(v any) error
}

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Registry maps a user id to its most recent connection.
type Registry struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]Conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[uuid.UUID]Conn)}
}

// Register stores conn for userID, replacing any earlier connection.
func (r *Registry) Register(userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	r.conns[userID] = conn
	r.mu.Unlock()
}

func (r *Registry) Unregister(userID uuid.UUID) {
	r.mu.Lock()
	delete(r.conns, userID)
	r.mu.Unlock()
}

// UnregisterConn removes userID only while it still maps to conn, so a stale
// connection closing does not evict a newer one. It reports whether an entry
// was removed.
func (r *Registry) UnregisterConn(userID uuid.UUID, conn Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.conns[userID]; ok && cur == conn {
		delete(r.conns, userID)
		return true
	}
	return false
}

func (r *Registry) Lookup(userID uuid.UUID) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.conns[userID]
	return c, ok
}

// Online returns the connected user ids in a stable order.
func (r *Registry) Online() []uuid.UUID {
	r.mu.RLock()
	ids := make([]uuid.UUID, 0, len(r.conns))
	for id := range r.conns {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Broadcast sends msg to every registered connection. Send errors are logged
// and do not stop delivery to the others.
func (r *Registry) Broadcast(msg Message) {
	r.mu.RLock()
	targets := make(map[uuid.UUID]Conn, len(r.conns))
	for id, c := range r.conns {
		targets[id] = c
	}
	r.mu.RUnlock()

	for id, c := range targets {
		if err := c.Send(msg); err != nil {
			zap.S().Debugw("presence send failed", "user_id", id, "error", err)
		}
	}
}

// BroadcastOnline pushes the current online list to everyone.
func (r *Registry) BroadcastOnline() {
	r.Broadcast(Message{Type: EventOnlineUsers, Data: r.Online()})
}
