package realtime

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Registry maps user identity to the one active connection on a channel.
// It is the only shared mutable resource between connection handlers, so all
// map access goes through the mutex.
type Registry struct {
	channel string
	log     *zerolog.Logger

	mu    sync.Mutex
	conns map[string]*Conn
}

// NewRegistry builds an empty registry for one channel.
func NewRegistry(channel string, logger *zerolog.Logger) *Registry {
	return &Registry{
		channel: channel,
		log:     logger,
		conns:   make(map[string]*Conn),
	}
}

// Channel returns the channel name this registry serves.
func (r *Registry) Channel() string {
	return r.channel
}

// Register inserts the connection, evicting any prior entry for the same
// user. Last write wins; the superseded connection is closed.
func (r *Registry) Register(c *Conn) {
	r.mu.Lock()
	prior := r.conns[c.UserID]
	r.conns[c.UserID] = c
	r.mu.Unlock()

	if prior != nil && prior != c {
		prior.Close("superseded by new connection")
		r.log.Info().
			Str("channel", r.channel).
			Str("user_id", c.UserID).
			Str("evicted_conn", prior.ID).
			Msg("connection superseded")
	}
}

// Unregister removes the connection if it is still the current entry for its
// user. An evicted connection must not remove the one that replaced it.
func (r *Registry) Unregister(c *Conn) {
	r.mu.Lock()
	if cur, ok := r.conns[c.UserID]; ok && cur == c {
		delete(r.conns, c.UserID)
	}
	r.mu.Unlock()
}

// Get returns the active connection for a user, if any.
func (r *Registry) Get(userID string) (*Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[userID]
	return c, ok
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Broadcast attempts one write per registered connection. A failed write
// evicts that entry immediately; there is no retry at this layer. Returns the
// number of successful writes.
func (r *Registry) Broadcast(ctx context.Context, v any) int {
	r.mu.Lock()
	snapshot := make([]*Conn, 0, len(r.conns))
	for _, c := range r.conns {
		snapshot = append(snapshot, c)
	}
	r.mu.Unlock()

	sent := 0
	for _, c := range snapshot {
		if err := c.Write(ctx, v); err != nil {
			r.evict(c, err)
			continue
		}
		sent++
	}
	return sent
}

// Send writes to one user's connection. Absent user is a no-op on the wire;
// a failed write evicts. Returns true only when the write succeeded.
func (r *Registry) Send(ctx context.Context, userID string, v any) bool {
	c, ok := r.Get(userID)
	if !ok {
		return false
	}
	if err := c.Write(ctx, v); err != nil {
		r.evict(c, err)
		return false
	}
	return true
}

func (r *Registry) evict(c *Conn, err error) {
	r.Unregister(c)
	c.Close("write failed")
	r.log.Warn().
		Err(err).
		Str("channel", r.channel).
		Str("user_id", c.UserID).
		Str("conn", c.ID).
		Msg("evicted dead connection")
}
