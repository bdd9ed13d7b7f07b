package realtime

import (
	"context"

	"github.com/Anilsharma012/myProperty-sub000/internal/utils"
)

// Link is the writable half of a peer connection. The registry only ever
// writes and closes; reading stays with the transport layer that owns the
// socket's read loop.
type Link interface {
	Write(ctx context.Context, v any) error
	Close(reason string) error
}

// Conn is one authenticated connection on a channel. It is owned exclusively
// by the registry from Register until Unregister or eviction.
type Conn struct {
	ID       string
	UserID   string
	UserType string
	Channel  string

	link Link
}

// NewConn wraps an authenticated link. ID is generated for log correlation.
func NewConn(userID, userType, channel string, link Link) *Conn {
	return &Conn{
		ID:       utils.NewID(),
		UserID:   userID,
		UserType: userType,
		Channel:  channel,
		link:     link,
	}
}

// Write delivers one message to the peer.
func (c *Conn) Write(ctx context.Context, v any) error {
	return c.link.Write(ctx, v)
}

// Close shuts the underlying transport. Safe to call more than once.
func (c *Conn) Close(reason string) {
	_ = c.link.Close(reason)
}
