package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const writeTimeout = 5 * time.Second

// wsLink adapts a websocket connection to the Link interface. Writes are
// serialized: broadcast and targeted sends may arrive from different
// goroutines while the read loop runs elsewhere.
type wsLink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWSLink wraps a websocket connection for registry ownership.
func NewWSLink(conn *websocket.Conn) Link {
	return &wsLink{conn: conn}
}

func (l *wsLink) Write(ctx context.Context, v any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, l.conn, v)
}

func (l *wsLink) Close(reason string) error {
	return l.conn.Close(websocket.StatusNormalClosure, reason)
}
