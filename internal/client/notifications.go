package client

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
)

// NotificationHandlers are the callbacks for the notifications channel.
type NotificationHandlers struct {
	OnAuthSuccess  func()
	OnNotification func(proto.NotificationData)
}

// NotificationsChannel is the notifications-channel instance of the
// reconnecting channel. It additionally keeps a local in-memory list of
// received notifications; clearing it never touches persisted records.
type NotificationsChannel struct {
	*Channel

	mu    sync.Mutex
	items []proto.NotificationData
}

// NewNotificationsChannel configures the generic channel for /notifications.
func NewNotificationsChannel(baseURL string, id Identity, handlers NotificationHandlers, logger *zerolog.Logger) *NotificationsChannel {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	nc := &NotificationsChannel{}
	nc.Channel = NewChannel(Options{
		URL:       baseURL + "/notifications",
		BuildAuth: id.authPayload,
		OnMessage: func(data []byte) {
			nc.dispatch(data, handlers, logger)
		},
		Logger: logger,
	})
	return nc
}

func (nc *NotificationsChannel) dispatch(data []byte, handlers NotificationHandlers, logger *zerolog.Logger) {
	var out proto.NotificationOutbound
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn().Err(err).Msg("bad notifications frame")
		return
	}

	switch out.Type {
	case proto.TypeAuthSuccess:
		if handlers.OnAuthSuccess != nil {
			handlers.OnAuthSuccess()
		}
	case proto.TypePushNotification:
		if out.Data == nil {
			return
		}
		nc.mu.Lock()
		nc.items = append([]proto.NotificationData{*out.Data}, nc.items...)
		nc.mu.Unlock()
		if handlers.OnNotification != nil {
			handlers.OnNotification(*out.Data)
		}
	default:
		logger.Debug().Str("type", out.Type).Msg("unknown notifications message")
	}
}

// Notifications returns a copy of the local list, newest first.
func (nc *NotificationsChannel) Notifications() []proto.NotificationData {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	out := make([]proto.NotificationData, len(nc.items))
	copy(out, nc.items)
	return out
}

// ClearLocal empties the local list only. Persisted records are untouched.
func (nc *NotificationsChannel) ClearLocal() {
	nc.mu.Lock()
	nc.items = nil
	nc.mu.Unlock()
}
