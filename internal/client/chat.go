package client

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
)

// ChatHandlers are the callbacks for the chat channel.
type ChatHandlers struct {
	OnAuthSuccess func()
	OnNewMessage  func(proto.ChatMessageData)
}

// NewChatChannel configures the generic channel for /chat.
func NewChatChannel(baseURL string, id Identity, handlers ChatHandlers, logger *zerolog.Logger) *Channel {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return NewChannel(Options{
		URL:       baseURL + "/chat",
		BuildAuth: id.authPayload,
		OnMessage: func(data []byte) {
			dispatchChat(data, handlers, logger)
		},
		Logger: logger,
	})
}

func dispatchChat(data []byte, handlers ChatHandlers, logger *zerolog.Logger) {
	var out proto.ChatOutbound
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn().Err(err).Msg("bad chat frame")
		return
	}

	switch out.Type {
	case proto.TypeAuthSuccess:
		if handlers.OnAuthSuccess != nil {
			handlers.OnAuthSuccess()
		}
	case proto.TypeNewMessage:
		if out.Message != nil && handlers.OnNewMessage != nil {
			handlers.OnNewMessage(*out.Message)
		}
	default:
		logger.Debug().Str("type", out.Type).Msg("unknown chat message")
	}
}
