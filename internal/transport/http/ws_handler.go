package http

import (
	"context"
	stdhttp "net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/auth"
	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
	"github.com/Anilsharma012/myProperty-sub000/internal/realtime"
)

// ChannelHandler upgrades HTTP connections for one channel and runs the
// authentication handshake. The connection is inert until a valid auth
// message arrives; everything inbound after that is ignored, all traffic is
// server push.
type ChannelHandler struct {
	registry *realtime.Registry
	verifier auth.Verifier
	ack      func() any
	log      *zerolog.Logger
}

// NewChannelHandler builds the handler for one channel. ack builds that
// channel's handshake acknowledgment message.
func NewChannelHandler(registry *realtime.Registry, verifier auth.Verifier, ack func() any, logger *zerolog.Logger) stdhttp.Handler {
	return &ChannelHandler{
		registry: registry,
		verifier: verifier,
		ack:      ack,
		log:      logger,
	}
}

func (h *ChannelHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Str("channel", h.registry.Channel()).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	link := realtime.NewWSLink(conn)

	var registered *realtime.Conn
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			break
		}
		if registered == nil {
			registered = h.authenticate(ctx, link, inbound)
		}
		// Messages after authentication carry nothing on these channels.
	}

	if registered != nil {
		h.registry.Unregister(registered)
		h.log.Info().
			Str("channel", h.registry.Channel()).
			Str("user_id", registered.UserID).
			Str("conn", registered.ID).
			Msg("connection closed")
	}
	conn.Close(websocket.StatusNormalClosure, "closing")
}

// authenticate processes one pre-auth message. Any failure leaves the
// connection inert with no error reply.
func (h *ChannelHandler) authenticate(ctx context.Context, link realtime.Link, inbound proto.Inbound) *realtime.Conn {
	if inbound.Type != proto.InboundTypeAuth {
		h.log.Debug().
			Str("channel", h.registry.Channel()).
			Str("type", inbound.Type).
			Msg("message before auth ignored")
		return nil
	}

	userID := strings.TrimSpace(inbound.UserID)
	if userID == "" {
		h.log.Debug().Str("channel", h.registry.Channel()).Msg("auth without userId ignored")
		return nil
	}

	if h.verifier != nil && inbound.Token != "" {
		claims, err := h.verifier.Verify(inbound.Token)
		if err != nil {
			h.log.Warn().Err(err).
				Str("channel", h.registry.Channel()).
				Str("user_id", userID).
				Msg("handshake token rejected")
			return nil
		}
		if claims.UserID != "" && claims.UserID != userID {
			h.log.Warn().
				Str("channel", h.registry.Channel()).
				Str("user_id", userID).
				Str("token_user_id", claims.UserID).
				Msg("handshake token user mismatch")
			return nil
		}
	}

	c := realtime.NewConn(userID, inbound.UserType, h.registry.Channel(), link)
	h.registry.Register(c)

	if err := c.Write(ctx, h.ack()); err != nil {
		h.registry.Unregister(c)
		c.Close("ack write failed")
		return nil
	}

	h.log.Info().
		Str("channel", h.registry.Channel()).
		Str("user_id", userID).
		Str("user_type", inbound.UserType).
		Str("conn", c.ID).
		Msg("connection authenticated")
	return c
}
