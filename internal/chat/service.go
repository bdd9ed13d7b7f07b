package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
	"github.com/Anilsharma012/myProperty-sub000/internal/realtime"
)

// ErrNoParticipants is returned when a message has nobody to go to.
var ErrNoParticipants = errors.New("no participants")

// Service delivers chat messages to conversation participants over the chat
// channel. Message persistence belongs to the conversation collaborator; this
// layer is wire delivery only.
type Service struct {
	registry *realtime.Registry
	log      *zerolog.Logger
}

// NewService wires the chat-channel registry.
func NewService(registry *realtime.Registry, logger *zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		log:      logger,
	}
}

// Deliver sends new_message to each listed participant's connection.
// Participants without a connection are skipped on the wire. Returns the
// number of participants reached.
func (s *Service) Deliver(ctx context.Context, msg proto.ChatMessageData, participants ...string) (int, error) {
	if len(participants) == 0 {
		return 0, ErrNoParticipants
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}

	env := proto.NewMessage(msg)
	reached := 0
	for _, p := range participants {
		if s.registry.Send(ctx, p, env) {
			reached++
		}
	}

	s.log.Debug().
		Str("conversation_id", msg.ConversationID).
		Int("participants", len(participants)).
		Int("reached", reached).
		Msg("chat message delivered")
	return reached, nil
}
