package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
	"github.com/Anilsharma012/myProperty-sub000/internal/realtime"
)

type captureLink struct {
	mu     sync.Mutex
	writes []any
}

func (l *captureLink) Write(_ context.Context, v any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writes = append(l.writes, v)
	return nil
}

func (l *captureLink) Close(string) error { return nil }

func newTestService() (*Service, *realtime.Registry) {
	logger := zerolog.Nop()
	registry := realtime.NewRegistry("chat", &logger)
	return NewService(registry, &logger), registry
}

func TestDeliverReachesConnectedParticipantsOnly(t *testing.T) {
	svc, registry := newTestService()
	ctx := context.Background()

	online := &captureLink{}
	registry.Register(realtime.NewConn("buyer", "owner", "chat", online))
	// "seller" has no connection.

	msg := proto.ChatMessageData{
		ConversationID: "c1",
		SenderID:       "seller",
		Text:           "yes, still available",
	}
	reached, err := svc.Deliver(ctx, msg, "buyer", "seller")
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if reached != 1 {
		t.Fatalf("reached %d participants, want 1", reached)
	}

	online.mu.Lock()
	defer online.mu.Unlock()
	if len(online.writes) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(online.writes))
	}
	out, ok := online.writes[0].(proto.ChatOutbound)
	if !ok {
		t.Fatalf("delivered %T, want proto.ChatOutbound", online.writes[0])
	}
	if out.Type != proto.TypeNewMessage || out.Message == nil {
		t.Fatalf("unexpected envelope: %+v", out)
	}
	if out.Message.ID == "" || out.Message.SentAt.IsZero() {
		t.Fatalf("id and timestamp must be assigned: %+v", out.Message)
	}
	if out.Message.Text != msg.Text || out.Message.ConversationID != "c1" {
		t.Fatalf("message mangled: %+v", out.Message)
	}
}

func TestDeliverRequiresParticipants(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Deliver(context.Background(), proto.ChatMessageData{Text: "hi"})
	if !errors.Is(err, ErrNoParticipants) {
		t.Fatalf("expected ErrNoParticipants, got %v", err)
	}
}
