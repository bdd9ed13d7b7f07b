package notify

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
	"github.com/Anilsharma012/myProperty-sub000/internal/realtime"
	"github.com/Anilsharma012/myProperty-sub000/internal/store"
	"github.com/Anilsharma012/myProperty-sub000/internal/store/sqlite"
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

func newTestService(t *testing.T) (*Service, *realtime.Registry, store.Store) {
	t.Helper()

	st, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := zerolog.Nop()
	registry := realtime.NewRegistry("notifications", &logger)
	return NewService(st, registry, &logger), registry, st
}

func TestDispatchToOfflineUserPersists(t *testing.T) {
	svc, _, st := newTestService(t)
	ctx := context.Background()

	n, err := svc.Dispatch(ctx, "u1", "Payment received", "Your payment was confirmed", store.NotificationSuccess)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if n.ID == "" || n.Read {
		t.Fatalf("unexpected notification: %+v", n)
	}

	// Nobody was connected; the record is what a later fetch returns.
	items, err := st.FindByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(items) != 1 || items[0].ID != n.ID || items[0].Read {
		t.Fatalf("offline dispatch not persisted unread: %+v", items)
	}
}

func TestDispatchPushesToConnectedUser(t *testing.T) {
	svc, registry, _ := newTestService(t)
	ctx := context.Background()

	link := &captureLink{}
	registry.Register(realtime.NewConn("u1", "owner", "notifications", link))

	bystander := &captureLink{}
	registry.Register(realtime.NewConn("u2", "owner", "notifications", bystander))

	n, err := svc.Dispatch(ctx, "u1", "New inquiry", "Someone asked about your listing", store.NotificationInfo)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	link.mu.Lock()
	defer link.mu.Unlock()
	if len(link.writes) != 1 {
		t.Fatalf("expected 1 push, got %d", len(link.writes))
	}
	out, ok := link.writes[0].(proto.NotificationOutbound)
	if !ok {
		t.Fatalf("pushed %T, want proto.NotificationOutbound", link.writes[0])
	}
	if out.Type != proto.TypePushNotification || out.Data == nil || out.Data.ID != n.ID {
		t.Fatalf("unexpected push envelope: %+v", out)
	}

	bystander.mu.Lock()
	defer bystander.mu.Unlock()
	if len(bystander.writes) != 0 {
		t.Fatal("targeted push leaked to another user")
	}
}

func TestMarkReadViaServiceIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	n, err := svc.Dispatch(ctx, "u1", "t", "m", store.NotificationInfo)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.MarkRead(ctx, "u1", n.ID); err != nil {
			t.Fatalf("mark read pass %d: %v", i+1, err)
		}
	}

	items, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || !items[0].Read {
		t.Fatalf("expected single read notification: %+v", items)
	}
}

func TestDispatchNormalizesUnknownType(t *testing.T) {
	svc, _, _ := newTestService(t)

	n, err := svc.Dispatch(context.Background(), "u1", "t", "m", store.NotificationType("bogus"))
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if n.Type != store.NotificationInfo {
		t.Fatalf("unknown type not normalized: %v", n.Type)
	}
}
