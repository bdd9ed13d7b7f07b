package http

import (
	"context"
	"testing"
	"time"

	"github.com/Anilsharma012/myProperty-sub000/internal/client"
	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
	"github.com/Anilsharma012/myProperty-sub000/internal/store"
)

// End-to-end: the reconnecting client against the real server, over a real
// websocket.
func TestClientReceivesLivePush(t *testing.T) {
	env := startTestServer(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	authed := make(chan struct{}, 1)
	received := make(chan proto.NotificationData, 1)
	ch := client.NewNotificationsChannel(env.wsURL(""), client.Identity{UserID: "alice", UserType: "owner"}, client.NotificationHandlers{
		OnAuthSuccess:  func() { authed <- struct{}{} },
		OnNotification: func(n proto.NotificationData) { received <- n },
	}, nil)
	ch.Connect(ctx)
	defer ch.Close()

	select {
	case <-authed:
	case <-ctx.Done():
		t.Fatal("client never authenticated")
	}

	n, err := env.notifications.Dispatch(ctx, "alice", "New inquiry", "Someone viewed your listing", store.NotificationInfo)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	select {
	case got := <-received:
		if got.ID != n.ID || got.Title != "New inquiry" || got.Read {
			t.Fatalf("unexpected push: %+v", got)
		}
	case <-ctx.Done():
		t.Fatal("push never arrived at the client")
	}

	items := ch.Notifications()
	if len(items) != 1 || items[0].ID != n.ID {
		t.Fatalf("local list out of step: %+v", items)
	}
}
