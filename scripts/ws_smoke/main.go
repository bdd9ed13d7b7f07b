// Command ws_smoke connects to a running sync server on one of the three
// channels, authenticates, and prints every pushed event until the timeout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/Anilsharma012/myProperty-sub000/internal/client"
	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
)

func main() {
	base := flag.String("base", "ws://localhost:8080", "server base URL")
	user := flag.String("user", "smoke-tester", "userId to authenticate as")
	token := flag.String("token", "", "handshake token (optional)")
	userType := flag.String("user-type", "owner", "userType to announce")
	channel := flag.String("channel", "notifications", "channel: notifications, package-sync or chat")
	timeout := flag.Duration("timeout", 10*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	id := client.Identity{UserID: *user, Token: *token, UserType: *userType}
	authed := make(chan struct{}, 1)

	var ch interface {
		Connect(ctx context.Context)
		Close()
	}
	switch *channel {
	case "notifications":
		ch = client.NewNotificationsChannel(*base, id, client.NotificationHandlers{
			OnAuthSuccess: func() { authed <- struct{}{} },
			OnNotification: func(n proto.NotificationData) {
				fmt.Printf("notification %s [%s]: %s — %s\n", n.ID, n.Type, n.Title, n.Message)
			},
		}, nil)
	case "package-sync":
		ch = client.NewPackageSyncChannel(*base, id, client.PackageSyncHandlers{
			OnSyncComplete: func() { authed <- struct{}{} },
			OnPackageCreated: func(p proto.PackageData) {
				fmt.Printf("package created %s: %s (%.0f)\n", p.ID, p.Name, p.Price)
			},
			OnPackageUpdated: func(p proto.PackageData) {
				fmt.Printf("package updated %s: %s\n", p.ID, p.Name)
			},
			OnPackageDeleted: func(id string) {
				fmt.Printf("package deleted %s\n", id)
			},
			OnUserPackageCreated: func(up proto.UserPackageData) {
				fmt.Printf("purchase %s: %s expires %s\n", up.ID, up.PackageName, up.ExpiryDate.Format(time.RFC3339))
			},
			OnUserPackageUpdated: func(up proto.UserPackageData) {
				fmt.Printf("usage %s: %d/%d ads\n", up.ID, up.AdsUsed, up.AdLimit)
			},
		}, nil)
	case "chat":
		ch = client.NewChatChannel(*base, id, client.ChatHandlers{
			OnAuthSuccess: func() { authed <- struct{}{} },
			OnNewMessage: func(m proto.ChatMessageData) {
				fmt.Printf("message %s from %s: %s\n", m.ConversationID, m.SenderID, m.Text)
			},
		}, nil)
	default:
		log.Fatalf("unknown channel %q", *channel)
	}

	ch.Connect(ctx)
	defer ch.Close()

	select {
	case <-authed:
		fmt.Printf("authenticated on %s as %s\n", *channel, *user)
	case <-ctx.Done():
		log.Fatal("handshake timed out")
	}

	<-ctx.Done()
	fmt.Println("done")
}
