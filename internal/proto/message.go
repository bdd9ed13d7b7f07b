package proto

import "time"

// Inbound is the only client-to-server message on any channel. A connection
// is inert until it sends one with Type "auth" and a non-empty UserID.
type Inbound struct {
	Type     string `json:"type"`
	UserID   string `json:"userId"`
	Token    string `json:"token,omitempty"`
	UserType string `json:"userType,omitempty"`
}

// InboundTypeAuth is the handshake message type.
const InboundTypeAuth = "auth"

// Server-to-client message types, per channel.
const (
	// notifications channel
	TypeAuthSuccess      = "auth_success"
	TypePushNotification = "push_notification"

	// package-sync channel
	TypeSyncComplete       = "sync_complete"
	TypePackageCreated     = "package_created"
	TypePackageUpdated     = "package_updated"
	TypePackageDeleted     = "package_deleted"
	TypeUserPackageCreated = "user_package_created"
	TypeUserPackageUpdated = "user_package_updated"

	// chat channel
	TypeNewMessage = "new_message"
)

// NotificationOutbound is the closed set of messages on the notifications
// channel, discriminated by Type.
type NotificationOutbound struct {
	Type string            `json:"type"`
	Data *NotificationData `json:"data,omitempty"`
}

// NotificationData is the notification envelope carried by push_notification.
type NotificationData struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// PackageSyncOutbound is the closed set of messages on the package-sync
// channel, discriminated by Type. Exactly one payload field is set for the
// types that carry one.
type PackageSyncOutbound struct {
	Type        string           `json:"type"`
	Package     *PackageData     `json:"package,omitempty"`
	PackageID   string           `json:"packageId,omitempty"`
	UserPackage *UserPackageData `json:"userPackage,omitempty"`
}

// PackageData is a full advertisement-package snapshot.
type PackageData struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"durationDays"`
	AdLimit      int     `json:"adLimit"`
	Featured     bool    `json:"featured"`
	Active       bool    `json:"active"`
}

// UserPackageData is a user-package snapshot with usage counters.
type UserPackageData struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	PackageID    string    `json:"packageId"`
	PackageName  string    `json:"packageName"`
	PurchaseDate time.Time `json:"purchaseDate"`
	ExpiryDate   time.Time `json:"expiryDate"`
	AdsUsed      int       `json:"adsUsed"`
	AdLimit      int       `json:"adLimit"`
	Active       bool      `json:"active"`
}

// ChatOutbound is the closed set of messages on the chat channel.
type ChatOutbound struct {
	Type    string           `json:"type"`
	Message *ChatMessageData `json:"message,omitempty"`
}

// ChatMessageData is a chat message addressed to conversation participants.
type ChatMessageData struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	RecipientID    string    `json:"recipientId,omitempty"`
	Text           string    `json:"text"`
	SentAt         time.Time `json:"sentAt"`
}

// AuthSuccess is the handshake acknowledgment on the notifications channel.
func AuthSuccess() NotificationOutbound {
	return NotificationOutbound{Type: TypeAuthSuccess}
}

// ChatAuthSuccess is the handshake acknowledgment on the chat channel.
func ChatAuthSuccess() ChatOutbound {
	return ChatOutbound{Type: TypeAuthSuccess}
}

// SyncComplete is the handshake acknowledgment on the package-sync channel.
func SyncComplete() PackageSyncOutbound {
	return PackageSyncOutbound{Type: TypeSyncComplete}
}

// PushNotification wraps a notification envelope for targeted delivery.
func PushNotification(data NotificationData) NotificationOutbound {
	return NotificationOutbound{Type: TypePushNotification, Data: &data}
}

// PackageCreated announces a new package snapshot to all listeners.
func PackageCreated(pkg PackageData) PackageSyncOutbound {
	return PackageSyncOutbound{Type: TypePackageCreated, Package: &pkg}
}

// PackageUpdated announces an updated package snapshot to all listeners.
func PackageUpdated(pkg PackageData) PackageSyncOutbound {
	return PackageSyncOutbound{Type: TypePackageUpdated, Package: &pkg}
}

// PackageDeleted announces a package removal by id.
func PackageDeleted(packageID string) PackageSyncOutbound {
	return PackageSyncOutbound{Type: TypePackageDeleted, PackageID: packageID}
}

// UserPackageCreated carries a user-package snapshot to its owner.
func UserPackageCreated(up UserPackageData) PackageSyncOutbound {
	return PackageSyncOutbound{Type: TypeUserPackageCreated, UserPackage: &up}
}

// UserPackageUpdated carries an updated user-package snapshot to its owner.
func UserPackageUpdated(up UserPackageData) PackageSyncOutbound {
	return PackageSyncOutbound{Type: TypeUserPackageUpdated, UserPackage: &up}
}

// NewMessage wraps a chat message for targeted delivery.
func NewMessage(msg ChatMessageData) ChatOutbound {
	return ChatOutbound{Type: TypeNewMessage, Message: &msg}
}
