package store

import (
	"context"
	"time"
)

// NotificationType classifies a notification for client rendering.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is a durably recorded notification event. All fields are
// immutable after insert except Read, which only ever transitions false to true.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	Timestamp time.Time
	Read      bool
}

// UserPackage records a package purchase with usage counters. It backs the
// catch-up fetch for users that were offline when the purchase event fired.
type UserPackage struct {
	ID           string
	UserID       string
	PackageID    string
	PackageName  string
	PurchaseDate time.Time
	ExpiryDate   time.Time
	AdsUsed      int
	AdLimit      int
	Active       bool
}

// NotificationStore handles notification persistence and read state.
type NotificationStore interface {
	// InsertNotification durably records a notification.
	InsertNotification(ctx context.Context, n *Notification) error

	// MarkRead flips the read flag for (userID, notificationID). Idempotent:
	// marking an already-read or unknown notification is a no-op success.
	MarkRead(ctx context.Context, userID, notificationID string) error

	// FindByUser returns all notifications for a user, newest first.
	FindByUser(ctx context.Context, userID string) ([]*Notification, error)
}

// UserPackageStore handles user-package persistence for poll-based catch-up.
type UserPackageStore interface {
	// UpsertUserPackage inserts or replaces a user-package record.
	UpsertUserPackage(ctx context.Context, up *UserPackage) error

	// FindUserPackages returns a user's package records, newest purchase first.
	FindUserPackages(ctx context.Context, userID string) ([]*UserPackage, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	NotificationStore
	UserPackageStore

	// Close closes the underlying database connection.
	Close() error
}
