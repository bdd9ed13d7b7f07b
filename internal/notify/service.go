package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
	"github.com/Anilsharma012/myProperty-sub000/internal/realtime"
	"github.com/Anilsharma012/myProperty-sub000/internal/store"
)

// Service dispatches notifications: durable record first, live push second.
// The push is best-effort; a user with no connection picks the record up via
// a later fetch.
type Service struct {
	store    store.NotificationStore
	registry *realtime.Registry
	log      *zerolog.Logger
}

// NewService wires the notification store and the notifications-channel registry.
func NewService(st store.NotificationStore, registry *realtime.Registry, logger *zerolog.Logger) *Service {
	return &Service{
		store:    st,
		registry: registry,
		log:      logger,
	}
}

// Dispatch records a notification for the user and attempts a targeted push.
// A persistence failure is returned and nothing is pushed; a push failure is
// not an error, the record is already durable.
func (s *Service) Dispatch(ctx context.Context, userID, title, message string, typ store.NotificationType) (*store.Notification, error) {
	n := &store.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      normalizeType(typ),
		Timestamp: time.Now().UTC(),
		Read:      false,
	}

	if err := s.store.InsertNotification(ctx, n); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("persist notification")
		return nil, fmt.Errorf("persist notification: %w", err)
	}

	if !s.registry.Send(ctx, userID, proto.PushNotification(toProto(n))) {
		s.log.Debug().
			Str("user_id", userID).
			Str("notification_id", n.ID).
			Msg("user offline, notification awaits fetch")
	}

	return n, nil
}

// MarkRead flips the read flag for one notification. Idempotent.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*store.Notification, error) {
	return s.store.FindByUser(ctx, userID)
}

func toProto(n *store.Notification) proto.NotificationData {
	return proto.NotificationData{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Timestamp: n.Timestamp,
		Read:      n.Read,
	}
}

func normalizeType(typ store.NotificationType) store.NotificationType {
	switch typ {
	case store.NotificationInfo, store.NotificationSuccess,
		store.NotificationWarning, store.NotificationError:
		return typ
	default:
		return store.NotificationInfo
	}
}
