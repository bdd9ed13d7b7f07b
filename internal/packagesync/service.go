package packagesync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
	"github.com/Anilsharma012/myProperty-sub000/internal/realtime"
	"github.com/Anilsharma012/myProperty-sub000/internal/store"
)

// Service publishes package-state events over the package-sync channel.
// Catalog events fan out to everyone; user-package events go to the owner
// only, with the record persisted first so an offline owner can catch up by
// fetching.
type Service struct {
	registry *realtime.Registry
	store    store.UserPackageStore
	log      *zerolog.Logger
}

// NewService wires the package-sync registry and the user-package store.
func NewService(registry *realtime.Registry, st store.UserPackageStore, logger *zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		store:    st,
		log:      logger,
	}
}

// PublishPackageCreated broadcasts a new catalog package to all connections.
// Returns the number of connections reached.
func (s *Service) PublishPackageCreated(ctx context.Context, pkg proto.PackageData) int {
	reached := s.registry.Broadcast(ctx, proto.PackageCreated(pkg))
	s.log.Info().Str("package_id", pkg.ID).Int("reached", reached).Msg("package created")
	return reached
}

// PublishPackageUpdated broadcasts an updated catalog package to all connections.
func (s *Service) PublishPackageUpdated(ctx context.Context, pkg proto.PackageData) int {
	reached := s.registry.Broadcast(ctx, proto.PackageUpdated(pkg))
	s.log.Info().Str("package_id", pkg.ID).Int("reached", reached).Msg("package updated")
	return reached
}

// PublishPackageDeleted broadcasts a catalog package removal by id.
func (s *Service) PublishPackageDeleted(ctx context.Context, packageID string) int {
	reached := s.registry.Broadcast(ctx, proto.PackageDeleted(packageID))
	s.log.Info().Str("package_id", packageID).Int("reached", reached).Msg("package deleted")
	return reached
}

// PublishUserPackagePurchase persists the purchase record and sends
// user_package_created to the owning user only. The push is best-effort; the
// record is what an offline owner fetches later.
func (s *Service) PublishUserPackagePurchase(ctx context.Context, up *store.UserPackage) error {
	if up.ID == "" {
		up.ID = uuid.NewString()
	}
	if err := s.store.UpsertUserPackage(ctx, up); err != nil {
		s.log.Error().Err(err).Str("user_id", up.UserID).Msg("persist user package")
		return fmt.Errorf("persist user package: %w", err)
	}

	if !s.registry.Send(ctx, up.UserID, proto.UserPackageCreated(toProto(up))) {
		s.log.Debug().
			Str("user_id", up.UserID).
			Str("user_package_id", up.ID).
			Msg("owner offline, purchase awaits fetch")
	}
	return nil
}

// PublishUserPackageUpdate persists updated usage counters and sends
// user_package_updated to the owning user only.
func (s *Service) PublishUserPackageUpdate(ctx context.Context, up *store.UserPackage) error {
	if err := s.store.UpsertUserPackage(ctx, up); err != nil {
		s.log.Error().Err(err).Str("user_id", up.UserID).Msg("persist user package")
		return fmt.Errorf("persist user package: %w", err)
	}

	if !s.registry.Send(ctx, up.UserID, proto.UserPackageUpdated(toProto(up))) {
		s.log.Debug().
			Str("user_id", up.UserID).
			Str("user_package_id", up.ID).
			Msg("owner offline, update awaits fetch")
	}
	return nil
}

// ListUserPackages returns a user's package records for the catch-up fetch.
func (s *Service) ListUserPackages(ctx context.Context, userID string) ([]*store.UserPackage, error) {
	return s.store.FindUserPackages(ctx, userID)
}

func toProto(up *store.UserPackage) proto.UserPackageData {
	return proto.UserPackageData{
		ID:           up.ID,
		UserID:       up.UserID,
		PackageID:    up.PackageID,
		PackageName:  up.PackageName,
		PurchaseDate: up.PurchaseDate,
		ExpiryDate:   up.ExpiryDate,
		AdsUsed:      up.AdsUsed,
		AdLimit:      up.AdLimit,
		Active:       up.Active,
	}
}
