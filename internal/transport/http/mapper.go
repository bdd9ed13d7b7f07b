package http

import (
	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
	"github.com/Anilsharma012/myProperty-sub000/internal/store"
)

// The REST surface reuses the wire data shapes so a poll and a push yield the
// same JSON for the same domain object.

func notificationsToDTO(items []*store.Notification) []proto.NotificationData {
	out := make([]proto.NotificationData, 0, len(items))
	for _, n := range items {
		out = append(out, proto.NotificationData{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      string(n.Type),
			Timestamp: n.Timestamp,
			Read:      n.Read,
		})
	}
	return out
}

func userPackagesToDTO(items []*store.UserPackage) []proto.UserPackageData {
	out := make([]proto.UserPackageData, 0, len(items))
	for _, up := range items {
		out = append(out, proto.UserPackageData{
			ID:           up.ID,
			UserID:       up.UserID,
			PackageID:    up.PackageID,
			PackageName:  up.PackageName,
			PurchaseDate: up.PurchaseDate,
			ExpiryDate:   up.ExpiryDate,
			AdsUsed:      up.AdsUsed,
			AdLimit:      up.AdLimit,
			Active:       up.Active,
		})
	}
	return out
}
