package client

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
)

// PackageSyncHandlers are the callbacks for the package-sync channel.
type PackageSyncHandlers struct {
	OnSyncComplete       func()
	OnPackageCreated     func(proto.PackageData)
	OnPackageUpdated     func(proto.PackageData)
	OnPackageDeleted     func(packageID string)
	OnUserPackageCreated func(proto.UserPackageData)
	OnUserPackageUpdated func(proto.UserPackageData)
}

// NewPackageSyncChannel configures the generic channel for /package-sync.
func NewPackageSyncChannel(baseURL string, id Identity, handlers PackageSyncHandlers, logger *zerolog.Logger) *Channel {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return NewChannel(Options{
		URL:       baseURL + "/package-sync",
		BuildAuth: id.authPayload,
		OnMessage: func(data []byte) {
			dispatchPackageSync(data, handlers, logger)
		},
		Logger: logger,
	})
}

func dispatchPackageSync(data []byte, handlers PackageSyncHandlers, logger *zerolog.Logger) {
	var out proto.PackageSyncOutbound
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn().Err(err).Msg("bad package-sync frame")
		return
	}

	switch out.Type {
	case proto.TypeSyncComplete:
		if handlers.OnSyncComplete != nil {
			handlers.OnSyncComplete()
		}
	case proto.TypePackageCreated:
		if out.Package != nil && handlers.OnPackageCreated != nil {
			handlers.OnPackageCreated(*out.Package)
		}
	case proto.TypePackageUpdated:
		if out.Package != nil && handlers.OnPackageUpdated != nil {
			handlers.OnPackageUpdated(*out.Package)
		}
	case proto.TypePackageDeleted:
		if handlers.OnPackageDeleted != nil {
			handlers.OnPackageDeleted(out.PackageID)
		}
	case proto.TypeUserPackageCreated:
		if out.UserPackage != nil && handlers.OnUserPackageCreated != nil {
			handlers.OnUserPackageCreated(*out.UserPackage)
		}
	case proto.TypeUserPackageUpdated:
		if out.UserPackage != nil && handlers.OnUserPackageUpdated != nil {
			handlers.OnUserPackageUpdated(*out.UserPackage)
		}
	default:
		logger.Debug().Str("type", out.Type).Msg("unknown package-sync message")
	}
}
