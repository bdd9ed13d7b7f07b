package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/auth"
	"github.com/Anilsharma012/myProperty-sub000/internal/config"
	"github.com/Anilsharma012/myProperty-sub000/internal/notify"
	"github.com/Anilsharma012/myProperty-sub000/internal/packagesync"
	"github.com/Anilsharma012/myProperty-sub000/internal/proto"
	"github.com/Anilsharma012/myProperty-sub000/internal/realtime"
)

// Deps bundles everything the HTTP layer serves: one registry per channel and
// the services behind the polling endpoints.
type Deps struct {
	Notifications   *notify.Service
	Packages        *packagesync.Service
	NotifyRegistry  *realtime.Registry
	PackageRegistry *realtime.Registry
	ChatRegistry    *realtime.Registry
	Verifier        auth.Verifier
}

// NewServer builds the HTTP server: three channel endpoints plus the REST
// catch-up surface.
func NewServer(cfg config.Config, deps Deps, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	router.GET("/notifications", gin.WrapH(NewChannelHandler(
		deps.NotifyRegistry, deps.Verifier,
		func() any { return proto.AuthSuccess() }, logger)))
	router.GET("/package-sync", gin.WrapH(NewChannelHandler(
		deps.PackageRegistry, deps.Verifier,
		func() any { return proto.SyncComplete() }, logger)))
	router.GET("/chat", gin.WrapH(NewChannelHandler(
		deps.ChatRegistry, deps.Verifier,
		func() any { return proto.ChatAuthSuccess() }, logger)))

	api := NewAPIHandlers(deps.Notifications, deps.Packages, logger)
	apiGroup := router.Group("/api")
	apiGroup.GET("/notifications", api.ListNotifications)
	apiGroup.POST("/notifications/:id/read", api.MarkNotificationRead)
	apiGroup.GET("/user-packages", api.ListUserPackages)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
