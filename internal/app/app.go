package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Anilsharma012/myProperty-sub000/internal/auth"
	"github.com/Anilsharma012/myProperty-sub000/internal/chat"
	"github.com/Anilsharma012/myProperty-sub000/internal/config"
	"github.com/Anilsharma012/myProperty-sub000/internal/notify"
	"github.com/Anilsharma012/myProperty-sub000/internal/packagesync"
	"github.com/Anilsharma012/myProperty-sub000/internal/realtime"
	"github.com/Anilsharma012/myProperty-sub000/internal/store"
	"github.com/Anilsharma012/myProperty-sub000/internal/store/sqlite"
	transporthttp "github.com/Anilsharma012/myProperty-sub000/internal/transport/http"
)

// App wires together the sync core and the transport layer.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	store           store.Store
	log             *zerolog.Logger

	// Exposed for collaborator code that raises domain events.
	Notifications *notify.Service
	Packages      *packagesync.Service
	Chat          *chat.Service
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	var verifier auth.Verifier
	if cfg.JWTSecret != "" {
		verifier = auth.NewJWTVerifier(&auth.JWTConfig{
			Secret:   []byte(cfg.JWTSecret),
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
			TTL:      24 * time.Hour,
		})
	}

	notifyRegistry := realtime.NewRegistry("notifications", logger)
	packageRegistry := realtime.NewRegistry("package-sync", logger)
	chatRegistry := realtime.NewRegistry("chat", logger)

	notifications := notify.NewService(st, notifyRegistry, logger)
	packages := packagesync.NewService(packageRegistry, st, logger)
	chatSvc := chat.NewService(chatRegistry, logger)

	server := transporthttp.NewServer(*cfg, transporthttp.Deps{
		Notifications:   notifications,
		Packages:        packages,
		NotifyRegistry:  notifyRegistry,
		PackageRegistry: packageRegistry,
		ChatRegistry:    chatRegistry,
		Verifier:        verifier,
	}, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		store:           st,
		log:             logger,
		Notifications:   notifications,
		Packages:        packages,
		Chat:            chatSvc,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
