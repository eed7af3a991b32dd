package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/sigil/internal/signing/blob"
	"github.com/aussiebroadwan/sigil/internal/signing/delivery"
	httpapi "github.com/aussiebroadwan/sigil/internal/signing/http"
	"github.com/aussiebroadwan/sigil/internal/signing/identity"
	"github.com/aussiebroadwan/sigil/internal/signing/service"
	"github.com/aussiebroadwan/sigil/internal/signing/store"
	"github.com/aussiebroadwan/sigil/internal/signing/store/drivers/sqlite"
	"github.com/aussiebroadwan/sigil/pkg/cryptox"
	"github.com/aussiebroadwan/sigil/pkg/jwtx"
	"github.com/aussiebroadwan/sigil/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the signing service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db        store.Store
	blobs     blob.Store
	directory identity.Resolver
	sender    delivery.Sender
	verifier  *jwtx.Verifier

	challengeService    *service.ChallengeService
	signatureService    *service.SignatureService
	sealService         *service.SealService
	integrityService    *service.IntegrityService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "signing-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initBlobs(); err != nil {
		return nil, err
	}
	if err := app.initDirectory(); err != nil {
		return nil, err
	}
	app.initDelivery()

	verifier, err := InitVerifier(app.cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token verification: %w", err)
	}
	app.verifier = verifier

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("signing service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down signing service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("signing service stopped")
	return nil
}

// initDatabase initializes the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initBlobs() error {
	blobs, err := blob.NewFSStore(app.cfg.ArtifactDir)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact storage: %w", err)
	}
	app.blobs = blobs
	return nil
}

// initDirectory wires subject lookups. The platform directory is the real
// source; the seed file keeps dev mode self-contained.
func (app *Application) initDirectory() error {
	if app.cfg.DirectoryURL != "" {
		app.directory = identity.NewHTTPResolver(app.cfg.DirectoryURL, app.cfg.DirectoryToken)
		app.logger.Info("subject directory configured", "url", app.cfg.DirectoryURL)
		return nil
	}

	resolver := identity.NewMemoryResolver()
	if app.cfg.DirectorySeedFile != "" {
		raw, err := os.ReadFile(app.cfg.DirectorySeedFile)
		if err != nil {
			return fmt.Errorf("failed to read directory seed file: %w", err)
		}
		var subjects []identity.Subject
		if err := json.Unmarshal(raw, &subjects); err != nil {
			return fmt.Errorf("failed to parse directory seed file: %w", err)
		}
		for _, s := range subjects {
			resolver.Add(s)
		}
		app.logger.Info("subject directory seeded", "subjects", len(subjects))
	} else {
		app.logger.Warn("no directory configured; subject lookups will fail until seeded")
	}
	app.directory = resolver
	return nil
}

func (app *Application) initDelivery() {
	if app.cfg.DeliveryPhoneURL != "" || app.cfg.DeliveryEmailURL != "" {
		app.sender = delivery.NewWebhookSender(
			app.cfg.DeliveryPhoneURL,
			app.cfg.DeliveryEmailURL,
			app.cfg.DeliveryTimeout,
		)
		app.logger.Info("webhook code delivery configured")
		return
	}

	app.sender = &delivery.LogSender{Logger: app.logger}
	app.logger.Warn("no delivery gateway configured; codes will be logged in clear (dev mode)")
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.challengeService = &service.ChallengeService{
		Store:       app.db,
		Directory:   app.directory,
		Sender:      app.sender,
		TTL:         app.cfg.ChallengeTTL,
		MaxAttempts: app.cfg.MaxAttempts,
		CodeLength:  app.cfg.CodeLength,
	}
	app.signatureService = &service.SignatureService{Store: app.db}
	app.sealService = &service.SealService{
		Store:       app.db,
		Blobs:       app.blobs,
		Directory:   app.directory,
		DocumentTTL: app.cfg.DocumentTTL,
	}
	app.integrityService = &service.IntegrityService{
		Store: app.db,
		Blobs: app.blobs,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.blobs,
		app.logger,
	)
	router.ChallengeService = app.challengeService
	router.SignatureService = app.signatureService
	router.SealService = app.sealService
	router.IntegrityService = app.integrityService
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
