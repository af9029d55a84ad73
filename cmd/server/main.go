package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/auth"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/config"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/database"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/imaging"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/server"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/service"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/storage"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/templates"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideDatabase,
			storage.NewStorageFromConfig,
			provideTemplates,
			provideFetcher,
			providePolicy,
			provideAuthenticator,
			service.NewRegistry,
			provideAssembler,
			provideReports,
			fx.Annotate(server.NewServer, fx.As(new(server.HTTPServer))),
		),
		fx.Invoke(registerLifecycleHooks),
		fx.NopLogger,
	)

	runWithGracefulShutdown(app)
}

func provideConfig() (config.Config, error) {
	return config.Load()
}

// provideLogger builds the logger from the logging section
func provideLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
		logger.WithError(err).Warn("Invalid log level, using info")
	}
	logger.SetLevel(level)

	switch cfg.Logging.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	logger.WithField("config", cfg.String()).Info("Starting chapter service")
	return logger
}

func provideDatabase(cfg config.Config, logger *logrus.Logger, lc fx.Lifecycle) (*gorm.DB, error) {
	dbCfg := database.FromAppConfig(cfg)
	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db, logger); err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

func provideTemplates(cfg config.Config, st storage.Storage, logger *logrus.Logger) *templates.Store {
	return templates.NewStore(st, cfg.Templates, logger)
}

func provideFetcher(cfg config.Config, logger *logrus.Logger) service.ImageFetcher {
	return imaging.NewFetcher(cfg.Signatures.FetchTimeout, logger)
}

func providePolicy() auth.Policy {
	return auth.DefaultPolicy
}

func provideAuthenticator(cfg config.Config, db *gorm.DB) auth.Authenticator {
	return auth.NewJWTProvider(cfg.Auth, auth.NewGormProfiles(db))
}

func provideAssembler(cfg config.Config, db *gorm.DB, fetcher service.ImageFetcher, logger *logrus.Logger) *service.Assembler {
	return service.NewAssembler(db, fetcher, cfg.Chapter, logger)
}

func provideReports(
	cfg config.Config,
	db *gorm.DB,
	store *templates.Store,
	assembler *service.Assembler,
	st storage.Storage,
	policy auth.Policy,
	logger *logrus.Logger,
) *service.ReportService {
	return service.NewReportService(db, store, assembler, st, policy, service.ReportConfig{
		Chapter:    cfg.Chapter,
		Documents:  cfg.Documents,
		Signatures: cfg.Signatures,
	}, logger)
}

// registerLifecycleHooks starts and stops the HTTP server with the app
func registerLifecycleHooks(
	srv server.HTTPServer,
	cfg config.Config,
	logger *logrus.Logger,
	lc fx.Lifecycle,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(cfg.Server.Address); err != nil {
					logger.WithError(err).Error("HTTP server stopped unexpectedly")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// runWithGracefulShutdown runs the app until SIGINT or SIGTERM
func runWithGracefulShutdown(app *fx.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	startCtx, startCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer startCancel()

	if err := app.Start(startCtx); err != nil {
		logrus.WithError(err).Fatal("Failed to start application")
	}

	<-quit
	logrus.Info("Shutdown signal received")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		logrus.WithError(err).Error("Failed to stop application cleanly")
		os.Exit(1)
	}

	logrus.Info("Chapter service stopped")
}
