package main

import (
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/config"
	"github.com/CAVALEIROS-DO-GUAPORE/capitulo862-sub000/internal/database"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dbCfg := database.FromAppConfig(cfg)
	dbCfg.Debug = true
	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	if err := database.AutoMigrate(db, logger); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	logger.WithField("driver", cfg.DB.Driver).Info("Migrations completed successfully")
}
