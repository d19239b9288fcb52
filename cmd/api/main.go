package main

import (
	"context"

	"github.com/grandguard/budget-service/internal/app"
	"github.com/grandguard/budget-service/internal/config"
	"github.com/grandguard/budget-service/internal/di"
	"github.com/grandguard/budget-service/internal/errors"
	"github.com/grandguard/budget-service/internal/infrastructure/api/routers"
	"github.com/grandguard/budget-service/internal/infrastructure/database/db_client"
	"github.com/grandguard/budget-service/pkg/log"
)

const (
	appName = "grandguard-budget"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	log.Init(appName, log.WithConsoleLogger())
	logger := log.GetLogger()

	pgClient := db_client.NewPGClient(cfg.PostgreSQL)
	db, err := pgClient.Connect()
	if err != nil {
		logger.Fatal().Err(err).Msg(errors.ErrorFailedToConnectToTheDatabase)
	}

	container, err := di.NewContainer(db, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build container")
	}

	router := routers.NewRouter(container)
	service := app.NewService(cfg)
	service.Run(ctx, router)
}
