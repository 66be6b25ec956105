package main

import (
	"fmt"

	"github.com/Fenner314/chop-list-sub000/internal/config"
	handler "github.com/Fenner314/chop-list-sub000/internal/handler/http"
	"github.com/Fenner314/chop-list-sub000/internal/hub"
	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/server"
	"github.com/Fenner314/chop-list-sub000/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("choplist-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Str("address", cfg.HTTPAddress).Str("dsn", cfg.DatabaseDSN).Msg("received configs")

	db, err := store.NewSQLiteDB(cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error migrating database")
	}

	storages, err := store.NewStorages(db, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	watchHub := hub.NewHub(log)
	handlers := handler.NewHandler(storages, watchHub, cfg, log)

	srv, err := server.NewServer(handlers.Init(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
