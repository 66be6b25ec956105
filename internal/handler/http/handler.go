package http

import (
	"github.com/Fenner314/chop-list-sub000/internal/config"
	"github.com/Fenner314/chop-list-sub000/internal/hub"
	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/store"
	"github.com/Fenner314/chop-list-sub000/internal/utils"
)

type Handler struct {
	storages *store.Storages
	hub      *hub.Hub
	cfg      *config.ServerConfig
	idGen    *utils.UUIDGenerator

	logger *logger.Logger
}

func NewHandler(storages *store.Storages, hub *hub.Hub, cfg *config.ServerConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		storages: storages,
		hub:      hub,
		cfg:      cfg,
		idGen:    utils.NewUUIDGenerator(),
		logger:   logger,
	}
}
