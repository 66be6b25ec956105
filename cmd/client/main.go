package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Fenner314/chop-list-sub000/internal/adapter"
	"github.com/Fenner314/chop-list-sub000/internal/config"
	"github.com/Fenner314/chop-list-sub000/internal/identity"
	"github.com/Fenner314/chop-list-sub000/internal/localstore"
	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/service"
	"github.com/Fenner314/chop-list-sub000/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		logger.NewLogger("choplist-client").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("choplist-client")
	if cfg.Storage.LogPath != "" {
		log = logger.NewFileLogger("choplist-client", cfg.Storage.LogPath)
	}

	store, err := localstore.Open(cfg.Storage.StorePath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error opening local store")
	}

	// without a server address the device runs purely local
	if cfg.Adapter.HTTPAddress == "" {
		log.Info().Msg("no space server configured, staying local")
		waitForShutdown(log)
		return
	}

	repo, err := adapter.NewHTTPSpaceRepository(adapter.HTTPConfig{
		BaseURL: cfg.Adapter.HTTPAddress,
		Timeout: cfg.Adapter.RequestTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating space repository")
	}

	users := identity.NewHTTPProvider(identity.HTTPConfig{
		BaseURL: cfg.Adapter.HTTPAddress,
		Timeout: cfg.Adapter.RequestTimeout,
	}, log)

	interceptor := service.NewChangeInterceptor(repo, log)
	store.AddInterceptor(interceptor)

	orch := service.NewOrchestrator(repo, store, log)
	manager := service.NewSharingManager(repo, store, users, orch, interceptor,
		func(message string) { log.Info().Str("notice", message).Msg("user notice") }, log)
	manager.Attach()
	defer manager.Detach()

	ctx := context.Background()
	authUnsub := users.OnAuthStateChanged(func(u *models.User) {
		if u == nil {
			// the sharing manager resets sync state on sign-out
			return
		}

		repo.SetToken(users.Token())
		interceptor.SetActor(u.ID)
		if err := orch.SetUser(ctx, u.ID); err != nil {
			log.Err(err).Msg("binding sync user failed")
			return
		}

		// re-establish the previous session's space binding, if any
		settings := store.State().Settings
		if settings.SharingEnabled && settings.CurrentSpaceID != "" {
			if err := orch.StartSync(ctx, settings.CurrentSpaceID); err != nil {
				log.Err(err).Str("space", settings.CurrentSpaceID).Msg("resuming space sync failed")
			}
		}
	})
	defer authUnsub()

	waitForShutdown(log)

	orch.StopSync()
	interceptor.Flush()
}

func waitForShutdown(log *logger.Logger) {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	<-ctx.Done()
	log.Info().Msg("client Shutdown gracefully")
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
