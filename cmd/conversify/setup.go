package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/conversify/conversify/internal/config"
	"github.com/conversify/conversify/internal/core"
	"github.com/conversify/conversify/internal/providers/nlp"
	"github.com/conversify/conversify/internal/providers/templates"
	"github.com/conversify/conversify/internal/service/cache"
	"github.com/conversify/conversify/internal/service/command"
	"github.com/conversify/conversify/internal/service/engine"
	"github.com/conversify/conversify/internal/service/responder"
	"github.com/conversify/conversify/internal/storage/sqlite"
	"github.com/conversify/conversify/internal/transport/cli"
	"github.com/conversify/conversify/internal/transport/telegram"
	"github.com/conversify/conversify/internal/transport/ws"
	"github.com/conversify/conversify/pkg/log"
	"github.com/conversify/conversify/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	nlpCfg := config.NewNLPConfig(ctx)

	// 2. Storage
	db, messagesRepo, profilesRepo, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. NLP annotator
	annotator, err := nlp.NewAnnotator(nlpCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize annotator")
	}

	// 4. Response templates
	store, err := templates.Load(ctx, appCfg.GetTemplatesPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load response templates")
	}

	// 5. Generator with its response cache
	generator, err := responder.New(store, cache.New(appCfg.CacheSize))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize response generator")
	}

	// 6. Engine
	// Also runs the idle-session watcher as a background service
	eng := engine.New(appCfg, annotator, generator, messagesRepo).WithProfiles(profilesRepo)
	services = append(services, eng)

	// 7. Command surface
	router := command.New(command.NewCommands(appCfg, eng))

	// 8. Transports
	transports, err := initTransports(ctx, appCfg, eng, router)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, core.MessagesRepository, core.ProfilesRepository, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, nil, err
	}
	return db, sqlite.NewMessagesRepo(db), sqlite.NewProfilesRepo(db), nil
}

func initTransports(ctx context.Context, cfg *config.AppConfig, eng *engine.Engine, router core.CmdRouter) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(eng, router, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	if cfg.EnableWeb {
		srvCfg := config.NewServerConfig(ctx)
		services = append(services, ws.NewServer(srvCfg, eng, router))
	}

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, eng, router)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
