package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/conversify/conversify/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"CONVERSIFY_RUNTIME_PATH" envDefault:".conversify"`

	// Response mode used for template lookup and greetings
	Mode string `env:"CONVERSIFY_MODE" envDefault:"casual"`

	// Transport flags
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`
	EnableWeb      bool `env:"ENABLE_WEB" envDefault:"false"`
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`

	// Session state
	MaxHistorySize int `env:"MAX_HISTORY_SIZE" envDefault:"1000"`
	CacheSize      int `env:"RESPONSE_CACHE_SIZE" envDefault:"256"`

	// Sessions with no traffic for this long are marked idle
	IdleTimeoutSeconds int `env:"IDLE_TIMEOUT_SECONDS" envDefault:"300"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "conversify.db")
}

func (c AppConfig) GetTemplatesPath() string {
	return filepath.Join(c.RuntimePath, "templates.yaml")
}

func (c AppConfig) GetExportDir() string {
	return filepath.Join(c.RuntimePath, "exports")
}
