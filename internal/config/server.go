package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/conversify/conversify/pkg/log"
)

type ServerConfig struct {
	ListenAddr string `env:"WEB_LISTEN_ADDR" envDefault:":8800"`

	// Origin checking is off by default; the server is meant to sit behind a
	// local reverse proxy in production
	AllowedOrigin string `env:"WEB_ALLOWED_ORIGIN"`
}

func NewServerConfig(ctx context.Context) *ServerConfig {
	c := &ServerConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Server config")
	}
	return c
}
