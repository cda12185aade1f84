package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/conversify/conversify/pkg/log"
)

type NLPConfig struct {
	// "lexicon" runs the in-process annotator, "remote" calls an external
	// model server over HTTP
	Provider string `env:"NLP_PROVIDER" envDefault:"lexicon"`

	RemoteURL      string `env:"NLP_REMOTE_URL"`
	TimeoutSeconds int    `env:"NLP_TIMEOUT_SECONDS" envDefault:"30"`
	MaxRetries     int    `env:"NLP_MAX_RETRIES" envDefault:"3"`
}

func NewNLPConfig(ctx context.Context) *NLPConfig {
	c := &NLPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse NLP config")
	}
	return c
}

func (c NLPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
