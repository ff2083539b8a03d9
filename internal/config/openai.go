package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/discobot/pkg/log"
)

type OpenAIConfig struct {
	// APIKey may be empty: the adapter then runs in deterministic
	// offline-fallback mode instead of calling the remote service.
	APIKey  string `env:"OPENAI_API_KEY"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com"`
}

func NewOpenAIConfig(ctx context.Context) *OpenAIConfig {
	c := &OpenAIConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse OpenAI config")
	}
	return c
}
