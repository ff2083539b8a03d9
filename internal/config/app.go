package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/discobot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"DISCO_RUNTIME_PATH" envDefault:".discobot"`
	Profile     string `env:"DISCO_PROFILE" envDefault:"work"`

	// Transport flags
	EnableCLI bool   `env:"ENABLE_CLI" envDefault:"true"`
	HTTPAddr  string `env:"DISCO_HTTP_ADDR" envDefault:":8600"`

	// Memory management
	ShortTermSize int `env:"SHORT_TERM_SIZE" envDefault:"20"`
	HistoryLimit  int `env:"HISTORY_LIMIT" envDefault:"6"`

	// Long-term memory toggle; when disabled the assistant runs with the
	// short-term buffer only.
	EnableLongTerm bool `env:"ENABLE_LONG_TERM" envDefault:"true"`
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
	return filepath.Join(c.RuntimePath, "memory.db")
}

func (c AppConfig) GetProfilesDir() string {
	return filepath.Join(c.RuntimePath, "profiles")
}

func (c AppConfig) GetSkillConfigDir() string {
	return filepath.Join(c.RuntimePath, "skills")
}

func (c AppConfig) GetMatrixPath() string {
	return filepath.Join(c.RuntimePath, "skill_matrix.yaml")
}
