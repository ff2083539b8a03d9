package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sandevgo/discobot/internal/config"
	"github.com/sandevgo/discobot/internal/core"
	"github.com/sandevgo/discobot/internal/providers/llm"
	"github.com/sandevgo/discobot/internal/service/memory"
	"github.com/sandevgo/discobot/internal/service/orchestrator"
	"github.com/sandevgo/discobot/internal/storage/sqlite"
	"github.com/sandevgo/discobot/pkg/log"
	"github.com/sandevgo/discobot/pkg/srv"
)

// assistant bundles everything a transport needs: the configured
// orchestrator, a factory for fresh per-conversation engines, and the
// cleanup services that must run at shutdown.
type assistant struct {
	cfg      *config.AppConfig
	profile  config.Profile
	orch     *orchestrator.Orchestrator
	factory  func(ctx context.Context) (*orchestrator.Orchestrator, error)
	cleanups []srv.Service
}

func newAssistant(ctx context.Context) *assistant {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	openaiCfg := config.NewOpenAIConfig(ctx)

	prof := loadProfile(ctx, appCfg)
	if model := config.StringPath(prof, "openai.model", ""); model != "" {
		openaiCfg.Model = model
	}

	a := &assistant{cfg: appCfg, profile: prof}

	// Long-term memory is optional; without it the assistant still works
	// off the short-term buffer.
	longTerm := core.NoLongTerm()
	if appCfg.EnableLongTerm {
		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		longTerm = core.SomeLongTerm(sqlite.NewInteractionsRepo(db))
		a.cleanups = append(a.cleanups, srv.NewCleanup(db.Close))
	}

	gen := llm.NewClient(openaiCfg)
	historyLimit := intPath(prof, "memory.history_limit", appCfg.HistoryLimit)
	shortTermSize := intPath(prof, "memory.short_term_size", appCfg.ShortTermSize)

	newOrchestrator := func(ctx context.Context) (*orchestrator.Orchestrator, error) {
		mem := memory.NewManager(memory.NewShortTerm(shortTermSize), longTerm)
		return orchestrator.New(ctx, mem, gen, orchestrator.Options{
			SkillConfigDir: appCfg.GetSkillConfigDir(),
			MatrixPath:     appCfg.GetMatrixPath(),
			HistoryLimit:   historyLimit,
		})
	}

	orch, err := newOrchestrator(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build orchestrator; run 'disco init' first")
	}
	a.orch = orch
	a.factory = newOrchestrator

	return a
}

var errCLIDisabled = errors.New("interactive chat is disabled, set ENABLE_CLI=true to enable it")

// ensureCLIEnabled guards the interactive transport behind the ENABLE_CLI
// toggle, so headless deployments cannot be dropped into a readline loop.
func ensureCLIEnabled(cfg *config.AppConfig) error {
	if !cfg.EnableCLI {
		return errCLIDisabled
	}
	return nil
}

func loadProfile(ctx context.Context, cfg *config.AppConfig) config.Profile {
	logger := log.FromCtx(ctx)

	name := profile
	if name == "" {
		name = cfg.Profile
	}

	prof, err := config.LoadProfile(name, cfg.GetProfilesDir(), config.EnvironSnapshot())
	if err != nil {
		logger.Warn().Err(err).Str("profile", name).Msg("profile not loaded, using built-in defaults")
		return config.Profile{}
	}

	logger.Debug().Str("profile", name).Msg("profile loaded")
	return prof
}

func intPath(prof config.Profile, path string, fallback int) int {
	raw := config.StringPath(prof, path, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
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
