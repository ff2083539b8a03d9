package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sandevgo/discobot/internal/core"
	"github.com/sandevgo/discobot/pkg/log"
	"gopkg.in/yaml.v3"
)

// LoadSkillConfigs reads every structured document in dir, keyed by file stem
// = skill name. A file that cannot be read or parsed is skipped with a
// warning; the rest of the set still loads.
func LoadSkillConfigs(ctx context.Context, dir string) map[string]core.SkillConfig {
	logger := log.FromCtx(ctx)
	configs := make(map[string]core.SkillConfig)

	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("skill config directory unreadable")
		return configs
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		cfg, err := loadSkillConfig(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn().Err(err).Str("skill", name).Msg("skipping malformed skill config")
			continue
		}

		// The file stem is authoritative for the skill name.
		cfg.Name = name
		configs[name] = cfg
	}

	return configs
}

func loadSkillConfig(path string) (core.SkillConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return core.SkillConfig{}, err
	}

	var cfg core.SkillConfig
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return core.SkillConfig{}, fmt.Errorf("invalid json: %w", err)
		}
	} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return core.SkillConfig{}, fmt.Errorf("invalid yaml: %w", err)
	}

	if cfg.BaseWeight < 0 {
		return core.SkillConfig{}, fmt.Errorf("base_weight must be non-negative, got %v", cfg.BaseWeight)
	}
	if cfg.BaseWeight == 0 {
		cfg.BaseWeight = 1.0
	}
	return cfg, nil
}

// LoadMatrix reads the selection matrix document. A missing or malformed
// file degrades to an all-defaults matrix (default skill = first configured
// skill name, everything else empty) instead of failing construction.
func LoadMatrix(ctx context.Context, path string, configs map[string]core.SkillConfig) core.SelectionMatrix {
	logger := log.FromCtx(ctx)

	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("skill matrix unavailable, using defaults")
		return defaultMatrix(configs)
	}

	var matrix core.SelectionMatrix
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &matrix)
	} else {
		err = yaml.Unmarshal(raw, &matrix)
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("skill matrix malformed, using defaults")
		return defaultMatrix(configs)
	}

	if err := validateMatrix(matrix); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("skill matrix invalid, using defaults")
		return defaultMatrix(configs)
	}

	return matrix
}

// validateMatrix rejects negative multipliers. Scores start non-negative
// and stay that way only if every priority and transition weight is >= 0.
func validateMatrix(matrix core.SelectionMatrix) error {
	for skill, priority := range matrix.Priorities {
		if priority < 0 {
			return fmt.Errorf("priority for %q must be non-negative, got %v", skill, priority)
		}
	}
	for prev, row := range matrix.TransitionWeights {
		for next, weight := range row {
			if weight < 0 {
				return fmt.Errorf("transition weight %s->%s must be non-negative, got %v", prev, next, weight)
			}
		}
	}
	return nil
}

func defaultMatrix(configs map[string]core.SkillConfig) core.SelectionMatrix {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	matrix := core.SelectionMatrix{
		Priorities:         map[string]float64{},
		TransitionWeights:  map[string]map[string]float64{},
		ConflictResolution: map[string]core.OverrideRule{},
	}
	if len(names) > 0 {
		matrix.DefaultSkill = names[0]
	}
	return matrix
}
