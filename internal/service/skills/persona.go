package skills

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/discobot/internal/core"
	"github.com/sandevgo/discobot/internal/providers/llm"
)

const defaultTemperature = 0.7

// PersonaSkill is a configuration-driven skill: persona and style come from
// its config entry, text generation is delegated to the adapter. It holds no
// per-turn state.
type PersonaSkill struct {
	name        string
	cfg         core.SkillConfig
	gen         core.Generator
	modelParams map[string]any
}

func NewPersonaSkill(cfg core.SkillConfig, gen core.Generator) (*PersonaSkill, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("skill config has no name")
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}

	params := make(map[string]any, len(cfg.ModelParams)+1)
	for k, v := range cfg.ModelParams {
		params[k] = v
	}
	if _, ok := params["temperature"]; !ok {
		params["temperature"] = temperature
	}

	return &PersonaSkill{
		name:        cfg.Name,
		cfg:         cfg,
		gen:         gen,
		modelParams: params,
	}, nil
}

func (s *PersonaSkill) Name() string {
	return s.name
}

func (s *PersonaSkill) GenerateResponse(ctx context.Context, turn core.TurnContext) (string, error) {
	guidance := turn.OrchestratorPrompt
	if extra := s.selectGuidance(turn); extra != "" {
		guidance = strings.TrimSpace(guidance + "\nAdditional guidance: " + extra)
	}

	persona := s.cfg.Persona
	if persona == "" {
		persona = s.name
	}

	prompt := llm.FormatSkillPrompt(
		s.name,
		persona,
		s.cfg.Style,
		llm.FormatDialogue(turn.RecentMessages),
		turn.UserInput,
		guidance,
	)

	return s.gen.Generate(ctx, prompt, s.modelParams), nil
}

// selectGuidance prefers the per-call override from the turn context over
// the configured response preamble.
func (s *PersonaSkill) selectGuidance(turn core.TurnContext) string {
	if extra := strings.TrimSpace(turn.ExtraGuidance); extra != "" {
		return extra
	}
	return s.cfg.ResponsePreamble
}

// ModelParams exposes the merged generation parameters, for introspection.
func (s *PersonaSkill) ModelParams() map[string]any {
	out := make(map[string]any, len(s.modelParams))
	for k, v := range s.modelParams {
		out[k] = v
	}
	return out
}
