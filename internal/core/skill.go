package core

import "context"

// TurnContext is everything a skill can see for one turn.
type TurnContext struct {
	RecentMessages     []MemoryRecord
	LongTermContext    []MemoryRecord
	UserInput          string
	LastSkill          string
	TurnHistory        []string
	Scores             map[string]float64
	OrchestratorPrompt string
	SkillPrompt        string
	ExtraGuidance      string
}

// Skill is a pluggable responder capable of producing assistant text for a
// turn. Implementations carry no mutable per-turn state; everything they need
// arrives in the TurnContext.
type Skill interface {
	Name() string
	GenerateResponse(ctx context.Context, turn TurnContext) (string, error)
}

// Generator is the text-generation adapter. Implementations must always
// return some text: remote failures are absorbed by a deterministic offline
// fallback, so callers treat this as a blocking, always-returning source.
type Generator interface {
	Generate(ctx context.Context, prompt string, params map[string]any) string
}
