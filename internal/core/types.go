package core

import "time"

const (
	DiscoName    = "DiscoBot"
	DiscoVersion = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MemoryRecord is a single conversational entry. Records are immutable once
// created; metadata on assistant records carries the winning skill name and
// the full score map for the turn.
type MemoryRecord struct {
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata"`
}

// SkillName returns the skill tag stored in metadata, or "" when absent.
func (r MemoryRecord) SkillName() string {
	if r.Metadata == nil {
		return ""
	}
	if s, ok := r.Metadata["skill"].(string); ok {
		return s
	}
	return ""
}

// SkillDecision captures the outcome of one routing pass. It is kept only as
// the orchestrator's last decision for introspection, never persisted.
type SkillDecision struct {
	Skill  string             `json:"skill"`
	Scores map[string]float64 `json:"scores"`
	Prompt string             `json:"prompt"`
}

// TurnResult is what a completed ProcessUserInput call returns to the caller.
type TurnResult struct {
	Reply           string        `json:"reply"`
	Skill           string        `json:"skill"`
	Decision        SkillDecision `json:"decision"`
	UserRecord      MemoryRecord  `json:"user_record"`
	AssistantRecord MemoryRecord  `json:"assistant_record"`
}
