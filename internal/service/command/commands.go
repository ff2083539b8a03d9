package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/discobot/internal/providers/llm"
	"github.com/sandevgo/discobot/internal/service/orchestrator"
)

// ResetCommand clears the conversation state.
type ResetCommand struct {
	orch *orchestrator.Orchestrator
}

func NewResetCommand(orch *orchestrator.Orchestrator) *ResetCommand {
	return &ResetCommand{orch: orch}
}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Description() string { return "Clear short-term memory and turn history" }

func (c *ResetCommand) Execute(ctx context.Context, args []string) (string, error) {
	c.orch.Reset()
	return "Conversation reset.", nil
}

// HistoryCommand shows the recent short-term buffer.
type HistoryCommand struct {
	orch *orchestrator.Orchestrator
}

func NewHistoryCommand(orch *orchestrator.Orchestrator) *HistoryCommand {
	return &HistoryCommand{orch: orch}
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show recent conversation records" }

func (c *HistoryCommand) Execute(ctx context.Context, args []string) (string, error) {
	records := c.orch.Memory().Recent(0)
	if len(records) == 0 {
		return "No conversation yet.", nil
	}
	return llm.FormatDialogue(records), nil
}

// SkillsCommand lists registered skills.
type SkillsCommand struct {
	orch *orchestrator.Orchestrator
}

func NewSkillsCommand(orch *orchestrator.Orchestrator) *SkillsCommand {
	return &SkillsCommand{orch: orch}
}

func (c *SkillsCommand) Name() string        { return "skills" }
func (c *SkillsCommand) Description() string { return "List registered skills" }

func (c *SkillsCommand) Execute(ctx context.Context, args []string) (string, error) {
	return strings.Join(c.orch.SkillNames(), ", "), nil
}

// LastCommand shows the last routing decision.
type LastCommand struct {
	orch *orchestrator.Orchestrator
}

func NewLastCommand(orch *orchestrator.Orchestrator) *LastCommand {
	return &LastCommand{orch: orch}
}

func (c *LastCommand) Name() string        { return "last" }
func (c *LastCommand) Description() string { return "Show the last skill decision and its scores" }

func (c *LastCommand) Execute(ctx context.Context, args []string) (string, error) {
	decision, ok := c.orch.LastDecision()
	if !ok {
		return "No decision yet.", nil
	}
	return fmt.Sprintf("skill: %s\nscores: %s", decision.Skill, llm.FormatScores(decision.Scores)), nil
}
