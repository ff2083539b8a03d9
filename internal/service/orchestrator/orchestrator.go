package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/discobot/internal/core"
	"github.com/sandevgo/discobot/internal/providers/llm"
	"github.com/sandevgo/discobot/internal/service/memory"
	"github.com/sandevgo/discobot/internal/service/skills"
	"github.com/sandevgo/discobot/pkg/log"
)

var (
	// ErrEmptyInput rejects blank user input before any state mutation.
	ErrEmptyInput = errors.New("user input must not be empty")
	// ErrNoSkills means construction found nothing to route to.
	ErrNoSkills = errors.New("no skills registered")
)

const (
	defaultHistoryLimit = 6
	longTermLimit       = 3
)

// Orchestrator routes each user utterance to one configured skill. Designed
// for a single active conversation: callers needing concurrent conversations
// run one orchestrator (and one memory manager) per conversation.
type Orchestrator struct {
	memory       *memory.Manager
	gen          core.Generator
	configs      map[string]core.SkillConfig
	matrix       core.SelectionMatrix
	skills       map[string]core.Skill
	skillNames   []string
	historyLimit int

	turnHistory  []string
	lastDecision *core.SkillDecision
	// processing is diagnostics only, never a correctness gate
	processing bool
}

type Options struct {
	SkillConfigDir string
	MatrixPath     string
	HistoryLimit   int
	Registry       *skills.Registry
}

// New loads skill configuration and the selection matrix, instantiates one
// skill per loaded config, and wires the memory manager and generation
// adapter. At least one skill must load; per-skill failures are logged and
// skipped.
func New(ctx context.Context, mem *memory.Manager, gen core.Generator, opts Options) (*Orchestrator, error) {
	logger := log.FromCtx(ctx)

	registry := opts.Registry
	if registry == nil {
		registry = skills.DefaultRegistry()
	}
	historyLimit := opts.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	configs := LoadSkillConfigs(ctx, opts.SkillConfigDir)

	instantiated := make(map[string]core.Skill, len(configs))
	for name, cfg := range configs {
		skill, err := registry.Build(cfg, gen)
		if err != nil {
			logger.Warn().Err(err).Str("skill", name).Msg("skipping skill that failed to instantiate")
			continue
		}
		instantiated[name] = skill
	}
	if len(instantiated) == 0 {
		return nil, ErrNoSkills
	}

	names := make([]string, 0, len(instantiated))
	for name := range instantiated {
		names = append(names, name)
	}
	sort.Strings(names)

	matrix := LoadMatrix(ctx, opts.MatrixPath, configs)

	logger.Info().Strs("skills", names).Str("default", matrix.DefaultSkill).Msg("orchestrator ready")

	return &Orchestrator{
		memory:       mem,
		gen:          gen,
		configs:      configs,
		matrix:       matrix,
		skills:       instantiated,
		skillNames:   names,
		historyLimit: historyLimit,
	}, nil
}

// ProcessUserInput runs one complete turn: record the user message, score
// every skill, resolve the winner, invoke it, record the reply.
func (o *Orchestrator) ProcessUserInput(ctx context.Context, text string) (core.TurnResult, error) {
	logger := log.FromCtx(ctx)

	if o.processing {
		logger.Debug().Msg("re-entrant ProcessUserInput call")
	}
	o.processing = true
	defer func() { o.processing = false }()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return core.TurnResult{}, ErrEmptyInput
	}

	persist := o.memory.HasLongTerm()

	userRecord, err := o.memory.AddMessage(ctx, core.RoleUser, trimmed, nil, persist)
	if err != nil {
		return core.TurnResult{}, fmt.Errorf("failed to record user message: %w", err)
	}

	recent := o.memory.Recent(o.historyLimit)
	longTerm, err := o.memory.SearchLongTerm(ctx, trimmed, longTermLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("long-term search failed, continuing without it")
		longTerm = nil
	}

	lastSkill := o.lastSkill()
	scores := scoreSkills(o.skillNames, o.configs, o.matrix, trimmed, lastSkill)
	winner := resolveWinner(scores, o.matrix)

	logger.Debug().
		Str("winner", winner).
		Str("last", lastSkill).
		Str("scores", llm.FormatScores(scores)).
		Msg("skill resolved")

	recentDialogue := llm.FormatDialogue(recent)
	orchestratorPrompt := llm.FormatOrchestratorPrompt(
		recentDialogue,
		trimmed,
		o.skillDescriptions(),
		lastSkill,
		llm.FormatScores(scores),
		llm.FormatDialogue(longTerm),
	)

	winnerCfg := o.configs[winner]
	persona := winnerCfg.Persona
	if persona == "" {
		persona = winner
	}
	skillPrompt := llm.FormatSkillPrompt(
		winner, persona, winnerCfg.Style, recentDialogue, trimmed, orchestratorPrompt)

	turn := core.TurnContext{
		RecentMessages:     recent,
		LongTermContext:    longTerm,
		UserInput:          trimmed,
		LastSkill:          lastSkill,
		TurnHistory:        append([]string(nil), o.turnHistory...),
		Scores:             scores,
		OrchestratorPrompt: orchestratorPrompt,
		SkillPrompt:        skillPrompt,
	}

	reply, err := o.skills[winner].GenerateResponse(ctx, turn)
	if err != nil {
		return core.TurnResult{}, fmt.Errorf("skill %q failed: %w", winner, err)
	}

	assistantRecord, err := o.memory.AddMessage(ctx, core.RoleAssistant, reply, map[string]any{
		"skill":  winner,
		"scores": scores,
	}, persist)
	if err != nil {
		return core.TurnResult{}, fmt.Errorf("failed to record assistant message: %w", err)
	}

	o.turnHistory = append(o.turnHistory, winner)
	decision := core.SkillDecision{Skill: winner, Scores: scores, Prompt: skillPrompt}
	o.lastDecision = &decision

	return core.TurnResult{
		Reply:           reply,
		Skill:           winner,
		Decision:        decision,
		UserRecord:      userRecord,
		AssistantRecord: assistantRecord,
	}, nil
}

// Reset returns the orchestrator to its post-construction state: short-term
// memory, turn history and last decision are dropped, long-term storage is
// untouched.
func (o *Orchestrator) Reset() {
	o.memory.Clear()
	o.turnHistory = nil
	o.lastDecision = nil
}

// LastDecision returns the routing outcome of the most recent turn.
func (o *Orchestrator) LastDecision() (core.SkillDecision, bool) {
	if o.lastDecision == nil {
		return core.SkillDecision{}, false
	}
	return *o.lastDecision, true
}

// TurnHistory returns the winning skill name of every completed turn.
func (o *Orchestrator) TurnHistory() []string {
	return append([]string(nil), o.turnHistory...)
}

// SkillNames lists registered skills in lexicographic order.
func (o *Orchestrator) SkillNames() []string {
	return append([]string(nil), o.skillNames...)
}

// Memory exposes the memory manager for transports (history views).
func (o *Orchestrator) Memory() *memory.Manager {
	return o.memory
}

func (o *Orchestrator) lastSkill() string {
	if len(o.turnHistory) == 0 {
		return ""
	}
	return o.turnHistory[len(o.turnHistory)-1]
}

func (o *Orchestrator) skillDescriptions() string {
	lines := make([]string, 0, len(o.skillNames))
	for _, name := range o.skillNames {
		cfg, ok := o.configs[name]
		if !ok || cfg.Persona == "" {
			lines = append(lines, "- "+name)
			continue
		}
		lines = append(lines, "- "+name+": "+cfg.Persona)
	}
	return strings.Join(lines, "\n")
}
