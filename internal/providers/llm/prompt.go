package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/discobot/internal/core"
)

const orchestratorPromptTemplate = `You are the dialogue orchestrator coordinating a team of specialised skills.
Conversation history:
%s

Latest user input: %s
Available skills:
%s

Last responding skill: %s
Current scoring matrix: %s

Relevant memories:
%s

Provide guidance for the next response keeping role boundaries clear.`

const skillPromptTemplate = `You are acting as the %q persona.
Persona description: %s
Communication style: %s

Conversation history:
%s

User input to address: %s

Strategy guidance from orchestrator:
%s

Craft a response that fits the persona while respecting the guidance.`

// FormatOrchestratorPrompt renders the orchestrator guidance text. Pure
// templating, no generation call.
func FormatOrchestratorPrompt(recentDialogue, userInput, skillDescriptions, lastSkill, skillScores, longTermContext string) string {
	if lastSkill == "" {
		lastSkill = "none"
	}
	return fmt.Sprintf(orchestratorPromptTemplate,
		recentDialogue, userInput, skillDescriptions, lastSkill, skillScores, longTermContext)
}

// FormatSkillPrompt renders the per-skill prompt for one turn.
func FormatSkillPrompt(skillName, persona, style, recentDialogue, userInput, guidance string) string {
	return fmt.Sprintf(skillPromptTemplate,
		skillName, persona, style, recentDialogue, userInput, guidance)
}

// FormatDialogue renders records one line each, in chronological order:
// timestamp, role, optional parenthetical skill tag, content.
func FormatDialogue(records []core.MemoryRecord) string {
	lines := make([]string, 0, len(records))
	for _, record := range records {
		line := fmt.Sprintf("[%s] %s", record.Timestamp.Format("2006-01-02 15:04:05"), record.Role)
		if skill := record.SkillName(); skill != "" {
			line += " (" + skill + ")"
		}
		lines = append(lines, line+": "+record.Content)
	}
	return strings.Join(lines, "\n")
}

// FormatScores serializes a score map deterministically, skills in
// lexicographic order.
func FormatScores(scores map[string]float64) string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.2f", name, scores[name]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
