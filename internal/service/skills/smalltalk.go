package skills

import (
	"context"
	"strings"

	"github.com/sandevgo/discobot/internal/core"
)

var defaultGreetings = []string{"hi", "hello", "hey"}

// SmallTalkSkill is the rule-based variant: it pattern-matches the literal
// input and answers with fixed replies, never calling the adapter. A missing
// match is a normal absence of result, not an error.
type SmallTalkSkill struct {
	name      string
	greetings []string
}

func NewSmallTalkSkill(cfg core.SkillConfig, _ core.Generator) (*SmallTalkSkill, error) {
	name := cfg.Name
	if name == "" {
		name = "small_talk"
	}
	greetings := cfg.Keywords
	if len(greetings) == 0 {
		greetings = defaultGreetings
	}
	lowered := make([]string, len(greetings))
	for i, g := range greetings {
		lowered[i] = strings.ToLower(g)
	}
	return &SmallTalkSkill{name: name, greetings: lowered}, nil
}

func (s *SmallTalkSkill) Name() string {
	return s.name
}

// Respond returns a reply and true when the input matches a rule, or
// ("", false) when the skill does not apply.
func (s *SmallTalkSkill) Respond(input string) (string, bool) {
	lowered := strings.ToLower(input)
	if strings.Contains(lowered, "thank") {
		return "You're welcome!", true
	}
	for _, greeting := range s.greetings {
		if strings.Contains(lowered, greeting) {
			return "Hello! How can I help you today?", true
		}
	}
	return "", false
}

func (s *SmallTalkSkill) GenerateResponse(ctx context.Context, turn core.TurnContext) (string, error) {
	if reply, ok := s.Respond(turn.UserInput); ok {
		return reply, nil
	}
	return "I'm listening. Tell me more.", nil
}
