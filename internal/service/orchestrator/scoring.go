package orchestrator

import (
	"sort"
	"strings"

	"github.com/sandevgo/discobot/internal/core"
)

// scoreSkills computes the per-skill score for one turn. Every registered
// skill gets a score: configured skills start from base_weight, gain one
// point per keyword hit, then multiply by the transition weight for the
// previous skill and by the priority multiplier; skills without a config
// entry default to a flat 1.0 so nothing is silently excluded.
func scoreSkills(
	registered []string,
	configs map[string]core.SkillConfig,
	matrix core.SelectionMatrix,
	input string,
	lastSkill string,
) map[string]float64 {
	lowered := strings.ToLower(input)
	scores := make(map[string]float64, len(registered))

	for _, name := range registered {
		cfg, ok := configs[name]
		if !ok {
			scores[name] = 1.0
			continue
		}

		score := cfg.BaseWeight
		for _, keyword := range cfg.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				score++
			}
		}

		if lastSkill != "" {
			score *= matrix.TransitionWeight(lastSkill, name)
		}
		score *= matrix.ScoringPriority(name)

		scores[name] = score
	}

	return scores
}

// resolveWinner picks the skill with the maximum score. Ties resolve through
// four deterministic stages, each tried only when the previous yields no
// decision: override rules, strict priority margin between the top two
// candidates, the matrix default skill, and finally the lexicographically
// smallest name.
func resolveWinner(scores map[string]float64, matrix core.SelectionMatrix) string {
	if len(scores) == 0 {
		return ""
	}

	var max float64
	first := true
	for _, score := range scores {
		if first || score > max {
			max = score
			first = false
		}
	}

	tied := make([]string, 0, len(scores))
	for name, score := range scores {
		if score == max {
			tied = append(tied, name)
		}
	}
	sort.Strings(tied)

	if len(tied) == 1 {
		return tied[0]
	}

	if winner, ok := resolveByOverride(tied, matrix); ok {
		return winner
	}
	if winner, ok := resolveByPriority(tied, matrix); ok {
		return winner
	}
	for _, name := range tied {
		if name == matrix.DefaultSkill {
			return name
		}
	}
	return tied[0]
}

// resolveByOverride fires when a tied candidate's override list names
// another tied candidate; the first such candidate in iteration order wins.
func resolveByOverride(tied []string, matrix core.SelectionMatrix) (string, bool) {
	tiedSet := make(map[string]bool, len(tied))
	for _, name := range tied {
		tiedSet[name] = true
	}

	for _, name := range tied {
		rule, ok := matrix.ConflictResolution[name]
		if !ok {
			continue
		}
		for _, other := range rule.Overrides {
			if other != name && tiedSet[other] {
				return name, true
			}
		}
	}
	return "", false
}

// resolveByPriority orders tied candidates by descending priority and picks
// the top one only when it strictly beats the runner-up. A flat tie at the
// top yields no decision.
func resolveByPriority(tied []string, matrix core.SelectionMatrix) (string, bool) {
	ordered := append([]string(nil), tied...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return matrix.TieBreakPriority(ordered[i]) > matrix.TieBreakPriority(ordered[j])
	})

	top, second := ordered[0], ordered[1]
	if matrix.TieBreakPriority(top) > matrix.TieBreakPriority(second) {
		return top, true
	}
	return "", false
}
