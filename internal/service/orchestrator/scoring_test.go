package orchestrator

import (
	"testing"

	"github.com/sandevgo/discobot/internal/core"
)

func matrixWith(mutate func(*core.SelectionMatrix)) core.SelectionMatrix {
	m := core.SelectionMatrix{
		Priorities:         map[string]float64{},
		TransitionWeights:  map[string]map[string]float64{},
		ConflictResolution: map[string]core.OverrideRule{},
	}
	if mutate != nil {
		mutate(&m)
	}
	return m
}

func TestScoreSkills_KeywordHitsAddToBaseWeight(t *testing.T) {
	configs := map[string]core.SkillConfig{
		"logic": {Name: "logic", BaseWeight: 1.0, Keywords: []string{"plan", "logic"}},
		"drama": {Name: "drama", BaseWeight: 1.0, Keywords: []string{"story"}},
	}
	matrix := matrixWith(nil)

	scores := scoreSkills([]string{"drama", "logic"}, configs, matrix,
		"We should plan our next steps logically.", "")

	if scores["logic"] != 3.0 {
		t.Errorf("logic score = %v, want 3.0 (base 1 + 2 keyword hits)", scores["logic"])
	}
	if scores["drama"] != 1.0 {
		t.Errorf("drama score = %v, want 1.0", scores["drama"])
	}
}

func TestScoreSkills_KeywordMatchIsCaseInsensitive(t *testing.T) {
	configs := map[string]core.SkillConfig{
		"drama": {Name: "drama", BaseWeight: 1.0, Keywords: []string{"STORY"}},
	}

	scores := scoreSkills([]string{"drama"}, configs, matrixWith(nil), "Tell me a Story!", "")
	if scores["drama"] != 2.0 {
		t.Errorf("drama score = %v, want 2.0", scores["drama"])
	}
}

func TestScoreSkills_TransitionWeightAppliesOnlyAfterFirstTurn(t *testing.T) {
	configs := map[string]core.SkillConfig{
		"drama": {Name: "drama", BaseWeight: 1.0},
	}
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.TransitionWeights = map[string]map[string]float64{
			"logic": {"drama": 3.0},
		}
	})

	noHistory := scoreSkills([]string{"drama"}, configs, matrix, "anything", "")
	if noHistory["drama"] != 1.0 {
		t.Errorf("first turn drama score = %v, want 1.0", noHistory["drama"])
	}

	afterLogic := scoreSkills([]string{"drama"}, configs, matrix, "anything", "logic")
	if afterLogic["drama"] != 3.0 {
		t.Errorf("post-logic drama score = %v, want 3.0", afterLogic["drama"])
	}
}

func TestScoreSkills_PriorityMultiplierDefaultsToOne(t *testing.T) {
	configs := map[string]core.SkillConfig{
		"logic": {Name: "logic", BaseWeight: 2.0},
	}
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.Priorities = map[string]float64{"other": 5.0}
	})

	scores := scoreSkills([]string{"logic"}, configs, matrix, "anything", "")
	if scores["logic"] != 2.0 {
		t.Errorf("logic score = %v, want 2.0", scores["logic"])
	}
}

func TestScoreSkills_UnconfiguredSkillStillScores(t *testing.T) {
	configs := map[string]core.SkillConfig{
		"logic": {Name: "logic", BaseWeight: 1.0},
	}

	scores := scoreSkills([]string{"logic", "mystery"}, configs, matrixWith(nil), "anything", "")
	if scores["mystery"] != 1.0 {
		t.Errorf("unconfigured skill score = %v, want flat 1.0", scores["mystery"])
	}
}

func TestScoreSkills_NeverNegative(t *testing.T) {
	configs := map[string]core.SkillConfig{
		"a": {Name: "a", BaseWeight: 0.5, Keywords: []string{"x"}},
		"b": {Name: "b", BaseWeight: 1.0},
	}
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.Priorities = map[string]float64{"a": 0.1, "b": 0}
		m.TransitionWeights = map[string]map[string]float64{"a": {"b": 0.0}}
	})

	for _, last := range []string{"", "a", "b"} {
		scores := scoreSkills([]string{"a", "b"}, configs, matrix, "x marks the spot", last)
		for name, score := range scores {
			if score < 0 {
				t.Errorf("score(%s) = %v with last=%q, want >= 0", name, score, last)
			}
		}
	}
}

func TestResolveWinner_ClearMaximumWinsOutright(t *testing.T) {
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.DefaultSkill = "drama"
	})

	winner := resolveWinner(map[string]float64{"logic": 2.0, "drama": 1.0}, matrix)
	if winner != "logic" {
		t.Errorf("winner = %q, want logic", winner)
	}
}

func TestResolveWinner_OverrideRuleFiresFirst(t *testing.T) {
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.DefaultSkill = "drama"
		m.Priorities = map[string]float64{"logic": 1.0, "drama": 1.0}
		m.ConflictResolution = map[string]core.OverrideRule{
			"logic": {Overrides: []string{"drama"}},
		}
	})

	winner := resolveWinner(map[string]float64{"logic": 1.0, "drama": 1.0}, matrix)
	if winner != "logic" {
		t.Errorf("winner = %q, want logic via override", winner)
	}
}

func TestResolveWinner_PriorityMarginDecides(t *testing.T) {
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.DefaultSkill = "alpha"
		m.Priorities = map[string]float64{"zulu": 2.0, "alpha": 1.0}
	})

	winner := resolveWinner(map[string]float64{"zulu": 2.0, "alpha": 2.0}, matrix)
	if winner != "zulu" {
		t.Errorf("winner = %q, want zulu via priority margin", winner)
	}
}

func TestResolveWinner_FlatPriorityFallsThroughToDefault(t *testing.T) {
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.DefaultSkill = "zulu"
		m.Priorities = map[string]float64{"zulu": 1.0, "alpha": 1.0}
	})

	winner := resolveWinner(map[string]float64{"zulu": 1.0, "alpha": 1.0}, matrix)
	if winner != "zulu" {
		t.Errorf("winner = %q, want configured default zulu", winner)
	}
}

func TestResolveWinner_TopVsSecondComparisonWithThreeCandidates(t *testing.T) {
	// Three tied candidates where the top priority strictly exceeds the
	// second-highest: the margin rule still decides.
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.Priorities = map[string]float64{"a": 3.0, "b": 1.0, "c": 1.0}
	})

	winner := resolveWinner(map[string]float64{"a": 1.0, "b": 1.0, "c": 1.0}, matrix)
	if winner != "a" {
		t.Errorf("winner = %q, want a", winner)
	}
}

func TestResolveWinner_LexicographicLastResort(t *testing.T) {
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.DefaultSkill = "missing"
	})

	winner := resolveWinner(map[string]float64{"beta": 1.0, "alpha": 1.0, "gamma": 1.0}, matrix)
	if winner != "alpha" {
		t.Errorf("winner = %q, want alpha", winner)
	}
}

func TestResolveWinner_Deterministic(t *testing.T) {
	matrix := matrixWith(func(m *core.SelectionMatrix) {
		m.DefaultSkill = "b"
	})
	scores := map[string]float64{"a": 1.0, "b": 1.0, "c": 1.0, "d": 0.5}

	first := resolveWinner(scores, matrix)
	for i := 0; i < 100; i++ {
		if got := resolveWinner(scores, matrix); got != first {
			t.Fatalf("resolution not deterministic: %q vs %q", got, first)
		}
	}
}
